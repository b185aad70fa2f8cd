// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package lex implements the Kestrel lexer (spec.md §4.1): a scanner-
// combinator rule table in the style of pkg/asm/assembler/lexer.go in the
// teacher package, layered with string-literal escape decoding and
// unterminated-string recovery (which the teacher's assembly language never
// needed, having no string literals).
package lex

import (
	"fmt"
	"strconv"

	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// Token kinds. The zero value is reserved for EOF.
const (
	EOF Kind = iota
	INT
	STRING
	BOOL
	IDENT
	// Reserved words, per spec.md §3.
	FN
	LET
	MUT
	IF
	ELSE
	MATCH
	RETURN
	STRUCT
	IMPORT
	PUB
	EXPORT
	AS
	// Punctuation, per spec.md §3.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COLON
	COMMA
	DOT
	SEMI
	AT
	COLONCOLON
	ARROW
	FATARROW
	EQ
	EQEQ
	NEQ
	LT
	LE
	GT
	GE
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	PIPE
	AMPAMP
	PIPEPIPE
	BANG
	QUESTION
	UNDERSCORE

	// internal-only kinds, filtered out before reaching the parser.
	whitespaceKind
	commentKind
	brokenStringKind
)

// reservedWords maps identifier text to its reserved-word Kind.
var reservedWords = map[string]Kind{
	"fn":     FN,
	"let":    LET,
	"mut":    MUT,
	"if":     IF,
	"else":   ELSE,
	"match":  MATCH,
	"return": RETURN,
	"struct": STRUCT,
	"import": IMPORT,
	"pub":    PUB,
	"export": EXPORT,
	"as":     AS,
}

// punctRules lists multi-character punctuation before any single-character
// prefix it shares, exactly as assembler.go orders RIGHTARROW before SUB:
// multi-character forms must be tried first or the shorter form would win.
var punctRules = []Rule{
	NewRule(Unit('-', '>'), ARROW),
	NewRule(Unit('=', '>'), FATARROW),
	NewRule(Unit('=', '='), EQEQ),
	NewRule(Unit('!', '='), NEQ),
	NewRule(Unit('<', '='), LE),
	NewRule(Unit('>', '='), GE),
	NewRule(Unit(':', ':'), COLONCOLON),
	NewRule(Unit('&', '&'), AMPAMP),
	NewRule(Unit('|', '|'), PIPEPIPE),
	NewRule(Unit('('), LPAREN),
	NewRule(Unit(')'), RPAREN),
	NewRule(Unit('{'), LBRACE),
	NewRule(Unit('}'), RBRACE),
	NewRule(Unit('['), LBRACKET),
	NewRule(Unit(']'), RBRACKET),
	NewRule(Unit(':'), COLON),
	NewRule(Unit(','), COMMA),
	NewRule(Unit('.'), DOT),
	NewRule(Unit(';'), SEMI),
	NewRule(Unit('@'), AT),
	NewRule(Unit('='), EQ),
	NewRule(Unit('<'), LT),
	NewRule(Unit('>'), GT),
	NewRule(Unit('+'), PLUS),
	NewRule(Unit('-'), MINUS),
	NewRule(Unit('*'), STAR),
	NewRule(Unit('/'), SLASH),
	NewRule(Unit('%'), PERCENT),
	NewRule(Unit('&'), AMP),
	NewRule(Unit('|'), PIPE),
	NewRule(Unit('!'), BANG),
	NewRule(Unit('?'), QUESTION),
	NewRule(Unit('_'), UNDERSCORE),
}

var whitespace = Many(Or(Unit(' '), Unit('\t'), Unit('\r'), Unit('\n')))
var lineComment = And(Unit('/', '/'), Until('\n'))
var digits = Many(Within('0', '9'))
var identStart = Or(Unit('_'), Within('a', 'z'), Within('A', 'Z'))
var identRest = Many(Or(Unit('_'), Within('0', '9'), Within('a', 'z'), Within('A', 'Z')))
var identifier = And(identStart, identRest)

// rules is the full Kestrel rule table, tried in order at each position.
var rules = append([]Rule{
	NewRule(lineComment, commentKind),
	NewRule(whitespace, whitespaceKind),
	NewRule(stringLiteral, STRING),
	NewRule(brokenString, brokenStringKind),
	NewRule(digits, INT),
	NewRule(identifier, IDENT),
}, append(punctRules, NewRule(Eof(), EOF))...)

// stringLiteral matches a complete, valid string literal: an opening quote,
// zero or more ordinary characters or recognised escapes, and a closing
// quote, all on one line. It fails (returns 0) on an unescaped newline,
// an unrecognised escape, or a missing closing quote, so that the
// brokenString rule can take over and report the precise failure.
func stringLiteral(items []byte) uint {
	if len(items) == 0 || items[0] != '"' {
		return 0
	}

	i := 1
	for i < len(items) {
		switch c := items[i]; c {
		case '\n':
			return 0
		case '\\':
			if i+1 >= len(items) {
				return 0
			}

			switch items[i+1] {
			case 'n', 't', '"', '\\':
				i += 2
			default:
				return 0
			}
		case '"':
			return uint(i + 1)
		default:
			i++
		}
	}

	return 0
}

// brokenString matches an opening quote through to the end of its line (or
// end of file), used to recover from an unterminated or malformed string
// literal: the lexer resynchronises at the next newline, per spec.md §4.1.
func brokenString(items []byte) uint {
	return And(Unit('"'), Until('\n'))(items)
}

// Token is a fully-classified, decoded lexical token (spec.md §3).
type Token struct {
	Kind Kind
	Span source.Span
	// Int holds the decoded value when Kind == INT.
	Int int64
	// Str holds the decoded text when Kind == STRING, or the raw spelling
	// when Kind == IDENT.
	Str string
	// Bool holds the decoded value when Kind == BOOL.
	Bool bool
}

// Lex tokenises a source file into a sequence of Tokens ending with exactly
// one EOF token, or reports diagnostics if the input could not be fully
// consumed. The lexer is total: every call either returns a non-empty
// Diagnostic slice, or a Token slice terminated by EOF (spec.md §4.1).
func Lex(file *source.File, fid source.FileId) ([]Token, []source.Diagnostic) {
	var (
		engine = NewEngine(file.Contents(), rules...)
		tokens []Token
		diags  []source.Diagnostic
	)

	for engine.HasNext() {
		raw := engine.Next()

		switch raw.Kind {
		case whitespaceKind, commentKind:
			continue
		case brokenStringKind:
			diags = append(diags, source.NewError(loc(fid, raw.Span), "unterminated string literal"))
		case STRING:
			text := file.Text(raw.Span)

			decoded, err := decodeString(text)
			if err != nil {
				diags = append(diags, source.NewError(loc(fid, raw.Span), "%s", err))
				continue
			}

			tokens = append(tokens, Token{Kind: STRING, Span: raw.Span, Str: decoded})
		case INT:
			text := file.Text(raw.Span)

			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				diags = append(diags, source.NewError(loc(fid, raw.Span), "integer literal out of range: %s", text))
				continue
			}

			tokens = append(tokens, Token{Kind: INT, Span: raw.Span, Int: n})
		case IDENT:
			text := file.Text(raw.Span)

			switch {
			case text == "true":
				tokens = append(tokens, Token{Kind: BOOL, Span: raw.Span, Bool: true})
			case text == "false":
				tokens = append(tokens, Token{Kind: BOOL, Span: raw.Span, Bool: false})
			default:
				if kw, ok := reservedWords[text]; ok {
					tokens = append(tokens, Token{Kind: kw, Span: raw.Span})
					continue
				}

				tokens = append(tokens, Token{Kind: IDENT, Span: raw.Span, Str: text})
			}
		default:
			tokens = append(tokens, Token{Kind: raw.Kind, Span: raw.Span})
		}
	}

	if engine.Remaining() > 0 {
		start := engine.Index()
		end := start + engine.Remaining()
		diags = append(diags, source.NewError(loc(fid, source.NewSpan(start, end)), "unexpected character"))

		return nil, diags
	}

	return tokens, diags
}

func loc(fid source.FileId, span source.Span) source.Location {
	return source.Location{File: fid, Span: span}
}

// decodeString strips the delimiting quotes from raw and decodes the escapes
// permitted by spec.md §3: \n \t \" \\.
func decodeString(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", fmt.Errorf("malformed string literal")
	}

	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}

		i++
		if i >= len(body) {
			return "", fmt.Errorf("trailing backslash in string literal")
		}

		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", body[i])
		}
	}

	return string(out), nil
}
