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

// Package parser implements the Kestrel recursive-descent parser (spec.md
// §4.2). Its control structure (lookahead/expect/match/follows/spanOf and a
// single flat Parser struct holding a token slice and index) is grounded on
// pkg/asm/assembler/parser.go in the teacher package; unlike that parser,
// this one never aborts on the first error; every parse method that fails
// reports a diagnostic and the caller resynchronises at a statement or item
// boundary, so a file with N errors produces N diagnostics (spec.md §4.2).
package parser

import (
	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/lex"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// Parser holds the token stream for one source file and the accumulated
// diagnostics produced while parsing it.
type Parser struct {
	fid    source.FileId
	tokens []lex.Token
	index  int
	diags  []source.Diagnostic
	// noStructLit suppresses struct-literal parsing for a bare identifier
	// path immediately followed by "{", used while parsing an if/match
	// condition so that "if cond { ... }" is never misread as a struct
	// literal construction.
	noStructLit bool
}

// Parse lexes and parses a whole source file, returning the AST root and any
// diagnostics accumulated across both stages. If lexing fails outright, no
// AST is produced.
func Parse(file *source.File, fid source.FileId) (*ast.File, []source.Diagnostic) {
	tokens, diags := lex.Lex(file, fid)
	if len(diags) > 0 {
		return nil, diags
	}

	p := New(fid, tokens)
	root := p.parseFile()

	return root, p.diags
}

// New constructs a Parser over an already-lexed token stream.
func New(fid source.FileId, tokens []lex.Token) *Parser {
	return &Parser{fid: fid, tokens: tokens}
}

func (p *Parser) parseFile() *ast.File {
	var items []ast.Item

	start := p.index

	for p.peek().Kind != lex.EOF {
		if item, ok := p.parseItem(); ok {
			items = append(items, item)
		} else {
			p.synchronizeItem()
		}
	}

	return &ast.File{Loc: ast.Loc{Span: p.spanFrom(start)}, Items: items}
}

func (p *Parser) parseItem() (ast.Item, bool) {
	vis := ast.Private
	if p.match(lex.PUB) || p.match(lex.EXPORT) {
		vis = ast.Exported
	}

	switch p.peek().Kind {
	case lex.FN:
		return p.parseFunction(vis)
	case lex.STRUCT:
		return p.parseStruct(vis)
	case lex.IMPORT:
		return p.parseImport()
	default:
		p.error(p.peek().Span, "expected a function, struct, or import declaration")
		return nil, false
	}
}

func (p *Parser) parseFunction(vis ast.Visibility) (*ast.Function, bool) {
	start := p.index

	if _, ok := p.expect(lex.FN, "\"fn\""); !ok {
		return nil, false
	}

	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(lex.LPAREN, "\"(\""); !ok {
		return nil, false
	}

	params, ok := p.parseParams()
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(lex.RPAREN, "\")\""); !ok {
		return nil, false
	}

	ret := ast.Unit

	if p.match(lex.ARROW) {
		if ret, ok = p.parseType(); !ok {
			return nil, false
		}
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	return &ast.Function{
		Loc:        ast.Loc{Span: p.spanFrom(start)},
		Name:       name,
		Visibility: vis,
		Params:     params,
		Return:     ret,
		Body:       body,
	}, true
}

func (p *Parser) parseParams() ([]ast.Param, bool) {
	var params []ast.Param

	for !p.check(lex.RPAREN) {
		mutable := p.match(lex.MUT)

		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		if _, ok := p.expect(lex.COLON, "\":\""); !ok {
			return nil, false
		}

		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}

		params = append(params, ast.Param{Name: name, Type: ty, Mutable: mutable})

		if !p.match(lex.COMMA) {
			break
		}
	}

	return params, true
}

func (p *Parser) parseStruct(vis ast.Visibility) (*ast.Struct, bool) {
	start := p.index

	if _, ok := p.expect(lex.STRUCT, "\"struct\""); !ok {
		return nil, false
	}

	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}

	if _, ok := p.expect(lex.LBRACE, "\"{\""); !ok {
		return nil, false
	}

	var fields []ast.Field

	for !p.check(lex.RBRACE) && !p.check(lex.EOF) {
		field, ok := p.parseField()
		if ok {
			fields = append(fields, field)
		} else {
			p.synchronizeField()
		}

		if p.check(lex.SEMI) {
			p.error(p.peek().Span, "use commas, not semicolons, to separate struct fields")
			p.advance()

			continue
		}

		if !p.match(lex.COMMA) {
			break
		}
	}

	if _, ok := p.expect(lex.RBRACE, "\"}\""); !ok {
		return nil, false
	}

	return &ast.Struct{
		Loc:        ast.Loc{Span: p.spanFrom(start)},
		Name:       name,
		Visibility: vis,
		Fields:     fields,
	}, true
}

func (p *Parser) parseField() (ast.Field, bool) {
	start := p.index

	name, ok := p.expectIdent()
	if !ok {
		return ast.Field{}, false
	}

	if _, ok := p.expect(lex.COLON, "\":\""); !ok {
		return ast.Field{}, false
	}

	ty, ok := p.parseType()
	if !ok {
		return ast.Field{}, false
	}

	var attr ast.AccessorAttr

	if p.match(lex.AT) {
		if attr, ok = p.parsePubAttr(); !ok {
			return ast.Field{}, false
		}
	}

	return ast.Field{Loc: ast.Loc{Span: p.spanFrom(start)}, Name: name, Type: ty, Attr: attr}, true
}

func (p *Parser) parsePubAttr() (ast.AccessorAttr, bool) {
	var attr ast.AccessorAttr

	if _, ok := p.expect(lex.PUB, "\"pub\""); !ok {
		return attr, false
	}

	if _, ok := p.expect(lex.LPAREN, "\"(\""); !ok {
		return attr, false
	}

	for {
		tok := p.peek()

		kw, ok := p.expectIdent()
		if !ok {
			return attr, false
		}

		switch kw {
		case "get":
			attr.Get = true
		case "set":
			attr.Set = true
		default:
			p.error(tok.Span, "expected \"get\" or \"set\"")
			return attr, false
		}

		if !p.match(lex.COMMA) {
			break
		}
	}

	if _, ok := p.expect(lex.RPAREN, "\")\""); !ok {
		return attr, false
	}

	return attr, true
}

func (p *Parser) parseImport() (*ast.Import, bool) {
	start := p.index

	if _, ok := p.expect(lex.IMPORT, "\"import\""); !ok {
		return nil, false
	}

	first, ok := p.expectIdent()
	if !ok {
		return nil, false
	}

	path := []string{first}

	for p.match(lex.DOT) {
		seg, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		path = append(path, seg)
	}

	var alias *string

	if p.match(lex.AS) {
		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		alias = &name
	}

	if _, ok := p.expect(lex.SEMI, "\";\""); !ok {
		return nil, false
	}

	return &ast.Import{Loc: ast.Loc{Span: p.spanFrom(start)}, Path: path, Alias: alias}, true
}

func (p *Parser) parseType() (ast.Type, bool) {
	switch p.peek().Kind {
	case lex.LPAREN:
		p.advance()

		if _, ok := p.expect(lex.RPAREN, "\")\""); !ok {
			return ast.Type{}, false
		}

		return ast.Unit, true
	case lex.AMP:
		p.advance()
		mutable := p.match(lex.MUT)

		inner, ok := p.parseType()
		if !ok {
			return ast.Type{}, false
		}

		return ast.Ref(inner, mutable), true
	case lex.IDENT:
		tok := p.advance()
		path := []string{tok.Str}

		for p.match(lex.COLONCOLON) {
			seg, ok := p.expectIdent()
			if !ok {
				return ast.Type{}, false
			}

			path = append(path, seg)
		}

		if len(path) == 1 {
			switch path[0] {
			case "int":
				return ast.Int, true
			case "bool":
				return ast.Bool, true
			case "string":
				return ast.String, true
			}
		}

		return ast.Named(path...), true
	default:
		p.error(p.peek().Span, "expected a type")
		return ast.Type{}, false
	}
}

// --- token-stream primitives, grounded on assembler.Parser's lookahead/
// expect/match/follows family. ---

func (p *Parser) peek() lex.Token {
	return p.tokens[p.index]
}

func (p *Parser) peekAt(offset int) lex.Token {
	n := p.index + offset
	if n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[n]
}

func (p *Parser) advance() lex.Token {
	tok := p.tokens[p.index]
	if tok.Kind != lex.EOF {
		p.index++
	}

	return tok
}

func (p *Parser) check(kind lex.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind lex.Kind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) expect(kind lex.Kind, what string) (lex.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}

	p.error(p.peek().Span, "expected %s", what)

	return lex.Token{}, false
}

func (p *Parser) expectIdent() (string, bool) {
	tok, ok := p.expect(lex.IDENT, "an identifier")
	if !ok {
		return "", false
	}

	return tok.Str, true
}

func (p *Parser) spanFrom(startIndex int) source.Span {
	startTok := p.tokens[startIndex]

	endIndex := p.index - 1
	if endIndex < startIndex {
		endIndex = startIndex
	}

	endTok := p.tokens[endIndex]

	return source.NewSpan(startTok.Span.Start, endTok.Span.End)
}

func (p *Parser) error(span source.Span, format string, args ...any) {
	p.diags = append(p.diags, source.NewError(source.Location{File: p.fid, Span: span}, format, args...))
}

// synchronizeItem skips tokens until the start of a plausible top-level item
// or end of file, per spec.md §4.2's error-recovery policy.
func (p *Parser) synchronizeItem() {
	for {
		switch p.peek().Kind {
		case lex.EOF, lex.FN, lex.STRUCT, lex.IMPORT, lex.PUB, lex.EXPORT:
			return
		}

		p.advance()
	}
}

// synchronizeStmt skips tokens until the next statement boundary: a
// consumed ";", an unconsumed "}", or the start of a new item.
func (p *Parser) synchronizeStmt() {
	for {
		switch p.peek().Kind {
		case lex.SEMI:
			p.advance()
			return
		case lex.RBRACE, lex.EOF, lex.FN, lex.STRUCT, lex.IMPORT, lex.PUB, lex.EXPORT:
			return
		}

		p.advance()
	}
}

// synchronizeField skips to the next "," or "}" after a malformed struct
// field, so later fields still parse (spec.md §4.2).
func (p *Parser) synchronizeField() {
	for {
		switch p.peek().Kind {
		case lex.COMMA, lex.SEMI, lex.RBRACE, lex.EOF:
			return
		}

		p.advance()
	}
}
