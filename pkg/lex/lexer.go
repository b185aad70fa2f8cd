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
package lex

import "github.com/kestrel-lang/kestrelc/pkg/source"

// Kind identifies the lexical category of a raw token, before the parser
// attaches language-specific meaning to it.
type Kind uint

// Rule associates a scanner with the raw Kind it produces on a match.
// Adapted from lex.LexRule[T] in the teacher package.
type Rule struct {
	scanner Scanner
	kind    Kind
}

// NewRule constructs a lexing rule mapping a scanner's matches to kind.
func NewRule(scanner Scanner, kind Kind) Rule {
	return Rule{scanner, kind}
}

// RawToken is the raw output of the scanner loop: a Kind plus the span it
// covers.  The Kestrel-specific driver (kestrel.go) turns these into fully
// decoded Tokens.
type RawToken struct {
	Kind Kind
	Span source.Span
}

// Engine drives a rule table over a byte buffer, producing a stream of raw
// tokens.  Adapted from lex.Lexer[T] in the teacher package.
type Engine struct {
	input  []byte
	index  int
	rules  []Rule
	buffer []RawToken
}

// NewEngine constructs a scanning engine over input using the given rule
// table, tried in order at each position (first match wins).
func NewEngine(input []byte, rules ...Rule) *Engine {
	return &Engine{input, 0, rules, nil}
}

// Index returns the current byte offset within the input.
func (e *Engine) Index() int {
	return e.index
}

// Remaining reports how many bytes of the input have not yet been consumed.
func (e *Engine) Remaining() int {
	if r := len(e.input) - e.index; r > 0 {
		return r
	}

	return 0
}

// HasNext reports whether another raw token is available.
func (e *Engine) HasNext() bool {
	e.scan()
	return len(e.buffer) > 0
}

// Next returns the next raw token and advances past it.
func (e *Engine) Next() RawToken {
	next := e.buffer[0]
	e.buffer = e.buffer[1:]

	if e.index == len(e.input) {
		e.index++
	} else {
		e.index = next.Span.End
	}

	return next
}

func (e *Engine) scan() {
	if len(e.buffer) != 0 || e.index > len(e.input) {
		return
	}

	for _, r := range e.rules {
		if n := r.scanner(e.input[e.index:]); n > 0 {
			end := min(len(e.input), e.index+int(n))
			e.buffer = append(e.buffer, RawToken{r.kind, source.NewSpan(e.index, end)})

			return
		}
	}
}
