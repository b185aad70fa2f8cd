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

import (
	"testing"

	"github.com/kestrel-lang/kestrelc/pkg/source"
)

func lexString(t *testing.T, src string) ([]Token, []source.Diagnostic) {
	t.Helper()

	set := source.NewSet()
	id := set.Add("test.kx", []byte(src))

	return Lex(set.Get(id), id)
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}

	return out
}

func checkKinds(t *testing.T, got []Kind, expected ...Kind) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("got %d tokens %v, expected %d %v", len(got), got, len(expected), expected)
	}

	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("token %d: got kind %d, expected %d", i, got[i], expected[i])
		}
	}
}

func TestLex_Empty(t *testing.T) {
	tokens, diags := lexString(t, "")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), EOF)
}

func TestLex_KeywordsAndIdents(t *testing.T) {
	tokens, diags := lexString(t, "fn main")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), FN, IDENT, EOF)

	if tokens[1].Str != "main" {
		t.Errorf("ident text = %q, expected \"main\"", tokens[1].Str)
	}
}

func TestLex_BoolLiterals(t *testing.T) {
	tokens, diags := lexString(t, "true false")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), BOOL, BOOL, EOF)

	if !tokens[0].Bool || tokens[1].Bool {
		t.Errorf("bool values = %v, %v, expected true, false", tokens[0].Bool, tokens[1].Bool)
	}
}

func TestLex_IntLiteral(t *testing.T) {
	tokens, diags := lexString(t, "42")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), INT, EOF)

	if tokens[0].Int != 42 {
		t.Errorf("int value = %d, expected 42", tokens[0].Int)
	}
}

func TestLex_StringEscapes(t *testing.T) {
	tokens, diags := lexString(t, `"a\nb\t\"\\"`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), STRING, EOF)

	if tokens[0].Str != "a\nb\t\"\\" {
		t.Errorf("decoded string = %q", tokens[0].Str)
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	_, diags := lexString(t, `"abc`)
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for an unterminated string")
	}

	found := false

	for _, d := range diags {
		if d.Level == source.Error {
			found = true
		}
	}

	if !found {
		t.Errorf("expected an Error-level diagnostic, got %v", diags)
	}
}

func TestLex_MultiCharPunctuationBeforeSingle(t *testing.T) {
	tokens, diags := lexString(t, "-> => == != <= >= :: && ||")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), ARROW, FATARROW, EQEQ, NEQ, LE, GE, COLONCOLON, AMPAMP, PIPEPIPE, EOF)
}

func TestLex_SingleCharPunctuationNotSwallowed(t *testing.T) {
	tokens, diags := lexString(t, "- = : & |")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), MINUS, EQ, COLON, AMP, PIPE, EOF)
}

func TestLex_CommentsAndWhitespaceSkipped(t *testing.T) {
	tokens, diags := lexString(t, "fn // a comment\n  main")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens), FN, IDENT, EOF)
}

func TestLex_UnexpectedCharacter(t *testing.T) {
	_, diags := lexString(t, "$")
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for an unrecognised character")
	}
}

func TestLex_FullFunctionSignature(t *testing.T) {
	tokens, diags := lexString(t, "fn main() -> () { print(42); }")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	checkKinds(t, kinds(tokens),
		FN, IDENT, LPAREN, RPAREN, ARROW, LPAREN, RPAREN, LBRACE,
		IDENT, LPAREN, INT, RPAREN, SEMI, RBRACE, EOF,
	)
}
