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
package source

import (
	"strings"
	"testing"
)

func TestPrinter_Render_NoLocation(t *testing.T) {
	set := NewSet()

	var buf strings.Builder

	p := NewPrinter(set, -1)
	p.Render(&buf, NewError(Location{}, "bad thing"))

	if !strings.Contains(buf.String(), "bad thing") {
		t.Errorf("rendered output missing message: %q", buf.String())
	}

	if strings.Contains(buf.String(), "-->") {
		t.Errorf("expected no location line when Location is nil, got %q", buf.String())
	}
}

func TestPrinter_Render_WithLocation(t *testing.T) {
	set := NewSet()
	id := set.Add("main.kx", []byte("fn main() -> () {\n    let x = 1\n}\n"))

	// Point the span at the "1" on line 2.
	line2Start := len("fn main() -> () {\n")
	offset := line2Start + len("    let x = ")

	d := NewError(Location{File: id, Span: NewSpan(offset, offset+1)}, "missing semicolon")

	var buf strings.Builder

	p := NewPrinter(set, -1)
	p.Render(&buf, d)

	out := buf.String()

	if !strings.Contains(out, "missing semicolon") {
		t.Errorf("rendered output missing message: %q", out)
	}

	if !strings.Contains(out, "main.kx:2") {
		t.Errorf("expected a \"main.kx:2\" location line, got %q", out)
	}

	if !strings.Contains(out, "let x = 1") {
		t.Errorf("expected the offending source line to be rendered, got %q", out)
	}

	if !strings.Contains(out, "^") {
		t.Errorf("expected a caret line, got %q", out)
	}
}

func TestFindLine_FirstLine(t *testing.T) {
	line, start, lineNo := findLine([]byte("abc\ndef"), 1)

	if line != "abc" || start != 0 || lineNo != 1 {
		t.Errorf("findLine = (%q, %d, %d), expected (\"abc\", 0, 1)", line, start, lineNo)
	}
}

func TestFindLine_SecondLine(t *testing.T) {
	line, start, lineNo := findLine([]byte("abc\ndef"), 5)

	if line != "def" || start != 4 || lineNo != 2 {
		t.Errorf("findLine = (%q, %d, %d), expected (\"def\", 4, 2)", line, start, lineNo)
	}
}
