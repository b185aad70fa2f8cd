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
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Printer renders diagnostics as a human-readable snippet of the offending
// source line, with a caret under the reported span.  spec.md does not
// itself specify a rendering (only "human message, optional Location"); this
// is the kind of CLI ergonomics the driver (cmd/kestrelc) needs, modeled on
// how go-corset's own commands print SyntaxError values before exiting.
type Printer struct {
	files *Set
	// width is the terminal column count used to decide whether to truncate
	// long source lines; zero means "don't truncate".
	width uint
}

// NewPrinter constructs a Printer for the given file set.  If stdout is a
// terminal, its width is queried via term.GetSize so long lines can be
// truncated instead of wrapping unreadably.
func NewPrinter(files *Set, fd int) *Printer {
	width := uint(0)

	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = uint(w)
	}

	return &Printer{files, width}
}

// Render writes a formatted diagnostic to w: the message, followed by the
// enclosing source line and a caret line when a Location is present.
func (p *Printer) Render(w io.Writer, d Diagnostic) {
	fmt.Fprintf(w, "%s: %s\n", d.Level, d.Message)

	if d.Location == nil {
		return
	}

	file := p.files.Get(d.Location.File)
	line, lineStart, lineNo := findLine(file.contents, d.Location.Span.Start)
	fmt.Fprintf(w, "  --> %s:%d\n", file.filename, lineNo)

	rendered := line
	caretCol := d.Location.Span.Start - lineStart

	if p.width > 0 && uint(len(rendered)) > p.width {
		rendered = rendered[:p.width]
	}

	fmt.Fprintf(w, "   | %s\n", rendered)
	fmt.Fprintf(w, "   | %s^\n", strings.Repeat(" ", max(0, caretCol)))
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// findLine locates the line of text enclosing byte offset index, returning
// its text, its starting offset, and its 1-based line number. Mirrors
// File.FindFirstEnclosingLine in the teacher package.
func findLine(contents []byte, index int) (string, int, int) {
	lineNo := 1
	start := 0

	for i := 0; i < len(contents); i++ {
		if i == index {
			end := i
			for end < len(contents) && contents[end] != '\n' {
				end++
			}

			return string(contents[start:end]), start, lineNo
		} else if contents[i] == '\n' {
			lineNo++
			start = i + 1
		}
	}

	return string(contents[start:]), start, lineNo
}
