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

// Span represents a half-open byte range [start,end) into the contents of a
// single source file.  Spans are attached directly to AST nodes (rather than
// stored in a side table) so that every node can report its own location.
type Span struct {
	Start int
	End   int
}

// NewSpan constructs a new span, checking that start <= end.
func NewSpan(start, end int) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{start, end}
}

// Length returns the number of bytes covered by this span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Contains checks whether the inner span lies entirely within this span.
// Used to validate invariant 1 from the data model: every AST node's span is
// a subset of its parent's.
func (s Span) Contains(inner Span) bool {
	return s.Start <= inner.Start && inner.End <= s.End
}

// Union returns the smallest span enclosing both s and other.
func (s Span) Union(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}

	end := s.End
	if other.End > end {
		end = other.End
	}

	return Span{start, end}
}

// FileId identifies a source file within a Set.
type FileId uint32

// Location pairs a FileId with a Span within that file.
type Location struct {
	File FileId
	Span Span
}
