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
package layout

import "github.com/kestrel-lang/kestrelc/pkg/ast"

// BoolCoverage tracks which of the two Bool arm values ("true"/"false") a
// match has seen, hand-rolled rather than pulled from a bitset library
// (the teacher's own go.mod carries bits-and-blooms/bitset only as an
// unused transitive dependency, and hand-rolls its own bitsets in
// pkg/util/collection/bit; see SPEC_FULL.md §2).
type BoolCoverage uint8

const (
	coversTrue  BoolCoverage = 1 << 0
	coversFalse BoolCoverage = 1 << 1
)

// Mark records that an arm matching v has been seen.
func (c BoolCoverage) Mark(v bool) BoolCoverage {
	if v {
		return c | coversTrue
	}

	return c | coversFalse
}

// Exhaustive reports whether both true and false have been covered.
func (c BoolCoverage) Exhaustive() bool {
	return c&coversTrue != 0 && c&coversFalse != 0
}

// IsExhaustive reports whether a match over the given patterns is
// exhaustive, per spec.md §4.5: exhaustive iff it contains a wildcard arm
// or, for a Bool scrutinee, both "true" and "false" arms are present.
func IsExhaustive(scrutinee ast.Type, patterns []ast.Pattern) bool {
	var coverage BoolCoverage

	for _, p := range patterns {
		if p.Kind == ast.PatWildcard {
			return true
		}

		if scrutinee.Kind == ast.TBool && p.Kind == ast.PatBool {
			coverage = coverage.Mark(p.Bool)
		}
	}

	if scrutinee.Kind == ast.TBool {
		return coverage.Exhaustive()
	}

	return false
}
