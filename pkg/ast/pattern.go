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
package ast

// PatternKind enumerates match-pattern variants (spec.md §3 "Match
// patterns: integer, boolean, string literal, or wildcard _").
type PatternKind uint8

const (
	PatInt PatternKind = iota
	PatBool
	PatString
	PatWildcard
)

// Pattern is a single match-arm pattern (spec.md §3).
type Pattern struct {
	Loc
	Kind PatternKind
	Int  int64
	Bool bool
	Str  string
}
