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
package lower

import (
	"github.com/kestrel-lang/kestrelc/pkg/ast"
)

// slot is both "where a declared binding lives" and "where a just-evaluated
// temporary value lives" -- spec.md §4.6's "every temporary is materialised
// into a local slot" applies equally to both, so one type serves both roles
// (mirrors the binding type in pkg/check/scope.go, generalised with the two
// extra fields a String value's (ptr,len) pair needs).
type slot struct {
	ty ast.Type
	// idx holds the local index for every non-String representation: an
	// Int/Bool/Unit/Named/Ref value, or -- when boxed is true -- the
	// address of the memory cell actually holding the value (spec.md §3's
	// "&x"/"&mut x"/"*x" need addressable storage that a plain Wasm local
	// cannot provide, so such locals are boxed).
	idx int
	// ptr/lenv hold the two locals of a String value's (ptr,len) pair.
	ptr, lenv int
	// boxed marks a local whose address was taken somewhere in its
	// function, and which therefore lives in a heap cell (idx holds that
	// cell's address) rather than directly in a local.
	boxed bool
}

// funcScope is a stack of nested lexical blocks, innermost last, mirroring
// pkg/check/scope.go's shape.
type funcScope struct {
	frames []map[string]slot
}

func newFuncScope() *funcScope {
	return &funcScope{frames: []map[string]slot{{}}}
}

func (s *funcScope) push() {
	s.frames = append(s.frames, map[string]slot{})
}

func (s *funcScope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *funcScope) declare(name string, v slot) {
	s.frames[len(s.frames)-1][name] = v
}

func (s *funcScope) lookup(name string) (slot, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}

	return slot{}, false
}
