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
package check

import "github.com/kestrel-lang/kestrelc/pkg/ast"

// binding is one local variable's type and mutability, per spec.md §4.5
// item 3 ("Local variable types per function, with a boolean mutable flag
// tracked per binding").
type binding struct {
	typ     ast.Type
	mutable bool
}

// scope is a stack of nested lexical blocks, innermost last. Lookup walks
// from the innermost block outward, so an inner "let" can shadow an outer
// one, mirroring pkg/corset/compiler/scope.go's nested-scope shape in the
// teacher package.
type scope struct {
	frames []map[string]binding
}

func newScope() *scope {
	return &scope{frames: []map[string]binding{{}}}
}

func (s *scope) push() {
	s.frames = append(s.frames, map[string]binding{})
}

func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scope) declare(name string, typ ast.Type, mutable bool) {
	s.frames[len(s.frames)-1][name] = binding{typ, mutable}
}

func (s *scope) lookup(name string) (binding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}

	return binding{}, false
}
