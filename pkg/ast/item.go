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

// Param is a single function parameter (spec.md §3: "name, type, mutability
// flag").
type Param struct {
	Name    string
	Type    Type
	Mutable bool
}

// Function is a top-level "fn" declaration (spec.md §3).
type Function struct {
	Loc
	Name       string
	Visibility Visibility
	Params     []Param
	Return     Type
	Body       *Block
}

func (f *Function) itemNode() {}

// AccessorAttr records which accessors a struct field requests via
// "@pub(get)" / "@pub(set)" / "@pub(get, set)" (spec.md §3).
type AccessorAttr struct {
	Get bool
	Set bool
}

// Field is a single struct field declaration (spec.md §3).
type Field struct {
	Loc
	Name string
	Type Type
	Attr AccessorAttr
}

// Struct is a top-level "struct" declaration (spec.md §3).
type Struct struct {
	Loc
	Name       string
	Visibility Visibility
	Fields     []Field
}

func (s *Struct) itemNode() {}

// Import is a top-level "import" declaration (spec.md §3, §4.4).
type Import struct {
	Loc
	// Path holds the dotted path segments, e.g. []string{"a","b"} for "a.b".
	Path []string
	// Alias holds the "as" alias, if any.
	Alias *string
}

func (i *Import) itemNode() {}

// ModuleName returns the local name this import is bound under: its alias
// if present, otherwise the final path segment (spec.md §4.4).
func (i *Import) ModuleName() string {
	if i.Alias != nil {
		return *i.Alias
	}

	return i.Path[len(i.Path)-1]
}
