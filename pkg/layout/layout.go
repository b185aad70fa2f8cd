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

// Package layout implements the desugar & layout pass (spec.md §4.3): a
// single AST walk that computes, for every exported struct, a byte layout
// and the accessor specs implied by its fields' "@pub(get,set)" attributes.
// It never mutates the AST; it produces two side tables for the lowering
// pass to consult, grounded on the register allocator
// in pkg/corset/compiler/allocation.go (offsets assigned in declaration
// order, no padding beyond what the fixed field widths already impose).
package layout

import (
	"sort"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
)

// FieldSize returns the fixed byte size of a field of the given type, per
// spec.md §3: String=8 (ptr+len), Int=4, Bool=4, Unit=0, Named/Ref=4.
func FieldSize(t ast.Type) uint32 {
	switch t.Kind {
	case ast.TString:
		return 8
	case ast.TInt, ast.TBool:
		return 4
	case ast.TUnit:
		return 0
	case ast.TNamed, ast.TRef:
		return 4
	default:
		return 0
	}
}

// FieldLayout is one field's position within its struct's layout.
type FieldLayout struct {
	Name   string
	Type   ast.Type
	Offset uint32
}

// StructLayout is the derived byte layout of one exported struct
// (spec.md §3 "Struct layout").
type StructLayout struct {
	Module string
	Name   string
	Fields []FieldLayout
	Size   uint32
}

// FieldOffset returns the byte offset of name within this layout, or false
// if the struct has no such field.
func (l *StructLayout) FieldOffset(name string) (uint32, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}

	return 0, false
}

// FieldType returns the declared type of name within this layout, or false
// if the struct has no such field.
func (l *StructLayout) FieldType(name string) (ast.Type, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return ast.Type{}, false
}

// AccessorSpec describes one generated getter or setter function
// (spec.md §3 "Accessor spec").
type AccessorSpec struct {
	Module     string
	StructName string
	FieldName  string
	Type       ast.Type
	Offset     uint32
	IsSetter   bool
}

// FuncName returns the generated function's name: "<module>_<Struct>_<field>"
// for a getter, "<module>_<Struct>_set_<field>" for a setter (spec.md §4.3).
func (a AccessorSpec) FuncName() string {
	if a.IsSetter {
		return a.Module + "_" + a.StructName + "_set_" + a.FieldName
	}

	return a.Module + "_" + a.StructName + "_" + a.FieldName
}

// SetterName returns the surface-syntax method name for setting field,
// "set_<field>" on the receiver (spec.md §4.3, §8 property 8).
func SetterName(field string) string {
	return "set_" + field
}

// Result is the output of a single module's desugar & layout pass.
type Result struct {
	Layouts   []*StructLayout
	Accessors []AccessorSpec
}

// Build walks one module's struct declarations, computing a StructLayout and
// any AccessorSpecs for each exported struct. Non-exported structs are
// skipped: only exported structs carry a layout, since only they can be
// constructed or accessed from another module's lowering (spec.md §4.3
// scopes layouts to "every *exported* struct").
func Build(module string, file *ast.File) Result {
	var result Result

	for _, item := range file.Items {
		s, ok := item.(*ast.Struct)
		if !ok || s.Visibility != ast.Exported {
			continue
		}

		sl := &StructLayout{Module: module, Name: s.Name}

		var offset uint32

		for _, field := range s.Fields {
			size := FieldSize(field.Type)

			sl.Fields = append(sl.Fields, FieldLayout{Name: field.Name, Type: field.Type, Offset: offset})

			if field.Attr.Get {
				result.Accessors = append(result.Accessors, AccessorSpec{
					Module: module, StructName: s.Name, FieldName: field.Name,
					Type: field.Type, Offset: offset, IsSetter: false,
				})
			}

			if field.Attr.Set {
				result.Accessors = append(result.Accessors, AccessorSpec{
					Module: module, StructName: s.Name, FieldName: field.Name,
					Type: field.Type, Offset: offset, IsSetter: true,
				})
			}

			offset += size
		}

		sl.Size = offset
		result.Layouts = append(result.Layouts, sl)
	}

	sortAccessors(result.Accessors)

	return result
}

// sortAccessors orders accessors deterministically by
// (module, struct_name, is_setter, field_name), per spec.md §4.3, so the
// function index assignment in the Wasm emitter is reproducible across runs.
func sortAccessors(accessors []AccessorSpec) {
	sort.Slice(accessors, func(i, j int) bool {
		a, b := accessors[i], accessors[j]

		if a.Module != b.Module {
			return a.Module < b.Module
		}

		if a.StructName != b.StructName {
			return a.StructName < b.StructName
		}

		if a.IsSetter != b.IsSetter {
			return !a.IsSetter
		}

		return a.FieldName < b.FieldName
	})
}
