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

// Package lower implements lowering (spec.md §4.6): AST + struct layouts +
// accessor specs become a flat ir.Program. Grounded on
// pkg/corset/compiler/translator.go (one function at a time, a local
// "register" table threaded through) and pkg/asm/compiler/frame.go (the
// per-function slot allocator); every temporary is materialised into a
// local slot, never left implicit on an evaluation stack that would cross
// an IR instruction boundary (spec.md §4.6).
package lower

import (
	"sort"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/ir"
	"github.com/kestrel-lang/kestrelc/pkg/layout"
	"github.com/kestrel-lang/kestrelc/pkg/resolve"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// mainModule is the synthetic module name given to the entry file's own
// declarations, so its struct accessors are named and keyed the same way a
// dependency's are.
const mainModule = "main"

// Module pairs a resolved module's name and AST with the struct layout
// computed for it by pkg/layout. Used only internally, to resolve a Named
// type back to the pkg/layout.StructLayout that describes it.
type Module struct {
	Name   string
	File   *ast.File
	Layout layout.Result
}

// funcSig records one callable's declaration plus its key in the function
// index table ("name" for an entry function, "mod::name" for a dependency's
// exported function, spec.md §4.5 item 2's qualified-name convention).
type funcSig struct {
	key    string
	fn     *ast.Function
	params []ast.Type
}

// progCtx holds whole-program lowering state: the function and struct
// layout index tables, and the interned string-data table (spec.md §4.7's
// "String data from all ConstString instructions is concatenated... and
// placed at offset 0").
type progCtx struct {
	fid source.FileId

	modules []Module

	layouts     []ir.StructLayout
	layoutIndex map[string]int

	funcIndex map[string]int
	funcSigs  map[string]funcSig

	accessors     []layout.AccessorSpec
	accessorIndex map[string]int

	strings    map[string]int
	stringData []string

	diags []source.Diagnostic
}

func layoutKey(module, name string) string {
	return module + "::" + name
}

func accessorKey(module, structName, field string, isSetter bool) string {
	if isSetter {
		return module + "::" + structName + "::set::" + field
	}

	return module + "::" + structName + "::get::" + field
}

// Program lowers the main module (already type-checked against deps) plus
// its resolved dependencies into a complete ir.Program (spec.md §4.6).
// mainLayout is the desugar/layout result for the main module itself;
// depLayouts maps each dependency's binding name to its own layout result.
func Program(fid source.FileId, main *ast.File, mainLayout layout.Result, deps []resolve.Module, depLayouts map[string]layout.Result) (*ir.Program, []source.Diagnostic) {
	pc := &progCtx{
		fid:           fid,
		layoutIndex:   map[string]int{},
		funcIndex:     map[string]int{},
		funcSigs:      map[string]funcSig{},
		accessorIndex: map[string]int{},
		strings:       map[string]int{},
	}

	pc.modules = append(pc.modules, Module{Name: mainModule, File: main, Layout: mainLayout})
	pc.collectLayouts(mainModule, mainLayout)

	for _, dep := range deps {
		dl := depLayouts[dep.Name]
		pc.modules = append(pc.modules, Module{Name: dep.Name, File: dep.File, Layout: dl})
		pc.collectLayouts(dep.Name, dl)
	}

	pc.sortAndIndexAccessors()

	// Function ordering, spec.md §4.6: index 0 = main, then the rest of the
	// entry module's own functions in declaration order, then each direct
	// dependency's exported functions (Modules order, then declaration
	// order), then generated accessors last (supplemental decision: spec.md
	// only pins main-then-accessors, so plain user functions are slotted in
	// between in declaration order).
	var order []funcSig

	order = append(order, pc.collectEntryFuncs(main)...)

	for _, dep := range deps {
		order = append(order, pc.collectDepFuncs(dep)...)
	}

	for i, sig := range order {
		pc.funcIndex[sig.key] = i
		pc.funcSigs[sig.key] = sig
	}

	for i, acc := range pc.accessors {
		key := accessorKey(acc.Module, acc.StructName, acc.FieldName, acc.IsSetter)
		pc.accessorIndex[key] = len(order) + i
		pc.funcIndex[key] = len(order) + i
	}

	functions := make([]ir.Function, 0, len(order)+len(pc.accessors))

	for _, sig := range order {
		functions = append(functions, pc.lowerFunction(sig))
	}

	for _, acc := range pc.accessors {
		functions = append(functions, pc.lowerAccessor(acc))
	}

	prog := &ir.Program{
		Functions:  functions,
		Layouts:    pc.layouts,
		StringData: pc.stringData,
	}

	return prog, pc.diags
}

func (pc *progCtx) collectLayouts(module string, result layout.Result) {
	for _, sl := range result.Layouts {
		idx := len(pc.layouts)
		pc.layouts = append(pc.layouts, ir.StructLayout{Module: sl.Module, Name: sl.Name, Size: sl.Size})
		pc.layoutIndex[layoutKey(module, sl.Name)] = idx
	}

	pc.accessors = append(pc.accessors, result.Accessors...)
}

func (pc *progCtx) sortAndIndexAccessors() {
	sort.Slice(pc.accessors, func(i, j int) bool {
		a, b := pc.accessors[i], pc.accessors[j]

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

func (pc *progCtx) collectEntryFuncs(file *ast.File) []funcSig {
	var (
		main []funcSig
		rest []funcSig
	)

	for _, item := range file.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}

		sig := funcSig{key: fn.Name, fn: fn, params: paramTypes(fn)}

		if fn.Name == "main" {
			main = append(main, sig)
			continue
		}

		rest = append(rest, sig)
	}

	return append(main, rest...)
}

func (pc *progCtx) collectDepFuncs(dep resolve.Module) []funcSig {
	var sigs []funcSig

	for _, item := range dep.File.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Visibility != ast.Exported {
			continue
		}

		sigs = append(sigs, funcSig{key: dep.Name + "::" + fn.Name, fn: fn, params: paramTypes(fn)})
	}

	return sigs
}

func paramTypes(fn *ast.Function) []ast.Type {
	out := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		out[i] = p.Type
	}

	return out
}

func (pc *progCtx) error(span source.Span, format string, args ...any) {
	pc.diags = append(pc.diags, source.NewError(source.Location{File: pc.fid, Span: span}, format, args...))
}

func (pc *progCtx) intern(s string) int {
	if id, ok := pc.strings[s]; ok {
		return id
	}

	id := len(pc.stringData)
	pc.stringData = append(pc.stringData, s)
	pc.strings[s] = id

	return id
}

// structLayoutFor resolves the pkg/layout.StructLayout (not the trimmed
// ir.StructLayout) backing a Named/Ref(Named) type, by module + struct
// name, searching the same module-name space used for accessor/function
// keys ("main" for the entry file's own structs).
func (pc *progCtx) structLayoutFor(t ast.Type) (*layout.StructLayout, string, bool) {
	if t.Kind == ast.TRef {
		t = *t.Inner
	}

	if t.Kind != ast.TNamed {
		return nil, "", false
	}

	module, name := mainModule, t.Path[0]
	if len(t.Path) == 2 {
		module, name = t.Path[0], t.Path[1]
	}

	for _, m := range pc.modules {
		if m.Name != module {
			continue
		}

		for _, sl := range m.Layout.Layouts {
			if sl.Name == name {
				return sl, module, true
			}
		}
	}

	return nil, module, false
}

func (pc *progCtx) layoutIdx(module, name string) (int, bool) {
	idx, ok := pc.layoutIndex[layoutKey(module, name)]
	return idx, ok
}
