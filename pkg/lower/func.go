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
	"github.com/kestrel-lang/kestrelc/pkg/ir"
	"github.com/kestrel-lang/kestrelc/pkg/layout"
)

// funcCtx holds the per-function lowering state: the local slot allocator
// and nested-scope table (spec.md §4.6's "per-function local table"),
// grounded on pkg/asm/compiler/frame.go's Frame in the teacher package.
type funcCtx struct {
	pc         *progCtx
	scope      *funcScope
	boxed      map[string]bool
	paramSlots int
	next       int
}

func newFuncCtx(pc *progCtx, body *ast.Block) *funcCtx {
	return &funcCtx{pc: pc, scope: newFuncScope(), boxed: referencedNames(body)}
}

// slotSize reports how many i32 locals a value of t occupies: 2 for String
// (ptr, len), 1 for everything else (spec.md §3's field-size table collapses
// to this once Unit-typed locals, which never need a slot, are excluded).
func slotSize(t ast.Type) int {
	if t.Equal(ast.String) {
		return 2
	}

	return 1
}

func (fc *funcCtx) allocSlot(ty ast.Type) slot {
	if ty.Equal(ast.String) {
		s := slot{ty: ty, ptr: fc.next, lenv: fc.next + 1}
		fc.next += 2

		return s
	}

	s := slot{ty: ty, idx: fc.next}
	fc.next++

	return s
}

func (fc *funcCtx) declareParam(name string, ty ast.Type) {
	if fc.boxed[name] && !ty.Equal(ast.String) {
		addr := fc.next
		fc.next++
		fc.scope.declare(name, slot{ty: ty, idx: addr, boxed: true})

		return
	}

	fc.scope.declare(name, fc.allocSlot(ty))
}

func (fc *funcCtx) finishParams() {
	fc.paramSlots = fc.next
}

// lowerFunction lowers one user-declared function's AST body into an
// ir.Function (spec.md §4.6).
func (pc *progCtx) lowerFunction(sig funcSig) ir.Function {
	fn := sig.fn
	fc := newFuncCtx(pc, fn.Body)

	for _, p := range fn.Params {
		fc.declareParam(p.Name, p.Type)
	}

	fc.finishParams()

	var instrs []ir.Instruction

	fc.lowerStmts(&instrs, fn.Body.Stmts)

	if fn.Body.Tail != nil {
		v := fc.lowerExpr(&instrs, fn.Body.Tail)
		fc.emitReturn(&instrs, v)
	} else if fn.Return.Equal(ast.Unit) {
		instrs = append(instrs, ir.Return{})
	}

	return ir.Function{
		Name:        fn.Name,
		NumParams:   fc.paramSlots,
		NumLocals:   fc.next - fc.paramSlots,
		Instrs:      instrs,
		ReturnsStr:  fn.Return.Equal(ast.String),
		ReturnsUnit: fn.Return.Equal(ast.Unit),
	}
}

// lowerAccessor synthesises a generated getter/setter's body directly from
// its AccessorSpec (spec.md §4.3): these bodies never come from parsed
// source, so they bypass lowerExpr/lowerStmt entirely.
func (pc *progCtx) lowerAccessor(acc layout.AccessorSpec) ir.Function {
	name := acc.FuncName()

	if acc.IsSetter {
		if acc.Type.Equal(ast.String) {
			instrs := []ir.Instruction{
				ir.StructSetStr{Ptr: 0, Offset: acc.Offset, PtrVal: 1, LenVal: 2},
				ir.Return{},
			}

			return ir.Function{Name: name, NumParams: 3, Instrs: instrs, ReturnsUnit: true}
		}

		instrs := []ir.Instruction{
			ir.StructSet{Ptr: 0, Offset: acc.Offset, Val: 1},
			ir.Return{},
		}

		return ir.Function{Name: name, NumParams: 2, Instrs: instrs, ReturnsUnit: true}
	}

	if acc.Type.Equal(ast.String) {
		instrs := []ir.Instruction{
			ir.StructGetStr{Ptr: 0, Offset: acc.Offset, PtrDest: 1, LenDest: 2},
			ir.ReturnStr{Ptr: 1, Len: 2},
		}

		return ir.Function{Name: name, NumParams: 1, NumLocals: 2, Instrs: instrs, ReturnsStr: true}
	}

	instrs := []ir.Instruction{
		ir.StructGet{Ptr: 0, Offset: acc.Offset, Dest: 1},
		ir.ReturnInt{Local: 1},
	}

	return ir.Function{Name: name, NumParams: 1, NumLocals: 1, Instrs: instrs}
}

func (fc *funcCtx) emitReturn(out *[]ir.Instruction, v slot) {
	switch {
	case v.ty.Equal(ast.Unit):
		*out = append(*out, ir.Return{})
	case v.ty.Equal(ast.String):
		*out = append(*out, ir.ReturnStr{Ptr: v.ptr, Len: v.lenv})
	default:
		*out = append(*out, ir.ReturnInt{Local: v.idx})
	}
}
