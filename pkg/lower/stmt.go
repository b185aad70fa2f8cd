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
)

// lowerStmts lowers a flat statement sequence in the function's current
// scope frame (used directly for a function body, which owns the outermost
// frame rather than pushing one of its own).
func (fc *funcCtx) lowerStmts(out *[]ir.Instruction, stmts []ast.Stmt) {
	for _, s := range stmts {
		fc.lowerStmt(out, s)
	}
}

// lowerBlockInto lowers a nested block (if/else arm, match arm body wrapped
// in a block, etc.) that is used only for its side effects, discarding any
// tail value.
func (fc *funcCtx) lowerBlockInto(out *[]ir.Instruction, b *ast.Block) {
	if b == nil {
		return
	}

	fc.scope.push()
	fc.lowerStmts(out, b.Stmts)

	if b.Tail != nil {
		fc.lowerExpr(out, b.Tail)
	}

	fc.scope.pop()
}

// lowerBlockValueInto lowers a nested block used in expression position,
// returning the slot holding its tail value (Unit if the block has none).
func (fc *funcCtx) lowerBlockValueInto(out *[]ir.Instruction, b *ast.Block) slot {
	if b == nil {
		return slot{ty: ast.Unit}
	}

	fc.scope.push()
	fc.lowerStmts(out, b.Stmts)

	var v slot
	if b.Tail != nil {
		v = fc.lowerExpr(out, b.Tail)
	} else {
		v = slot{ty: ast.Unit}
	}

	fc.scope.pop()

	return v
}

func (fc *funcCtx) lowerStmt(out *[]ir.Instruction, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		fc.lowerLet(out, st)
	case *ast.AssignStmt:
		fc.lowerAssign(out, st)
	case *ast.AssignDerefStmt:
		fc.lowerAssignDeref(out, st)
	case *ast.ExprStmt:
		fc.lowerExpr(out, st.Expr)
	case *ast.ReturnStmt:
		fc.lowerReturn(out, st)
	}
}

// lowerLet evaluates the initializer and binds it, giving the new local the
// boxed (memory-backed) representation if refscan.go found its address
// taken anywhere in this function (spec.md §4.5's "&x"/"&mut x").
func (fc *funcCtx) lowerLet(out *[]ir.Instruction, st *ast.LetStmt) {
	v := fc.lowerExpr(out, st.Init)

	if !fc.boxed[st.Name] || v.ty.Equal(ast.String) {
		fc.scope.declare(st.Name, v)

		return
	}

	cell := fc.newTemp(v.ty)
	*out = append(*out, ir.BoxAlloc{Dest: cell.idx})
	*out = append(*out, ir.BoxSet{Ptr: cell.idx, Val: v.idx})
	fc.scope.declare(st.Name, slot{ty: v.ty, idx: cell.idx, boxed: true})
}

func (fc *funcCtx) lowerAssign(out *[]ir.Instruction, st *ast.AssignStmt) {
	v := fc.lowerExpr(out, st.Value)

	target, ok := fc.scope.lookup(st.Target.Name)
	if !ok {
		return
	}

	if target.boxed {
		*out = append(*out, ir.BoxSet{Ptr: target.idx, Val: v.idx})

		return
	}

	if target.ty.Equal(ast.String) {
		*out = append(*out, ir.LocalGet{Index: v.ptr, Dest: target.ptr}, ir.LocalGet{Index: v.lenv, Dest: target.lenv})

		return
	}

	*out = append(*out, ir.LocalGet{Index: v.idx, Dest: target.idx})
}

// lowerAssignDeref writes through a "&mut" reference (spec.md §3
// "AssignDeref(name, value)"): name holds a reference whose idx is the
// boxed cell's address, so writing through it is a BoxSet at that address.
func (fc *funcCtx) lowerAssignDeref(out *[]ir.Instruction, st *ast.AssignDerefStmt) {
	ref, ok := fc.scope.lookup(st.Name)
	if !ok {
		return
	}

	v := fc.lowerExpr(out, st.Value)
	*out = append(*out, ir.BoxSet{Ptr: ref.idx, Val: v.idx})
}

func (fc *funcCtx) lowerReturn(out *[]ir.Instruction, st *ast.ReturnStmt) {
	if st.Value == nil {
		*out = append(*out, ir.Return{})

		return
	}

	v := fc.lowerExpr(out, st.Value)
	fc.emitReturn(out, v)
}
