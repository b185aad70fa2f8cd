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
	"math"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/ir"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

var binOpMap = map[ast.BinaryOp]ir.BinOpKind{
	ast.Add: ir.OpAdd,
	ast.Sub: ir.OpSub,
	ast.Mul: ir.OpMul,
	ast.Div: ir.OpDiv,
	ast.Mod: ir.OpRem,
	ast.Eq:  ir.OpEq,
	ast.Neq: ir.OpNeq,
	ast.Lt:  ir.OpLt,
	ast.Le:  ir.OpLe,
	ast.Gt:  ir.OpGt,
	ast.Ge:  ir.OpGe,
	ast.And: ir.OpAnd,
	ast.Or:  ir.OpOr,
}

// lowerExpr lowers one expression, appending whatever instructions are
// needed to out and returning the slot holding its value (spec.md §4.6:
// every evaluated expression is materialised into a local).
func (fc *funcCtx) lowerExpr(out *[]ir.Instruction, e ast.Expr) slot {
	switch ex := e.(type) {
	case *ast.IntLit:
		fc.checkI32Range(ex.Value, ex.NodeSpan())

		dst := fc.newTemp(ast.Int)
		*out = append(*out, ir.ConstInt{Value: ex.Value, Dest: dst.idx})

		return dst
	case *ast.BoolLit:
		dst := fc.newTemp(ast.Bool)
		v := int64(0)

		if ex.Value {
			v = 1
		}

		*out = append(*out, ir.ConstInt{Value: v, Dest: dst.idx})

		return dst
	case *ast.UnitLit:
		return slot{ty: ast.Unit}
	case *ast.StringLit:
		dst := fc.newTemp(ast.String)
		id := fc.pc.intern(ex.Value)
		*out = append(*out, ir.ConstString{PtrLocal: dst.ptr, LenLocal: dst.lenv, DataId: id})

		return dst
	case *ast.Ident:
		return fc.lowerIdent(out, ex)
	case *ast.BinaryExpr:
		return fc.lowerBinary(out, ex)
	case *ast.UnaryExpr:
		return fc.lowerUnary(out, ex)
	case *ast.RefExpr:
		return fc.lowerRef(out, ex)
	case *ast.DerefExpr:
		return fc.lowerDeref(out, ex)
	case *ast.IfExpr:
		return fc.lowerIf(out, ex)
	case *ast.MatchExpr:
		return fc.lowerMatch(out, ex)
	case *ast.StructLit:
		return fc.lowerStructLit(out, ex)
	case *ast.Call:
		return fc.lowerCall(out, ex)
	case *ast.FieldAccess:
		return fc.lowerFieldAccess(out, ex)
	case *ast.BlockExpr:
		return fc.lowerBlockValue(out, ex.Body)
	default:
		return slot{ty: ast.Unit}
	}
}

func (fc *funcCtx) newTemp(ty ast.Type) slot {
	s := fc.allocSlot(ty)

	return s
}

func (fc *funcCtx) lowerIdent(out *[]ir.Instruction, ex *ast.Ident) slot {
	s, ok := fc.scope.lookup(ex.Name)
	if !ok {
		return slot{ty: ast.Unit}
	}

	if !s.boxed {
		return s
	}

	dst := fc.newTemp(s.ty)
	*out = append(*out, ir.BoxGet{Ptr: s.idx, Dest: dst.idx})

	return dst
}

func (fc *funcCtx) lowerBinary(out *[]ir.Instruction, ex *ast.BinaryExpr) slot {
	l := fc.lowerExpr(out, ex.Left)
	r := fc.lowerExpr(out, ex.Right)

	resTy := ast.Int
	if ex.Op == ast.Eq || ex.Op == ast.Neq || ex.Op == ast.Lt || ex.Op == ast.Le ||
		ex.Op == ast.Gt || ex.Op == ast.Ge || ex.Op == ast.And || ex.Op == ast.Or {
		resTy = ast.Bool
	}

	dst := fc.newTemp(resTy)
	*out = append(*out, ir.BinOp{Op: binOpMap[ex.Op], Left: l.idx, Right: r.idx, Dest: dst.idx})

	return dst
}

func (fc *funcCtx) lowerUnary(out *[]ir.Instruction, ex *ast.UnaryExpr) slot {
	x := fc.lowerExpr(out, ex.X)

	op := ir.OpNeg
	ty := ast.Int

	if ex.Op == ast.Not {
		op = ir.OpNot
		ty = ast.Bool
	}

	dst := fc.newTemp(ty)
	*out = append(*out, ir.UnOp{Op: op, X: x.idx, Dest: dst.idx})

	return dst
}

// lowerRef takes the address of a local (refscan.go's pre-pass guarantees
// every referenced name was declared boxed, so its slot's idx already holds
// the address of its memory cell -- no instruction is needed to produce it).
func (fc *funcCtx) lowerRef(out *[]ir.Instruction, ex *ast.RefExpr) slot {
	s, ok := fc.scope.lookup(ex.Name)
	if !ok || !s.boxed {
		return slot{ty: ast.Unit}
	}

	return slot{ty: ast.Ref(s.ty, ex.Mutable), idx: s.idx}
}

func (fc *funcCtx) lowerDeref(out *[]ir.Instruction, ex *ast.DerefExpr) slot {
	ptr := fc.lowerExpr(out, ex.X)

	inner := ast.Int
	if ptr.ty.Kind == ast.TRef {
		inner = *ptr.ty.Inner
	}

	dst := fc.newTemp(inner)
	*out = append(*out, ir.BoxGet{Ptr: ptr.idx, Dest: dst.idx})

	return dst
}

func (fc *funcCtx) lowerIf(out *[]ir.Instruction, ex *ast.IfExpr) slot {
	cond := fc.lowerExpr(out, ex.Cond)

	resultTy := ast.Unit
	if ex.Else != nil {
		resultTy = blockType(fc, ex.Then)
	}

	var (
		thenOut, elseOut []ir.Instruction
		result           slot
	)

	if resultTy.Equal(ast.Unit) {
		fc.lowerBlockInto(&thenOut, ex.Then)

		if ex.Else != nil {
			fc.lowerBlockInto(&elseOut, ex.Else)
		}

		result = slot{ty: ast.Unit}
	} else {
		result = fc.newTemp(resultTy)
		thenVal := fc.lowerBlockValueInto(&thenOut, ex.Then)
		assignInto(&thenOut, result, thenVal)

		elseVal := fc.lowerBlockValueInto(&elseOut, ex.Else)
		assignInto(&elseOut, result, elseVal)
	}

	*out = append(*out, ir.If{Cond: cond.idx, Then: thenOut, Else: elseOut})

	return result
}

// assignInto copies src's representation into dst's already-allocated slot,
// used to join an if/match expression's branches on a common result slot.
func assignInto(out *[]ir.Instruction, dst, src slot) {
	if dst.ty.Equal(ast.Unit) {
		return
	}

	if dst.ty.Equal(ast.String) {
		*out = append(*out, ir.LocalGet{Index: src.ptr, Dest: dst.ptr}, ir.LocalGet{Index: src.lenv, Dest: dst.lenv})

		return
	}

	*out = append(*out, ir.LocalGet{Index: src.idx, Dest: dst.idx})
}

func blockType(fc *funcCtx, b *ast.Block) ast.Type {
	if b == nil || b.Tail == nil {
		return ast.Unit
	}

	return fc.exprType(b.Tail)
}

// exprType re-derives an already-checked expression's static type without
// re-running the checker, by the same structural rules pkg/check/expr.go
// uses to synthesize one; lowering only ever sees expressions the checker
// has already accepted.
func (fc *funcCtx) exprType(e ast.Expr) ast.Type {
	switch ex := e.(type) {
	case *ast.IntLit:
		return ast.Int
	case *ast.BoolLit:
		return ast.Bool
	case *ast.StringLit:
		return ast.String
	case *ast.UnitLit:
		return ast.Unit
	case *ast.Ident:
		if s, ok := fc.scope.lookup(ex.Name); ok {
			return s.ty
		}

		return ast.Unit
	case *ast.BinaryExpr:
		switch ex.Op {
		case ast.Eq, ast.Neq, ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.And, ast.Or:
			return ast.Bool
		default:
			return ast.Int
		}
	case *ast.UnaryExpr:
		if ex.Op == ast.Not {
			return ast.Bool
		}

		return ast.Int
	case *ast.RefExpr:
		s, _ := fc.scope.lookup(ex.Name)

		return ast.Ref(s.ty, ex.Mutable)
	case *ast.DerefExpr:
		t := fc.exprType(ex.X)
		if t.Kind == ast.TRef {
			return *t.Inner
		}

		return ast.Int
	case *ast.IfExpr:
		return blockType(fc, ex.Then)
	case *ast.MatchExpr:
		if len(ex.Arms) > 0 {
			return fc.exprType(ex.Arms[0].Body)
		}

		return ast.Unit
	case *ast.StructLit:
		if len(ex.Path) == 2 {
			return ast.Named(ex.Path[0], ex.Path[1])
		}

		return ast.Named(mainModule, ex.Path[0])
	case *ast.FieldAccess:
		if sl, _, ok := fc.pc.structLayoutFor(fc.exprType(ex.Target)); ok {
			if t, ok := sl.FieldType(ex.Field); ok {
				return t
			}
		}

		return ast.Unit
	case *ast.BlockExpr:
		return blockType(fc, ex.Body)
	default:
		return ast.Unit
	}
}

func (fc *funcCtx) lowerMatch(out *[]ir.Instruction, ex *ast.MatchExpr) slot {
	scrutinee := fc.lowerExpr(out, ex.Scrutinee)
	resultTy := fc.exprType(ex)

	var result slot
	if !resultTy.Equal(ast.Unit) {
		result = fc.newTemp(resultTy)
	} else {
		result = slot{ty: ast.Unit}
	}

	*out = append(*out, fc.lowerMatchArms(scrutinee, ex.Arms, result)...)

	return result
}

// lowerMatchArms desugars the arm list into a cascade of ir.If nodes
// (spec.md doesn't give match its own IR instruction): each
// non-wildcard arm becomes an equality test against the next arm's cascade
// nested in its Else, the final wildcard (or, absent one, an empty no-op)
// terminating the chain.
func (fc *funcCtx) lowerMatchArms(scrutinee slot, arms []ast.MatchArm, result slot) []ir.Instruction {
	if len(arms) == 0 {
		return nil
	}

	arm := arms[0]

	var thenOut []ir.Instruction

	v := fc.lowerExpr(&thenOut, arm.Body)
	assignInto(&thenOut, result, v)

	if arm.Pattern.Kind == ast.PatWildcard {
		return thenOut
	}

	var pre []ir.Instruction

	lit := fc.lowerPatternValue(&pre, arm.Pattern)
	cond := fc.patternEq(&pre, scrutinee, lit)

	elseOut := fc.lowerMatchArms(scrutinee, arms[1:], result)

	return append(pre, ir.If{Cond: cond.idx, Then: thenOut, Else: elseOut})
}

// patternEq compares a scrutinee value against a literal pattern value,
// returning the local holding the boolean result. A String scrutinee never
// carries bytes that didn't ultimately come from a ConstString-loaded
// literal -- the instruction set has no concatenation or mutation of
// strings -- and identical literals are interned to one data entry, so
// comparing the (ptr,len) pair is equivalent to a byte comparison.
func (fc *funcCtx) patternEq(out *[]ir.Instruction, scrutinee, lit slot) slot {
	if scrutinee.ty.Equal(ast.String) {
		ptrEq := fc.newTemp(ast.Bool)
		*out = append(*out, ir.BinOp{Op: ir.OpEq, Left: scrutinee.ptr, Right: lit.ptr, Dest: ptrEq.idx})

		lenEq := fc.newTemp(ast.Bool)
		*out = append(*out, ir.BinOp{Op: ir.OpEq, Left: scrutinee.lenv, Right: lit.lenv, Dest: lenEq.idx})

		cond := fc.newTemp(ast.Bool)
		*out = append(*out, ir.BinOp{Op: ir.OpAnd, Left: ptrEq.idx, Right: lenEq.idx, Dest: cond.idx})

		return cond
	}

	cond := fc.newTemp(ast.Bool)
	*out = append(*out, ir.BinOp{Op: ir.OpEq, Left: scrutinee.idx, Right: lit.idx, Dest: cond.idx})

	return cond
}

func (fc *funcCtx) lowerPatternValue(out *[]ir.Instruction, p ast.Pattern) slot {
	switch p.Kind {
	case ast.PatBool:
		dst := fc.newTemp(ast.Bool)
		v := int64(0)

		if p.Bool {
			v = 1
		}

		*out = append(*out, ir.ConstInt{Value: v, Dest: dst.idx})

		return dst
	case ast.PatString:
		dst := fc.newTemp(ast.String)
		id := fc.pc.intern(p.Str)
		*out = append(*out, ir.ConstString{PtrLocal: dst.ptr, LenLocal: dst.lenv, DataId: id})

		return dst
	default:
		fc.checkI32Range(p.Int, p.NodeSpan())

		dst := fc.newTemp(ast.Int)
		*out = append(*out, ir.ConstInt{Value: p.Int, Dest: dst.idx})

		return dst
	}
}

// checkI32Range reports a Lower-stage diagnostic when an int literal's
// value cannot be represented as the i32 the emitter lowers ast.Int to
// (spec.md §3: "Int ... represented in Wasm as i32 in MVP"; DESIGN.md Open
// Question (a)), rather than silently truncating it in codegen.
func (fc *funcCtx) checkI32Range(v int64, span source.Span) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		fc.pc.error(span, "integer literal exceeds i32 range in MVP lowering")
	}
}

func (fc *funcCtx) lowerStructLit(out *[]ir.Instruction, ex *ast.StructLit) slot {
	module, name := mainModule, ex.Path[0]
	if len(ex.Path) == 2 {
		module, name = ex.Path[0], ex.Path[1]
	}

	idx, ok := fc.pc.layoutIdx(module, name)
	if !ok {
		return slot{ty: ast.Unit}
	}

	sl, _, _ := fc.pc.structLayoutFor(ast.Named(module, name))
	ty := ast.Named(module, name)
	dst := fc.newTemp(ty)
	*out = append(*out, ir.StructAlloc{LayoutId: idx, Dest: dst.idx})

	for _, f := range ex.Fields {
		v := fc.lowerExpr(out, f.Value)

		off, _ := sl.FieldOffset(f.Name)
		ft, _ := sl.FieldType(f.Name)

		if ft.Equal(ast.String) {
			*out = append(*out, ir.StructSetStr{Ptr: dst.idx, Offset: off, PtrVal: v.ptr, LenVal: v.lenv})
		} else {
			*out = append(*out, ir.StructSet{Ptr: dst.idx, Offset: off, Val: v.idx})
		}
	}

	return dst
}

func (fc *funcCtx) lowerFieldAccess(out *[]ir.Instruction, ex *ast.FieldAccess) slot {
	target := fc.lowerExpr(out, ex.Target)

	sl, module, ok := fc.pc.structLayoutFor(fc.exprType(ex.Target))
	if !ok {
		return slot{ty: ast.Unit}
	}

	ft, _ := sl.FieldType(ex.Field)

	if ft.Equal(ast.String) {
		dst := fc.newTemp(ast.String)
		idx, hasIdx := fc.pc.funcIndex[accessorKey(module, sl.Name, ex.Field, false)]

		if hasIdx {
			*out = append(*out, ir.CallStr{FuncIndex: idx, Args: []int{target.idx}, PtrDest: dst.ptr, LenDest: dst.lenv})
		}

		return dst
	}

	dst := fc.newTemp(ft)
	idx, hasIdx := fc.pc.funcIndex[accessorKey(module, sl.Name, ex.Field, false)]

	if hasIdx {
		*out = append(*out, ir.Call{FuncIndex: idx, Args: []int{target.idx}, Dest: dst.idx, HasDest: true})
	}

	return dst
}

func (fc *funcCtx) lowerCall(out *[]ir.Instruction, ex *ast.Call) slot {
	if ex.Receiver == nil && len(ex.Path) == 1 && ex.Path[0] == "print" {
		return fc.lowerPrint(out, ex.Args[0])
	}

	if ex.Receiver != nil {
		return fc.lowerAccessorCall(out, ex)
	}

	var args []int

	for _, a := range ex.Args {
		v := fc.lowerExpr(out, a)

		if v.ty.Equal(ast.String) {
			args = append(args, v.ptr, v.lenv)
		} else {
			args = append(args, v.idx)
		}
	}

	key := ex.Path[0]
	if len(ex.Path) == 2 {
		key = ex.Path[0] + "::" + ex.Path[1]
	}

	sig, ok := fc.pc.funcSigs[key]
	if !ok {
		return slot{ty: ast.Unit}
	}

	idx := fc.pc.funcIndex[key]

	if sig.fn.Return.Equal(ast.String) {
		dst := fc.newTemp(ast.String)
		*out = append(*out, ir.CallStr{FuncIndex: idx, Args: args, PtrDest: dst.ptr, LenDest: dst.lenv})

		return dst
	}

	if sig.fn.Return.Equal(ast.Unit) {
		*out = append(*out, ir.Call{FuncIndex: idx, Args: args})

		return slot{ty: ast.Unit}
	}

	dst := fc.newTemp(sig.fn.Return)
	*out = append(*out, ir.Call{FuncIndex: idx, Args: args, Dest: dst.idx, HasDest: true})

	return dst
}

// lowerPrint lowers the builtin "print(x)" directly to PrintInt/PrintStr,
// never through the function-call machinery (spec.md §4.7 "print lowers to
// either PrintStr... or PrintInt").
func (fc *funcCtx) lowerPrint(out *[]ir.Instruction, arg ast.Expr) slot {
	v := fc.lowerExpr(out, arg)

	if v.ty.Equal(ast.String) {
		*out = append(*out, ir.PrintStr{Ptr: v.ptr, Len: v.lenv})
	} else {
		*out = append(*out, ir.PrintInt{Local: v.idx})
	}

	return slot{ty: ast.Unit}
}

// lowerAccessorCall lowers a receiver-form call "x.field()" / "x.set_field(v)",
// which the checker has already confirmed resolves to a generated accessor
// (spec.md §4.3; the parser builds every Call with a non-nil Receiver, and
// pkg/check/expr.go's synthMethodCall is where such a Call is type-checked).
func (fc *funcCtx) lowerAccessorCall(out *[]ir.Instruction, ex *ast.Call) slot {
	recv := fc.lowerExpr(out, ex.Receiver)

	sl, module, ok := fc.pc.structLayoutFor(fc.exprType(ex.Receiver))
	if !ok {
		return slot{ty: ast.Unit}
	}

	methodName := ex.Path[0]
	isSetter := len(methodName) > len("set_") && methodName[:len("set_")] == "set_"
	field := methodName

	if isSetter {
		field = methodName[len("set_"):]
	}

	idx, ok := fc.pc.funcIndex[accessorKey(module, sl.Name, field, isSetter)]
	if !ok {
		return slot{ty: ast.Unit}
	}

	ft, _ := sl.FieldType(field)

	if isSetter {
		v := fc.lowerExpr(out, ex.Args[0])

		if ft.Equal(ast.String) {
			*out = append(*out, ir.CallStr{FuncIndex: idx, Args: []int{recv.idx, v.ptr, v.lenv}})
		} else {
			*out = append(*out, ir.Call{FuncIndex: idx, Args: []int{recv.idx, v.idx}})
		}

		return slot{ty: ast.Unit}
	}

	if ft.Equal(ast.String) {
		dst := fc.newTemp(ast.String)
		*out = append(*out, ir.CallStr{FuncIndex: idx, Args: []int{recv.idx}, PtrDest: dst.ptr, LenDest: dst.lenv})

		return dst
	}

	dst := fc.newTemp(ft)
	*out = append(*out, ir.Call{FuncIndex: idx, Args: []int{recv.idx}, Dest: dst.idx, HasDest: true})

	return dst
}

func (fc *funcCtx) lowerBlockValue(out *[]ir.Instruction, b *ast.Block) slot {
	return fc.lowerBlockValueInto(out, b)
}
