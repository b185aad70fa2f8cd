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
package wasm

import (
	"fmt"

	"github.com/kestrel-lang/kestrelc/pkg/ir"
)

// align4 rounds n up to the next multiple of 4. spec.md §4.7 "Struct
// allocation" requires the bump pointer to advance by align_up(size, 4);
// every field size in the fixed table (spec.md §3) is already a multiple
// of 4, so this is a no-op in practice, kept to honour the written contract.
func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// funcCodegen lowers one ir.Function's instruction list into a Wasm
// function body (locals declarations + bytecode + terminating "end").
type funcCodegen struct {
	numLocals int // NumParams + NumLocals, the total addressable local count
	layouts   []ir.StructLayout
}

func newFuncCodegen(fn *ir.Function, layouts []ir.StructLayout) *funcCodegen {
	return &funcCodegen{numLocals: fn.NumParams + fn.NumLocals, layouts: layouts}
}

// buildBody encodes fn's locals declaration vector followed by its
// instruction stream and a trailing "end".
func buildBody(fn *ir.Function, layouts []ir.StructLayout, stringOffsets []int32, stringLens []int32) []byte {
	fc := newFuncCodegen(fn, layouts)

	var code []byte

	extra := fn.NumLocals
	if extra > 0 {
		// One local-declaration group: "extra" i32 locals, all the same
		// type (spec.md §3 "all i32 in the emitted module").
		code = append(code, encodeLEB128U(1)...)
		code = append(code, encodeLEB128U(uint64(extra))...)
		code = append(code, valI32)
	} else {
		code = append(code, encodeLEB128U(0)...)
	}

	fc.emitInstrs(&code, fn.Instrs, stringOffsets, stringLens)
	code = append(code, opEnd)

	return code
}

func (fc *funcCodegen) local(idx int) uint64 {
	if idx < 0 || idx >= fc.numLocals {
		panic(fmt.Sprintf("internal error: local index %d out of range [0,%d)", idx, fc.numLocals))
	}

	return uint64(idx)
}

func (fc *funcCodegen) layoutSize(layoutID int) uint32 {
	if layoutID < 0 || layoutID >= len(fc.layouts) {
		panic(fmt.Sprintf("internal error: layout index %d out of range", layoutID))
	}

	return fc.layouts[layoutID].Size
}

// emitInstrs encodes a flat instruction list (a function body, or one arm
// of an If) into code.
func (fc *funcCodegen) emitInstrs(code *[]byte, instrs []ir.Instruction, stringOffsets, stringLens []int32) {
	for _, in := range instrs {
		fc.emitInstr(code, in, stringOffsets, stringLens)
	}
}

func (fc *funcCodegen) emitInstr(code *[]byte, instr ir.Instruction, stringOffsets, stringLens []int32) {
	switch in := instr.(type) {
	case ir.ConstInt:
		emit(code, opI32Const, encodeLEB128S(in.Value))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.ConstString:
		if in.DataId < 0 || in.DataId >= len(stringOffsets) {
			panic(fmt.Sprintf("internal error: string data id %d out of range", in.DataId))
		}

		emit(code, opI32Const, encodeLEB128S(int64(stringOffsets[in.DataId])))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.PtrLocal)))
		emit(code, opI32Const, encodeLEB128S(int64(stringLens[in.DataId])))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.LenLocal)))

	case ir.LocalGet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Index)))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.LocalSet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Src)))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Index)))

	case ir.StructAlloc:
		size := align4(fc.layoutSize(in.LayoutId))

		emit(code, opGlobalGet, encodeLEB128U(0))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

		emit(code, opGlobalGet, encodeLEB128U(0))
		emit(code, opI32Const, encodeLEB128S(int64(size)))
		*code = append(*code, opI32Add)
		emit(code, opGlobalSet, encodeLEB128U(0))

	case ir.StructSet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Val)))
		*code = append(*code, opI32Store)
		*code = append(*code, memarg(2, in.Offset)...)

	case ir.StructSetStr:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.PtrVal)))
		*code = append(*code, opI32Store)
		*code = append(*code, memarg(2, in.Offset)...)

		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.LenVal)))
		*code = append(*code, opI32Store)
		*code = append(*code, memarg(2, in.Offset+4)...)

	case ir.StructGet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		*code = append(*code, opI32Load)
		*code = append(*code, memarg(2, in.Offset)...)
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.StructGetStr:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		*code = append(*code, opI32Load)
		*code = append(*code, memarg(2, in.Offset)...)
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.PtrDest)))

		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		*code = append(*code, opI32Load)
		*code = append(*code, memarg(2, in.Offset+4)...)
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.LenDest)))

	case ir.BoxAlloc:
		emit(code, opGlobalGet, encodeLEB128U(0))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

		emit(code, opGlobalGet, encodeLEB128U(0))
		emit(code, opI32Const, encodeLEB128S(4))
		*code = append(*code, opI32Add)
		emit(code, opGlobalSet, encodeLEB128U(0))

	case ir.BoxGet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		*code = append(*code, opI32Load)
		*code = append(*code, memarg(2, 0)...)
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.BoxSet:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Val)))
		*code = append(*code, opI32Store)
		*code = append(*code, memarg(2, 0)...)

	case ir.Call:
		for _, a := range in.Args {
			emit(code, opLocalGet, encodeLEB128U(fc.local(a)))
		}

		emit(code, opCall, encodeLEB128U(uint64(userFuncIdx(in.FuncIndex))))

		if in.HasDest {
			emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))
		}

	case ir.CallStr:
		for _, a := range in.Args {
			emit(code, opLocalGet, encodeLEB128U(fc.local(a)))
		}

		emit(code, opCall, encodeLEB128U(uint64(userFuncIdx(in.FuncIndex))))

		// Multi-value call results are pushed in declaration order, so the
		// second result (len) sits on top of the stack.
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.LenDest)))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.PtrDest)))

	case ir.PrintInt:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Local)))
		emit(code, opCall, encodeLEB128U(printIntHelperIdx))

	case ir.PrintStr:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Len)))
		emit(code, opCall, encodeLEB128U(printStrHelperIdx))

	case ir.Return:
		*code = append(*code, opReturn)

	case ir.ReturnInt:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Local)))
		*code = append(*code, opReturn)

	case ir.ReturnStr:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Ptr)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Len)))
		*code = append(*code, opReturn)

	case ir.BinOp:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Left)))
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Right)))
		*code = append(*code, binOpcode(in.Op))
		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.UnOp:
		switch in.Op {
		case ir.OpNeg:
			emit(code, opI32Const, encodeLEB128S(0))
			emit(code, opLocalGet, encodeLEB128U(fc.local(in.X)))
			*code = append(*code, opI32Sub)
		case ir.OpNot:
			emit(code, opLocalGet, encodeLEB128U(fc.local(in.X)))
			*code = append(*code, opI32Eqz)
		}

		emit(code, opLocalSet, encodeLEB128U(fc.local(in.Dest)))

	case ir.If:
		emit(code, opLocalGet, encodeLEB128U(fc.local(in.Cond)))
		*code = append(*code, opIf, blockTypeEmpty)
		fc.emitInstrs(code, in.Then, stringOffsets, stringLens)

		if len(in.Else) > 0 {
			*code = append(*code, opElse)
			fc.emitInstrs(code, in.Else, stringOffsets, stringLens)
		}

		*code = append(*code, opEnd)

	default:
		panic(fmt.Sprintf("internal error: unhandled IR instruction %T", instr))
	}
}

func binOpcode(op ir.BinOpKind) byte {
	switch op {
	case ir.OpAdd:
		return opI32Add
	case ir.OpSub:
		return opI32Sub
	case ir.OpMul:
		return opI32Mul
	case ir.OpDiv:
		return opI32DivS
	case ir.OpRem:
		return opI32RemS
	case ir.OpEq:
		return opI32Eq
	case ir.OpNeq:
		return opI32Ne
	case ir.OpLt:
		return opI32LtS
	case ir.OpLe:
		return opI32LeS
	case ir.OpGt:
		return opI32GtS
	case ir.OpGe:
		return opI32GeS
	case ir.OpAnd:
		return opI32And
	case ir.OpOr:
		return opI32Or
	default:
		panic(fmt.Sprintf("internal error: unhandled binary operator %d", op))
	}
}
