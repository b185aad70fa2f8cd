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

// Package ir defines the Kestrel intermediate representation (spec.md §3
// "IR Program"/"IR Function"/"IR Instruction", §4.6). Each instruction is a
// small concrete struct implementing a marker interface, one struct per
// tag, the same "tagged variants over inheritance" idiom pkg/asm/insn/insn.go
// uses for its own closed instruction union.
package ir

// ValueType is the Wasm-level type every IR local carries. All locals are
// i32 in the emitted module (spec.md §3 "IR Function").
type ValueType uint8

const (
	I32 ValueType = iota
)

// Instruction is implemented by every concrete IR instruction kind.
type Instruction interface {
	instructionNode()
}

// ConstInt writes a constant signed 64-bit value into Dest (spec.md §3);
// lowering range-checks it against i32 per the MVP lowering decision
// recorded in DESIGN.md, and the emitter encodes it as an i32 constant.
type ConstInt struct {
	Value int64
	Dest  int
}

func (ConstInt) instructionNode() {}

// ConstString loads a string literal's (pointer, length) pair from the
// module's concatenated string-data table into two destination locals.
type ConstString struct {
	PtrLocal int
	LenLocal int
	DataId   int
}

func (ConstString) instructionNode() {}

// LocalGet copies local Index into local Dest.
type LocalGet struct {
	Index int
	Dest  int
}

func (LocalGet) instructionNode() {}

// LocalSet copies local Src into local Index.
type LocalSet struct {
	Index int
	Src   int
}

func (LocalSet) instructionNode() {}

// StructAlloc allocates a new struct instance of the given layout, leaving
// its pointer in Dest (spec.md §4.7 "Struct allocation").
type StructAlloc struct {
	LayoutId int
	Dest     int
}

func (StructAlloc) instructionNode() {}

// StructSet writes an Int/Bool/Named/Ref-typed field.
type StructSet struct {
	Ptr    int
	Offset uint32
	Val    int
}

func (StructSet) instructionNode() {}

// StructSetStr writes a String-typed field as a (pointer,length) pair.
type StructSetStr struct {
	Ptr    int
	Offset uint32
	PtrVal int
	LenVal int
}

func (StructSetStr) instructionNode() {}

// StructGet reads an Int/Bool/Named/Ref-typed field into Dest.
type StructGet struct {
	Ptr    int
	Offset uint32
	Dest   int
}

func (StructGet) instructionNode() {}

// StructGetStr reads a String-typed field into two destination locals.
type StructGetStr struct {
	Ptr     int
	Offset  uint32
	PtrDest int
	LenDest int
}

func (StructGetStr) instructionNode() {}

// Call invokes a non-String-returning function by IR function index.
type Call struct {
	FuncIndex int
	Args      []int
	Dest      int
	HasDest   bool
}

func (Call) instructionNode() {}

// CallStr invokes a String-returning function, writing its result into two
// destination locals.
type CallStr struct {
	FuncIndex int
	Args      []int
	PtrDest   int
	LenDest   int
}

func (CallStr) instructionNode() {}

// PrintInt prints the decimal value of local (spec.md §4.7 "print_int").
type PrintInt struct {
	Local int
}

func (PrintInt) instructionNode() {}

// PrintStr prints the bytes at (ptr,len) (spec.md §4.7 "print_str").
type PrintStr struct {
	Ptr int
	Len int
}

func (PrintStr) instructionNode() {}

// Return returns from the current function with no value.
type Return struct{}

func (Return) instructionNode() {}

// ReturnInt returns local as the function's Int/Bool/Named/Ref result.
type ReturnInt struct {
	Local int
}

func (ReturnInt) instructionNode() {}

// ReturnStr returns (ptr,len) as the function's String result.
type ReturnStr struct {
	Ptr int
	Len int
}

func (ReturnStr) instructionNode() {}
