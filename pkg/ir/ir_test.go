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
package ir

import (
	"strings"
	"testing"
)

// instructions lists one value of every concrete instruction kind, so a
// change that breaks the shared marker interface fails to compile here
// first.
var instructions = []Instruction{
	ConstInt{Value: 1, Dest: 0},
	ConstString{PtrLocal: 0, LenLocal: 1, DataId: 0},
	LocalGet{Index: 0, Dest: 1},
	LocalSet{Index: 0, Src: 1},
	StructAlloc{LayoutId: 0, Dest: 0},
	StructSet{Ptr: 0, Offset: 0, Val: 1},
	StructSetStr{Ptr: 0, Offset: 0, PtrVal: 1, LenVal: 2},
	StructGet{Ptr: 0, Offset: 0, Dest: 1},
	StructGetStr{Ptr: 0, Offset: 0, PtrDest: 1, LenDest: 2},
	BoxAlloc{Dest: 0},
	BoxGet{Ptr: 0, Dest: 1},
	BoxSet{Ptr: 0, Val: 1},
	Call{FuncIndex: 0, Args: []int{0}, Dest: 1, HasDest: true},
	CallStr{FuncIndex: 0, Args: nil, PtrDest: 0, LenDest: 1},
	PrintInt{Local: 0},
	PrintStr{Ptr: 0, Len: 1},
	Return{},
	ReturnInt{Local: 0},
	ReturnStr{Ptr: 0, Len: 1},
	BinOp{Op: OpAdd, Left: 0, Right: 1, Dest: 2},
	UnOp{Op: OpNeg, X: 0, Dest: 1},
	If{Cond: 0, Then: []Instruction{Return{}}},
}

func TestInstructions_ImplementMarker(t *testing.T) {
	if len(instructions) == 0 {
		t.Fatalf("expected at least one instruction sample")
	}
}

func TestProgram_DumpJSON(t *testing.T) {
	prog := &Program{
		Functions: []Function{
			{
				Name:      "main",
				NumParams: 0,
				NumLocals: 1,
				Instrs: []Instruction{
					ConstInt{Value: 42, Dest: 0},
					PrintInt{Local: 0},
					Return{},
				},
				ReturnsUnit: true,
			},
		},
		Layouts:    []StructLayout{{Module: "product", Name: "Product", Size: 8}},
		StringData: []string{"hi"},
	}

	out, err := prog.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON returned an error: %s", err)
	}

	s := string(out)

	for _, want := range []string{"main", "Product", "hi"} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON dump missing %q: %s", want, s)
		}
	}
}

func TestProgram_DumpJSON_Empty(t *testing.T) {
	prog := &Program{}

	out, err := prog.DumpJSON()
	if err != nil {
		t.Fatalf("DumpJSON returned an error: %s", err)
	}

	if len(out) == 0 {
		t.Errorf("expected non-empty JSON for an empty program")
	}
}
