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
	"slices"
	"testing"

	"github.com/kestrel-lang/kestrelc/pkg/ir"
)

func TestBuildBody_ConstIntReturn(t *testing.T) {
	fn := &ir.Function{
		NumParams: 0,
		NumLocals: 1,
		Instrs: []ir.Instruction{
			ir.ConstInt{Value: 42, Dest: 0},
			ir.ReturnInt{Local: 0},
		},
	}

	got := buildBody(fn, nil, nil, nil)
	expected := []byte{
		1, 1, valI32, // locals: 1 group of 1 i32
		opI32Const, 0x2A, opLocalSet, 0x00,
		opLocalGet, 0x00, opReturn,
		opEnd,
	}

	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestBuildBody_BinOp(t *testing.T) {
	fn := &ir.Function{
		NumParams: 2,
		NumLocals: 1,
		Instrs: []ir.Instruction{
			ir.BinOp{Op: ir.OpAdd, Left: 0, Right: 1, Dest: 2},
		},
	}

	got := buildBody(fn, nil, nil, nil)
	expected := []byte{
		1, 1, valI32,
		opLocalGet, 0x00, opLocalGet, 0x01, opI32Add, opLocalSet, 0x02,
		opEnd,
	}

	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestBuildBody_NoLocals(t *testing.T) {
	fn := &ir.Function{
		NumParams: 0,
		NumLocals: 0,
		Instrs:    []ir.Instruction{ir.Return{}},
	}

	got := buildBody(fn, nil, nil, nil)
	expected := []byte{0, opReturn, opEnd}

	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestBuildBody_If(t *testing.T) {
	fn := &ir.Function{
		NumParams: 1,
		NumLocals: 1,
		Instrs: []ir.Instruction{
			ir.If{
				Cond: 0,
				Then: []ir.Instruction{ir.ConstInt{Value: 1, Dest: 1}},
				Else: []ir.Instruction{ir.ConstInt{Value: 2, Dest: 1}},
			},
		},
	}

	got := buildBody(fn, nil, nil, nil)
	expected := []byte{
		1, 1, valI32,
		opLocalGet, 0x00, opIf, blockTypeEmpty,
		opI32Const, 0x01, opLocalSet, 0x01,
		opElse,
		opI32Const, 0x02, opLocalSet, 0x01,
		opEnd, // end if
		opEnd, // end function
	}

	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestBuildBody_IfNoElse(t *testing.T) {
	fn := &ir.Function{
		NumParams: 1,
		NumLocals: 0,
		Instrs: []ir.Instruction{
			ir.If{
				Cond: 0,
				Then: []ir.Instruction{ir.Return{}},
			},
		},
	}

	got := buildBody(fn, nil, nil, nil)
	expected := []byte{
		0,
		opLocalGet, 0x00, opIf, blockTypeEmpty,
		opReturn,
		opEnd,
		opEnd,
	}

	if !slices.Equal(got, expected) {
		t.Errorf("got %v, expected %v", got, expected)
	}
}

func TestFuncCodegen_LocalOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for out-of-range local index")
		}
	}()

	fc := &funcCodegen{numLocals: 2}
	fc.local(5)
}

func TestAlign4(t *testing.T) {
	cases := map[uint32]uint32{0: 0, 1: 4, 4: 4, 5: 8, 8: 8}

	for in, expected := range cases {
		if got := align4(in); got != expected {
			t.Errorf("align4(%d) = %d, expected %d", in, got, expected)
		}
	}
}
