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

func simpleProgram() *ir.Program {
	return &ir.Program{
		Functions: []ir.Function{
			{
				Name:      "main",
				NumParams: 0,
				NumLocals: 1,
				Instrs: []ir.Instruction{
					ir.ConstInt{Value: 5, Dest: 0},
					ir.PrintInt{Local: 0},
					ir.Return{},
				},
				ReturnsUnit: true,
			},
		},
	}
}

func TestEmit_Header(t *testing.T) {
	out, err := Emit(simpleProgram())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) < 8 {
		t.Fatalf("module too short: %d bytes", len(out))
	}

	if !slices.Equal(out[0:4], magic) {
		t.Errorf("bad magic: %v", out[0:4])
	}

	if !slices.Equal(out[4:8], version) {
		t.Errorf("bad version: %v", out[4:8])
	}
}

func TestEmit_SectionsInOrder(t *testing.T) {
	out, err := Emit(simpleProgram())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ids []byte

	for i := 8; i < len(out); {
		id := out[i]
		ids = append(ids, id)
		i++

		length, n := decodeLEB128U(out[i:])
		i += n
		i += int(length)
	}

	// Canonical order; this program has no string data so secData is absent.
	expected := []byte{secType, secImport, secFunction, secMemory, secGlobal, secExport, secStart, secCode}
	if !slices.Equal(ids, expected) {
		t.Errorf("section ids = %v, expected %v", ids, expected)
	}
}

func TestEmit_InvalidCallIndexRejected(t *testing.T) {
	prog := &ir.Program{
		Functions: []ir.Function{
			{
				Name:        "main",
				ReturnsUnit: true,
				Instrs: []ir.Instruction{
					ir.Call{FuncIndex: 7, HasDest: false},
				},
			},
		},
	}

	if _, err := Emit(prog); err == nil {
		t.Errorf("expected an error for an out-of-range call target")
	}
}

func TestEmit_InvalidCallIndexInsideIf(t *testing.T) {
	prog := &ir.Program{
		Functions: []ir.Function{
			{
				Name:        "main",
				ReturnsUnit: true,
				Instrs: []ir.Instruction{
					ir.If{
						Cond: 0,
						Then: []ir.Instruction{ir.Call{FuncIndex: 99}},
					},
				},
			},
		},
	}

	if _, err := Emit(prog); err == nil {
		t.Errorf("expected an error for an out-of-range call target nested in an If")
	}
}

func TestBuilder_LayoutStrings(t *testing.T) {
	b := newBuilder()
	b.layoutStrings([]string{"hi", "world"})

	if !slices.Equal(b.stringOffsets, []int32{0, 2}) {
		t.Errorf("offsets = %v", b.stringOffsets)
	}

	if !slices.Equal(b.stringLens, []int32{2, 5}) {
		t.Errorf("lens = %v", b.stringLens)
	}
}

func TestBuilder_TypeIndexDedup(t *testing.T) {
	b := newBuilder()

	a := b.typeIndex(funcType{params: 1, results: 1})
	c := b.typeIndex(funcType{params: 2, results: 0})
	d := b.typeIndex(funcType{params: 1, results: 1})

	if a != d {
		t.Errorf("identical signatures should share a type index: %d != %d", a, d)
	}

	if a == c {
		t.Errorf("distinct signatures must not share a type index")
	}
}

// decodeLEB128U is the read-side counterpart of encodeLEB128U, used only to
// walk section framing in tests.
func decodeLEB128U(b []byte) (uint64, int) {
	var result uint64

	var shift uint

	for i, by := range b {
		result |= uint64(by&0x7F) << shift
		if by&0x80 == 0 {
			return result, i + 1
		}

		shift += 7
	}

	return result, len(b)
}
