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

// funcType is a Wasm function signature: every parameter and result in
// this module is i32 (spec.md §3), so a signature reduces to a pair of
// counts.
type funcType struct {
	params  int
	results int
}

// builder accumulates the sections of one Wasm module under construction.
type builder struct {
	types     []funcType
	typeCache map[funcType]int

	// funcTypeIdx[i] is the type-section index of the i'th function
	// listed in the function section (internal functions only, in the
	// same order as codeBodies).
	funcTypeIdx []int
	codeBodies  [][]byte

	stringOffsets []int32
	stringLens    []int32
	rawStrings    []string
}

func newBuilder() *builder {
	return &builder{typeCache: map[funcType]int{}}
}

func (b *builder) typeIndex(t funcType) int {
	if idx, ok := b.typeCache[t]; ok {
		return idx
	}

	idx := len(b.types)
	b.types = append(b.types, t)
	b.typeCache[t] = idx

	return idx
}

// Emit lowers a fully-built ir.Program into a binary Wasm module, honouring
// the canonical section order and fixed preamble of spec.md §4.7.
func Emit(prog *ir.Program) ([]byte, error) {
	if err := validateCalls(prog); err != nil {
		return nil, err
	}

	b := newBuilder()
	b.layoutStrings(prog.StringData)

	// Fixed imports: fd_write, proc_exit (spec.md §4.7 "Fixed preamble").
	fdWriteType := b.typeIndex(funcType{params: 4, results: 1})
	procExitType := b.typeIndex(funcType{params: 1, results: 0})

	// Runtime helpers: print_int, print_str.
	printIntType := b.typeIndex(funcType{params: 1, results: 0})
	printStrType := b.typeIndex(funcType{params: 2, results: 0})

	b.funcTypeIdx = append(b.funcTypeIdx, printIntType, printStrType)
	b.codeBodies = append(b.codeBodies, buildPrintInt(), buildPrintStr())

	for i := range prog.Functions {
		fn := &prog.Functions[i]

		results := 1
		if fn.ReturnsUnit {
			results = 0
		} else if fn.ReturnsStr {
			results = 2
		}

		tidx := b.typeIndex(funcType{params: fn.NumParams, results: results})
		b.funcTypeIdx = append(b.funcTypeIdx, tidx)
		b.codeBodies = append(b.codeBodies, buildBody(fn, prog.Layouts, b.stringOffsets, b.stringLens))
	}

	startType := b.typeIndex(funcType{params: 0, results: 0})
	startFnIdx := userFuncIdx(len(prog.Functions))
	b.funcTypeIdx = append(b.funcTypeIdx, startType)
	b.codeBodies = append(b.codeBodies, buildStart())

	var out []byte
	out = append(out, magic...)
	out = append(out, version...)

	out = append(out, b.emitTypeSection()...)
	out = append(out, b.emitImportSection(fdWriteType, procExitType)...)
	out = append(out, b.emitFunctionSection()...)
	out = append(out, b.emitMemorySection()...)
	out = append(out, b.emitGlobalSection()...)
	out = append(out, b.emitExportSection(startFnIdx)...)
	out = append(out, b.emitStartSection(startFnIdx)...)
	out = append(out, b.emitCodeSection()...)

	if len(prog.StringData) > 0 {
		out = append(out, b.emitDataSection()...)
	}

	return out, nil
}

// validateCalls is the emitter's one assertion pass over IR well-formedness
// (spec.md §4.7 "Failure handling": "the emitter does not produce
// diagnostics; any structurally invalid IR ... is a programmer error caught
// by assertions"). It checks invariant 3 (every Call index is valid) before
// any bytecode referencing it is trusted.
func validateCalls(prog *ir.Program) error {
	n := len(prog.Functions)

	for i := range prog.Functions {
		for _, instr := range prog.Functions[i].Instrs {
			if err := checkCallTargets(instr, n); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkCallTargets(instr ir.Instruction, n int) error {
	switch in := instr.(type) {
	case ir.Call:
		if in.FuncIndex < 0 || in.FuncIndex >= n {
			return fmt.Errorf("internal error: call to out-of-range function index %d", in.FuncIndex)
		}
	case ir.CallStr:
		if in.FuncIndex < 0 || in.FuncIndex >= n {
			return fmt.Errorf("internal error: call to out-of-range function index %d", in.FuncIndex)
		}
	case ir.If:
		for _, i2 := range in.Then {
			if err := checkCallTargets(i2, n); err != nil {
				return err
			}
		}

		for _, i2 := range in.Else {
			if err := checkCallTargets(i2, n); err != nil {
				return err
			}
		}
	}

	return nil
}

// layoutStrings concatenates every interned string in declaration order
// into the data segment placed at offset 0, recording each entry's absolute
// memory offset and byte length (spec.md §4.7 "String data ... is placed at
// offset 0 via an active data segment").
func (b *builder) layoutStrings(data []string) {
	var off int32

	for _, s := range data {
		b.stringOffsets = append(b.stringOffsets, off)
		b.stringLens = append(b.stringLens, int32(len(s)))
		b.rawStrings = append(b.rawStrings, s)
		off += int32(len(s))
	}
}

func (b *builder) emitTypeSection() []byte {
	var contents []byte

	for _, t := range b.types {
		contents = append(contents, funcTypeForm)
		contents = append(contents, encodeLEB128U(uint64(t.params))...)

		for i := 0; i < t.params; i++ {
			contents = append(contents, valI32)
		}

		contents = append(contents, encodeLEB128U(uint64(t.results))...)

		for i := 0; i < t.results; i++ {
			contents = append(contents, valI32)
		}
	}

	return encodeSection(secType, encodeVector(len(b.types), contents))
}

func (b *builder) emitImportSection(fdWriteType, procExitType int) []byte {
	var contents []byte

	contents = append(contents, encodeName("wasi_snapshot_preview1")...)
	contents = append(contents, encodeName("fd_write")...)
	contents = append(contents, kindFunc)
	contents = append(contents, encodeLEB128U(uint64(fdWriteType))...)

	contents = append(contents, encodeName("wasi_snapshot_preview1")...)
	contents = append(contents, encodeName("proc_exit")...)
	contents = append(contents, kindFunc)
	contents = append(contents, encodeLEB128U(uint64(procExitType))...)

	return encodeSection(secImport, encodeVector(2, contents))
}

func (b *builder) emitFunctionSection() []byte {
	var contents []byte

	for _, tidx := range b.funcTypeIdx {
		contents = append(contents, encodeLEB128U(uint64(tidx))...)
	}

	return encodeSection(secFunction, encodeVector(len(b.funcTypeIdx), contents))
}

// emitMemorySection declares the module's single unshared, non-64-bit
// memory with minimum=1 page and no maximum (spec.md §6).
func (b *builder) emitMemorySection() []byte {
	var contents []byte

	contents = append(contents, 0x00) // limits flag: min only, no max
	contents = append(contents, encodeLEB128U(1)...)

	return encodeSection(secMemory, encodeVector(1, contents))
}

// emitGlobalSection declares the one mutable i32 bump-allocator pointer,
// initialised to bumpStart (spec.md §3 "one mutable i32 global").
func (b *builder) emitGlobalSection() []byte {
	var contents []byte

	contents = append(contents, valI32, 0x01) // i32, mutable
	contents = append(contents, opI32Const)
	contents = append(contents, encodeLEB128S(bumpStart)...)
	contents = append(contents, opEnd)

	return encodeSection(secGlobal, encodeVector(1, contents))
}

// emitExportSection exports memory and _start, as spec.md §6 requires.
func (b *builder) emitExportSection(startFnIdx uint32) []byte {
	var contents []byte

	contents = append(contents, encodeName("memory")...)
	contents = append(contents, kindMemory)
	contents = append(contents, encodeLEB128U(0)...)

	contents = append(contents, encodeName("_start")...)
	contents = append(contents, kindFunc)
	contents = append(contents, encodeLEB128U(uint64(startFnIdx))...)

	return encodeSection(secExport, encodeVector(2, contents))
}

// emitStartSection names _start as the module's start function (spec.md
// §6 "The Start section names _start").
func (b *builder) emitStartSection(startFnIdx uint32) []byte {
	return encodeSection(secStart, encodeLEB128U(uint64(startFnIdx)))
}

func (b *builder) emitCodeSection() []byte {
	var contents []byte

	for _, body := range b.codeBodies {
		contents = append(contents, encodeLEB128U(uint64(len(body)))...)
		contents = append(contents, body...)
	}

	return encodeSection(secCode, encodeVector(len(b.codeBodies), contents))
}

// emitDataSection writes the single active segment of concatenated string
// bytes at base offset 0 (spec.md §6 "active, memory index 0, base offset
// 0, containing concatenated string bytes").
func (b *builder) emitDataSection() []byte {
	var data []byte

	for _, s := range b.rawStrings {
		data = append(data, []byte(s)...)
	}

	var contents []byte

	contents = append(contents, 0x00) // active segment, memory 0
	contents = append(contents, opI32Const)
	contents = append(contents, encodeLEB128S(0)...)
	contents = append(contents, opEnd)
	contents = append(contents, encodeLEB128U(uint64(len(data)))...)
	contents = append(contents, data...)

	return encodeSection(secData, encodeVector(1, contents))
}
