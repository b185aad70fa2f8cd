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

// Runtime memory map (spec.md §4.7), all offsets relative to runtimeBase.
const (
	// runtimeBase is fixed sufficiently beyond zero that the bump-allocator
	// region and the fd_write scratch cells never overlap the string-data
	// segment placed at offset 0.
	runtimeBase = 8192

	itoaOff     = runtimeBase + 0  // 12 bytes: itoa scratch buffer
	iovecOff    = runtimeBase + 12 // 16 bytes: fd_write iovec array (2x8)
	newlineOff  = runtimeBase + 28 // 4 bytes: newline byte
	nwrittenOff = runtimeBase + 32 // 4 bytes: fd_write nwritten output slot
	bumpStart   = runtimeBase + 36 // bump-allocator region start

	stdoutFd = 1
)

// fdWriteImportIdx and procExitImportIdx are the fixed Wasm function indices
// of the two WASI imports (spec.md §4.7 "Function-index assignment").
const (
	fdWriteImportIdx   = 0
	procExitImportIdx  = 1
	printIntHelperIdx  = 2
	printStrHelperIdx  = 3
	userFuncBaseOffset = 4
)

// userFuncIdx maps an IR function index to its absolute Wasm function index
// (spec.md §4.7: "the emitter verifies every IR Call(i) by mapping it to
// Wasm index i + 4").
func userFuncIdx(irIdx int) uint32 {
	return uint32(userFuncBaseOffset + irIdx)
}

// emitFdWriteCall appends a single-iovec fd_write call that writes the
// iovec entry currently staged at iovecOff and drops the returned errno.
func emitFdWriteCall(out *[]byte) {
	emit(out, opI32Const, encodeLEB128S(stdoutFd))
	emit(out, opI32Const, encodeLEB128S(iovecOff))
	emit(out, opI32Const, encodeLEB128S(1))
	emit(out, opI32Const, encodeLEB128S(nwrittenOff))
	emit(out, opCall, encodeLEB128U(fdWriteImportIdx))
	*out = append(*out, opDrop)
}

// emitStageIovec appends instructions that write (ptr,len) into iovec[0].
func emitStageIovec(out *[]byte, ptr, length int32) {
	emit(out, opI32Const, encodeLEB128S(iovecOff))
	emit(out, opI32Const, encodeLEB128S(int64(ptr)))
	*out = append(*out, opI32Store)
	*out = append(*out, memarg(2, 0)...)

	emit(out, opI32Const, encodeLEB128S(iovecOff+4))
	emit(out, opI32Const, encodeLEB128S(int64(length)))
	*out = append(*out, opI32Store)
	*out = append(*out, memarg(2, 0)...)
}

// emitStageIovecFromLocals is emitStageIovec, but ptr/len are read from
// locals rather than baked in as constants.
func emitStageIovecFromLocals(out *[]byte, ptrLocal, lenLocal uint32) {
	emit(out, opI32Const, encodeLEB128S(iovecOff))
	emit(out, opLocalGet, encodeLEB128U(uint64(ptrLocal)))
	*out = append(*out, opI32Store)
	*out = append(*out, memarg(2, 0)...)

	emit(out, opI32Const, encodeLEB128S(iovecOff+4))
	emit(out, opLocalGet, encodeLEB128U(uint64(lenLocal)))
	*out = append(*out, opI32Store)
	*out = append(*out, memarg(2, 0)...)
}

func emit(out *[]byte, op byte, imm []byte) {
	*out = append(*out, op)
	*out = append(*out, imm...)
}

// buildPrintInt assembles print_int's body (spec.md §4.7 "print_int
// algorithm"): one i32 parameter (local 0), two extra i32 locals (tens =
// local 1, ones = local 2). Handles one- and two-digit non-negative values,
// the explicit MVP restriction documented in spec.md §9.
func buildPrintInt() []byte {
	var body []byte

	// Locals declaration vector: one group of 2 extra i32 locals (tens,
	// ones), beyond the single i32 parameter. Every Wasm function body
	// begins with this vector, even when (as in printStr/start) it's empty.
	body = append(body, encodeLEB128U(1)...)
	body = append(body, encodeLEB128U(2)...)
	body = append(body, valI32)

	// tens = n / 10
	emit(&body, opLocalGet, encodeLEB128U(0))
	emit(&body, opI32Const, encodeLEB128S(10))
	body = append(body, opI32DivS)
	emit(&body, opLocalSet, encodeLEB128U(1))

	// ones = n % 10
	emit(&body, opLocalGet, encodeLEB128U(0))
	emit(&body, opI32Const, encodeLEB128S(10))
	body = append(body, opI32RemS)
	emit(&body, opLocalSet, encodeLEB128U(2))

	// if tens == 0
	emit(&body, opLocalGet, encodeLEB128U(1))
	body = append(body, opI32Eqz)
	body = append(body, opIf, blockTypeEmpty)

	// then: write one digit at itoaOff+1
	emit(&body, opI32Const, encodeLEB128S(itoaOff+1))
	emit(&body, opLocalGet, encodeLEB128U(2))
	emit(&body, opI32Const, encodeLEB128S(0x30))
	body = append(body, opI32Add)
	body = append(body, opI32Store8)
	body = append(body, memarg(0, 0)...)

	emitStageIovec(&body, itoaOff+1, 1)

	body = append(body, opElse)

	// else: write two digits at itoaOff, itoaOff+1
	emit(&body, opI32Const, encodeLEB128S(itoaOff))
	emit(&body, opLocalGet, encodeLEB128U(1))
	emit(&body, opI32Const, encodeLEB128S(0x30))
	body = append(body, opI32Add)
	body = append(body, opI32Store8)
	body = append(body, memarg(0, 0)...)

	emit(&body, opI32Const, encodeLEB128S(itoaOff+1))
	emit(&body, opLocalGet, encodeLEB128U(2))
	emit(&body, opI32Const, encodeLEB128S(0x30))
	body = append(body, opI32Add)
	body = append(body, opI32Store8)
	body = append(body, memarg(0, 0)...)

	emitStageIovec(&body, itoaOff, 2)

	body = append(body, opEnd) // end if

	emitFdWriteCall(&body)

	emitStageIovec(&body, newlineOff, 1)
	emitFdWriteCall(&body)

	body = append(body, opEnd) // end function

	return body
}

// buildPrintStr assembles print_str's body (spec.md §4.7 "print_str
// algorithm"): two i32 parameters, ptr (local 0) and len (local 1).
func buildPrintStr() []byte {
	var body []byte

	body = append(body, encodeLEB128U(0)...) // no extra locals

	emitStageIovecFromLocals(&body, 0, 1)
	emitFdWriteCall(&body)

	emitStageIovec(&body, newlineOff, 1)
	emitFdWriteCall(&body)

	body = append(body, opEnd)

	return body
}

// buildStart assembles _start's body (spec.md §4.7): write the newline
// byte once, call user main (always IR function index 0), then proc_exit.
func buildStart() []byte {
	var body []byte

	body = append(body, encodeLEB128U(0)...) // no extra locals

	emit(&body, opI32Const, encodeLEB128S(newlineOff))
	emit(&body, opI32Const, encodeLEB128S(0x0A))
	body = append(body, opI32Store8)
	body = append(body, memarg(0, 0)...)

	emit(&body, opCall, encodeLEB128U(uint64(userFuncIdx(0))))

	emit(&body, opI32Const, encodeLEB128S(0))
	emit(&body, opCall, encodeLEB128U(procExitImportIdx))

	body = append(body, opEnd)

	return body
}
