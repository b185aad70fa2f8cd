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
)

func TestEncodeLEB128U_00(t *testing.T) {
	checkLEB128U(t, 0, []byte{0x00})
}

func TestEncodeLEB128U_01(t *testing.T) {
	checkLEB128U(t, 127, []byte{0x7F})
}

func TestEncodeLEB128U_02(t *testing.T) {
	checkLEB128U(t, 128, []byte{0x80, 0x01})
}

func TestEncodeLEB128U_03(t *testing.T) {
	checkLEB128U(t, 300, []byte{0xAC, 0x02})
}

func checkLEB128U(t *testing.T, v uint64, expected []byte) {
	got := encodeLEB128U(v)
	if !slices.Equal(got, expected) {
		t.Errorf("encodeLEB128U(%d) = %v, expected %v", v, got, expected)
	}
}

func TestEncodeLEB128S_00(t *testing.T) {
	checkLEB128S(t, 0, []byte{0x00})
}

func TestEncodeLEB128S_01(t *testing.T) {
	checkLEB128S(t, -1, []byte{0x7F})
}

func TestEncodeLEB128S_02(t *testing.T) {
	checkLEB128S(t, 64, []byte{0xC0, 0x00})
}

func TestEncodeLEB128S_03(t *testing.T) {
	checkLEB128S(t, -64, []byte{0x40})
}

func TestEncodeLEB128S_04(t *testing.T) {
	checkLEB128S(t, 42, []byte{0x2A})
}

func checkLEB128S(t *testing.T, v int64, expected []byte) {
	got := encodeLEB128S(v)
	if !slices.Equal(got, expected) {
		t.Errorf("encodeLEB128S(%d) = %v, expected %v", v, got, expected)
	}
}

func TestEncodeVector(t *testing.T) {
	got := encodeVector(3, []byte{1, 2, 3})
	expected := []byte{3, 1, 2, 3}

	if !slices.Equal(got, expected) {
		t.Errorf("encodeVector = %v, expected %v", got, expected)
	}
}

func TestEncodeSection(t *testing.T) {
	got := encodeSection(5, []byte{9, 9})
	expected := []byte{5, 2, 9, 9}

	if !slices.Equal(got, expected) {
		t.Errorf("encodeSection = %v, expected %v", got, expected)
	}
}

func TestEncodeName(t *testing.T) {
	got := encodeName("ab")
	expected := []byte{2, 'a', 'b'}

	if !slices.Equal(got, expected) {
		t.Errorf("encodeName = %v, expected %v", got, expected)
	}
}

func TestMemarg(t *testing.T) {
	got := memarg(2, 16)
	expected := []byte{2, 16}

	if !slices.Equal(got, expected) {
		t.Errorf("memarg = %v, expected %v", got, expected)
	}
}
