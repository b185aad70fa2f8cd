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

// BoxAlloc, BoxGet, and BoxSet supplement spec.md §3's instruction list to
// give "&x"/"&mut x"/"*x" (spec.md §4.5) addressable storage: a plain Wasm
// local has no address, so any local ever captured by "&" is instead given
// a single 4-byte bump-allocated memory cell. BoxAlloc
// allocates that cell the same way StructAlloc does, just with a fixed
// 4-byte size instead of a layout's total size.
type BoxAlloc struct {
	Dest int
}

func (BoxAlloc) instructionNode() {}

// BoxGet reads the i32 stored at the address in Ptr into Dest.
type BoxGet struct {
	Ptr  int
	Dest int
}

func (BoxGet) instructionNode() {}

// BoxSet writes Val into the i32 cell addressed by Ptr.
type BoxSet struct {
	Ptr int
	Val int
}

func (BoxSet) instructionNode() {}
