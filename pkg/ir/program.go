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

import "github.com/segmentio/encoding/json"

// Function is one lowered function: its parameter/local tables (all i32,
// spec.md §3) plus a flat instruction list.
type Function struct {
	Name        string
	NumParams   int
	NumLocals   int
	Instrs      []Instruction
	ReturnsStr  bool
	ReturnsUnit bool
}

// StructLayout mirrors pkg/layout.StructLayout in a form the IR (and hence
// the Wasm emitter) can reference positionally by index.
type StructLayout struct {
	Module string
	Name   string
	Size   uint32
}

// Program is the IR Program described by spec.md §3: an ordered function
// list (index 0 is always "main"), ordered struct layouts, and an ordered
// string-data list.
type Program struct {
	Functions   []Function
	Layouts     []StructLayout
	StringData  []string
}

// DumpJSON serializes the program for the optional "--dump-ir" developer
// aid (SPEC_FULL.md §2), grounded on the teacher's pkg/trace/json use of
// segmentio/encoding/json for fast trace serialization.
func (p *Program) DumpJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
