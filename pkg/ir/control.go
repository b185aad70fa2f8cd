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

// BinOpKind enumerates the integer/boolean binary operators spec.md §4.5
// type-checks but whose execution spec.md §3's instruction list has no tag
// for. Supplemental to spec.md: without it, arithmetic,
// comparison, and short-circuit-free boolean operators the checker already
// accepts would have no lowering target at all.
type BinOpKind uint8

const (
	OpAdd BinOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

// BinOp computes Left `Op` Right into Dest, all i32 locals.
type BinOp struct {
	Op          BinOpKind
	Left, Right int
	Dest        int
}

func (BinOp) instructionNode() {}

// UnOpKind enumerates the unary operators, supplemental for the same reason
// as BinOpKind.
type UnOpKind uint8

const (
	OpNeg UnOpKind = iota
	OpNot
)

// UnOp computes `Op` X into Dest.
type UnOp struct {
	Op   UnOpKind
	X    int
	Dest int
}

func (UnOp) instructionNode() {}

// If is structured control flow, supplemental to spec.md §3 for the same
// reason as BinOp/UnOp: the surface language's "if/else" and "match"
// (desugared to a cascade of If by pkg/lower) need a branch instruction to
// lower to. Cond is an i32 local; a nonzero value selects Then.
type If struct {
	Cond       int
	Then, Else []Instruction
}

func (If) instructionNode() {}
