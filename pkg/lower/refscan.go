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
package lower

import "github.com/kestrel-lang/kestrelc/pkg/ast"

// referencedNames walks a function body collecting the name of every local
// whose address is taken by "&x"/"&mut x" somewhere within it. Those names
// are the only locals that need the boxed (memory-backed) representation
// described in scope.go's slot type; every other local stays a plain Wasm
// local.
func referencedNames(body *ast.Block) map[string]bool {
	set := map[string]bool{}
	scanBlockRefs(body, set)

	return set
}

func scanBlockRefs(b *ast.Block, set map[string]bool) {
	if b == nil {
		return
	}

	for _, stmt := range b.Stmts {
		scanStmtRefs(stmt, set)
	}

	if b.Tail != nil {
		scanExprRefs(b.Tail, set)
	}
}

func scanStmtRefs(s ast.Stmt, set map[string]bool) {
	switch st := s.(type) {
	case *ast.LetStmt:
		scanExprRefs(st.Init, set)
	case *ast.AssignStmt:
		scanExprRefs(st.Value, set)
	case *ast.AssignDerefStmt:
		scanExprRefs(st.Value, set)
	case *ast.ExprStmt:
		scanExprRefs(st.Expr, set)
	case *ast.ReturnStmt:
		if st.Value != nil {
			scanExprRefs(st.Value, set)
		}
	}
}

func scanExprRefs(e ast.Expr, set map[string]bool) {
	switch ex := e.(type) {
	case *ast.RefExpr:
		set[ex.Name] = true
	case *ast.BinaryExpr:
		scanExprRefs(ex.Left, set)
		scanExprRefs(ex.Right, set)
	case *ast.UnaryExpr:
		scanExprRefs(ex.X, set)
	case *ast.DerefExpr:
		scanExprRefs(ex.X, set)
	case *ast.Call:
		if ex.Receiver != nil {
			scanExprRefs(ex.Receiver, set)
		}

		for _, a := range ex.Args {
			scanExprRefs(a, set)
		}
	case *ast.FieldAccess:
		scanExprRefs(ex.Target, set)
	case *ast.StructLit:
		for _, f := range ex.Fields {
			scanExprRefs(f.Value, set)
		}
	case *ast.IfExpr:
		scanExprRefs(ex.Cond, set)
		scanBlockRefs(ex.Then, set)
		scanBlockRefs(ex.Else, set)
	case *ast.MatchExpr:
		scanExprRefs(ex.Scrutinee, set)

		for _, arm := range ex.Arms {
			scanExprRefs(arm.Body, set)
		}
	case *ast.BlockExpr:
		scanBlockRefs(ex.Body, set)
	}
}
