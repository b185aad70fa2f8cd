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
package parser

import (
	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/lex"
)

func (p *Parser) parseBlock() (*ast.Block, bool) {
	start := p.index

	if _, ok := p.expect(lex.LBRACE, "\"{\""); !ok {
		return nil, false
	}

	var (
		stmts []ast.Stmt
		tail  ast.Expr
	)

	for !p.check(lex.RBRACE) && !p.check(lex.EOF) {
		stmt, trailing, ok := p.parseStmt()
		if !ok {
			p.synchronizeStmt()
			continue
		}

		if trailing != nil {
			tail = trailing
			break
		}

		stmts = append(stmts, stmt)
	}

	if _, ok := p.expect(lex.RBRACE, "\"}\""); !ok {
		return nil, false
	}

	return &ast.Block{Loc: ast.Loc{Span: p.spanFrom(start)}, Stmts: stmts, Tail: tail}, true
}

// parseStmt parses one block element. It returns either a Stmt, or (when the
// element is a trailing expression with no terminating ";") a non-nil tail
// Expr with a nil Stmt.
func (p *Parser) parseStmt() (ast.Stmt, ast.Expr, bool) {
	switch p.peek().Kind {
	case lex.LET:
		stmt, ok := p.parseLetStmt()
		return stmt, nil, ok
	case lex.RETURN:
		stmt, ok := p.parseReturnStmt()
		return stmt, nil, ok
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseLetStmt() (*ast.LetStmt, bool) {
	start := p.index

	if _, ok := p.expect(lex.LET, "\"let\""); !ok {
		return nil, false
	}

	mutable := p.match(lex.MUT)

	name, ok := p.expectIdent()
	if !ok {
		return nil, false
	}

	var annotation *ast.Type

	if p.match(lex.COLON) {
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}

		annotation = &ty
	}

	if _, ok := p.expect(lex.EQ, "\"=\""); !ok {
		return nil, false
	}

	init, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}

	if !p.match(lex.SEMI) {
		p.error(init.NodeSpan(), "missing semicolon")
		return nil, false
	}

	return &ast.LetStmt{
		Loc:        ast.Loc{Span: p.spanFrom(start)},
		Name:       name,
		Mutable:    mutable,
		Annotation: annotation,
		Init:       init,
	}, true
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, bool) {
	start := p.index

	if _, ok := p.expect(lex.RETURN, "\"return\""); !ok {
		return nil, false
	}

	if p.match(lex.SEMI) {
		return &ast.ReturnStmt{Loc: ast.Loc{Span: p.spanFrom(start)}}, true
	}

	value, ok := p.parseExpr(0)
	if !ok {
		return nil, false
	}

	if !p.match(lex.SEMI) {
		p.error(value.NodeSpan(), "missing semicolon")
		return nil, false
	}

	return &ast.ReturnStmt{Loc: ast.Loc{Span: p.spanFrom(start)}, Value: value}, true
}

// parseExprOrAssignStmt handles the three remaining statement-position
// forms: a plain assignment "x = e;", an assignment-through-deref
// "*x = e;", and a bare expression statement/trailing tail expression.
func (p *Parser) parseExprOrAssignStmt() (ast.Stmt, ast.Expr, bool) {
	start := p.index

	expr, ok := p.parseExpr(0)
	if !ok {
		return nil, nil, false
	}

	if p.check(lex.EQ) {
		switch target := expr.(type) {
		case *ast.Ident:
			p.advance()

			value, ok := p.parseExpr(0)
			if !ok {
				return nil, nil, false
			}

			if !p.match(lex.SEMI) {
				p.error(value.NodeSpan(), "missing semicolon")
				return nil, nil, false
			}

			stmt := &ast.AssignStmt{
				Loc:    ast.Loc{Span: p.spanFrom(start)},
				Target: ast.LValue{Loc: ast.Loc{Span: target.Span}, Name: target.Name},
				Value:  value,
			}

			return stmt, nil, true
		case *ast.DerefExpr:
			if name, ok := target.X.(*ast.Ident); ok {
				p.advance()

				value, valOk := p.parseExpr(0)
				if !valOk {
					return nil, nil, false
				}

				if !p.match(lex.SEMI) {
					p.error(value.NodeSpan(), "missing semicolon")
					return nil, nil, false
				}

				stmt := &ast.AssignDerefStmt{
					Loc:   ast.Loc{Span: p.spanFrom(start)},
					Name:  name.Name,
					Value: value,
				}

				return stmt, nil, true
			}
		}
	}

	if p.match(lex.SEMI) {
		stmt := &ast.ExprStmt{Loc: ast.Loc{Span: p.spanFrom(start)}, Expr: expr}
		return stmt, nil, true
	}

	if p.check(lex.RBRACE) {
		return nil, expr, true
	}

	p.error(expr.NodeSpan(), "missing semicolon")

	stmt := &ast.ExprStmt{Loc: ast.Loc{Span: p.spanFrom(start)}, Expr: expr}

	return stmt, nil, true
}
