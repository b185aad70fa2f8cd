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

// binaryOp reports the BinaryOp and left-associative binding power of an
// infix operator token, per the precedence table in spec.md §4.2.
func binaryOp(kind lex.Kind) (ast.BinaryOp, int, bool) {
	switch kind {
	case lex.PIPEPIPE:
		return ast.Or, 1, true
	case lex.AMPAMP:
		return ast.And, 2, true
	case lex.EQEQ:
		return ast.Eq, 3, true
	case lex.NEQ:
		return ast.Neq, 3, true
	case lex.LT:
		return ast.Lt, 4, true
	case lex.LE:
		return ast.Le, 4, true
	case lex.GT:
		return ast.Gt, 4, true
	case lex.GE:
		return ast.Ge, 4, true
	case lex.PLUS:
		return ast.Add, 5, true
	case lex.MINUS:
		return ast.Sub, 5, true
	case lex.STAR:
		return ast.Mul, 6, true
	case lex.SLASH:
		return ast.Div, 6, true
	case lex.PERCENT:
		return ast.Mod, 6, true
	default:
		return 0, 0, false
	}
}

// parseExpr parses an expression using precedence climbing: it only
// continues consuming an infix operator whose binding power is at least
// minBp, giving left-associative parsing of each precedence level in
// spec.md §4.2's table.
func (p *Parser) parseExpr(minBp int) (ast.Expr, bool) {
	start := p.index

	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}

	for {
		op, bp, ok := binaryOp(p.peek().Kind)
		if !ok || bp < minBp {
			break
		}

		p.advance()

		right, ok := p.parseExpr(bp + 1)
		if !ok {
			return nil, false
		}

		left = &ast.BinaryExpr{
			Loc:   ast.Loc{Span: p.spanFrom(start)},
			Op:    op,
			Left:  left,
			Right: right,
		}
	}

	return left, true
}

// parseUnary handles the prefix operators of level 7 of spec.md §4.2's
// table: "-", "!", "&"/"&mut", and "*".
func (p *Parser) parseUnary() (ast.Expr, bool) {
	start := p.index

	switch p.peek().Kind {
	case lex.MINUS:
		p.advance()

		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}

		return &ast.UnaryExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Op: ast.Neg, X: x}, true
	case lex.BANG:
		p.advance()

		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}

		return &ast.UnaryExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Op: ast.Not, X: x}, true
	case lex.STAR:
		p.advance()

		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}

		return &ast.DerefExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, X: x}, true
	case lex.AMP:
		p.advance()
		mutable := p.match(lex.MUT)

		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		return &ast.RefExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Name: name, Mutable: mutable}, true
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles level 8 of spec.md §4.2's table: field access and
// method calls chaining left-associatively through ".".
func (p *Parser) parsePostfix() (ast.Expr, bool) {
	start := p.index

	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}

	for p.match(lex.DOT) {
		field, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		if p.check(lex.LPAREN) {
			args, ok := p.parseArgs()
			if !ok {
				return nil, false
			}

			expr = &ast.Call{
				Loc:      ast.Loc{Span: p.spanFrom(start)},
				Receiver: expr,
				Path:     []string{field},
				Args:     args,
			}

			continue
		}

		expr = &ast.FieldAccess{Loc: ast.Loc{Span: p.spanFrom(start)}, Target: expr, Field: field}
	}

	return expr, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	start := p.index

	switch p.peek().Kind {
	case lex.INT:
		tok := p.advance()
		return &ast.IntLit{Loc: ast.Loc{Span: tok.Span}, Value: tok.Int}, true
	case lex.STRING:
		tok := p.advance()
		return &ast.StringLit{Loc: ast.Loc{Span: tok.Span}, Value: tok.Str}, true
	case lex.BOOL:
		tok := p.advance()
		return &ast.BoolLit{Loc: ast.Loc{Span: tok.Span}, Value: tok.Bool}, true
	case lex.LPAREN:
		p.advance()

		if p.match(lex.RPAREN) {
			return &ast.UnitLit{Loc: ast.Loc{Span: p.spanFrom(start)}}, true
		}

		inner, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}

		if _, ok := p.expect(lex.RPAREN, "\")\""); !ok {
			return nil, false
		}

		return inner, true
	case lex.IF:
		return p.parseIfExpr()
	case lex.MATCH:
		return p.parseMatchExpr()
	case lex.LBRACE:
		block, ok := p.parseBlock()
		if !ok {
			return nil, false
		}

		return &ast.BlockExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Body: block}, true
	case lex.IDENT:
		return p.parseIdentExpr()
	default:
		p.error(p.peek().Span, "unexpected token")
		return nil, false
	}
}

func (p *Parser) parseIdentExpr() (ast.Expr, bool) {
	start := p.index
	name := p.advance().Str
	path := []string{name}

	for p.match(lex.COLONCOLON) {
		seg, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		path = append(path, seg)
	}

	switch {
	case p.check(lex.LPAREN):
		args, ok := p.parseArgs()
		if !ok {
			return nil, false
		}

		return &ast.Call{Loc: ast.Loc{Span: p.spanFrom(start)}, Path: path, Args: args}, true
	case p.check(lex.LBRACE) && !p.noStructLit:
		return p.parseStructLit(start, path)
	case len(path) > 1:
		return &ast.PathExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Path: path}, true
	default:
		return &ast.Ident{Loc: ast.Loc{Span: p.spanFrom(start)}, Name: path[0]}, true
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, bool) {
	if _, ok := p.expect(lex.LPAREN, "\"(\""); !ok {
		return nil, false
	}

	var args []ast.Expr

	for !p.check(lex.RPAREN) {
		arg, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}

		args = append(args, arg)

		if !p.match(lex.COMMA) {
			break
		}
	}

	if _, ok := p.expect(lex.RPAREN, "\")\""); !ok {
		return nil, false
	}

	return args, true
}

func (p *Parser) parseStructLit(start int, path []string) (ast.Expr, bool) {
	if _, ok := p.expect(lex.LBRACE, "\"{\""); !ok {
		return nil, false
	}

	var fields []ast.FieldInit

	for !p.check(lex.RBRACE) {
		name, ok := p.expectIdent()
		if !ok {
			return nil, false
		}

		if _, ok := p.expect(lex.COLON, "\":\""); !ok {
			return nil, false
		}

		value, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}

		fields = append(fields, ast.FieldInit{Name: name, Value: value})

		if !p.match(lex.COMMA) {
			break
		}
	}

	if _, ok := p.expect(lex.RBRACE, "\"}\""); !ok {
		return nil, false
	}

	return &ast.StructLit{Loc: ast.Loc{Span: p.spanFrom(start)}, Path: path, Fields: fields}, true
}

func (p *Parser) parseIfExpr() (ast.Expr, bool) {
	start := p.index

	if _, ok := p.expect(lex.IF, "\"if\""); !ok {
		return nil, false
	}

	p.noStructLit = true
	cond, ok := p.parseExpr(0)
	p.noStructLit = false

	if !ok {
		return nil, false
	}

	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}

	var els *ast.Block

	if p.match(lex.ELSE) {
		if p.check(lex.IF) {
			nested, ok := p.parseIfExpr()
			if !ok {
				return nil, false
			}

			els = &ast.Block{Loc: ast.Loc{Span: nested.NodeSpan()}, Tail: nested}
		} else if els, ok = p.parseBlock(); !ok {
			return nil, false
		}
	}

	return &ast.IfExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Cond: cond, Then: then, Else: els}, true
}

func (p *Parser) parseMatchExpr() (ast.Expr, bool) {
	start := p.index

	if _, ok := p.expect(lex.MATCH, "\"match\""); !ok {
		return nil, false
	}

	p.noStructLit = true
	scrutinee, ok := p.parseExpr(0)
	p.noStructLit = false

	if !ok {
		return nil, false
	}

	if _, ok := p.expect(lex.LBRACE, "\"{\""); !ok {
		return nil, false
	}

	var arms []ast.MatchArm

	for !p.check(lex.RBRACE) {
		pattern, ok := p.parsePattern()
		if !ok {
			return nil, false
		}

		if _, ok := p.expect(lex.FATARROW, "\"=>\""); !ok {
			return nil, false
		}

		body, ok := p.parseExpr(0)
		if !ok {
			return nil, false
		}

		arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})

		if !p.match(lex.COMMA) {
			break
		}
	}

	if _, ok := p.expect(lex.RBRACE, "\"}\""); !ok {
		return nil, false
	}

	return &ast.MatchExpr{Loc: ast.Loc{Span: p.spanFrom(start)}, Scrutinee: scrutinee, Arms: arms}, true
}

func (p *Parser) parsePattern() (ast.Pattern, bool) {
	tok := p.peek()

	switch tok.Kind {
	case lex.INT:
		p.advance()
		return ast.Pattern{Loc: ast.Loc{Span: tok.Span}, Kind: ast.PatInt, Int: tok.Int}, true
	case lex.BOOL:
		p.advance()
		return ast.Pattern{Loc: ast.Loc{Span: tok.Span}, Kind: ast.PatBool, Bool: tok.Bool}, true
	case lex.STRING:
		p.advance()
		return ast.Pattern{Loc: ast.Loc{Span: tok.Span}, Kind: ast.PatString, Str: tok.Str}, true
	case lex.UNDERSCORE:
		p.advance()
		return ast.Pattern{Loc: ast.Loc{Span: tok.Span}, Kind: ast.PatWildcard}, true
	default:
		p.error(tok.Span, "expected a pattern")
		return ast.Pattern{}, false
	}
}
