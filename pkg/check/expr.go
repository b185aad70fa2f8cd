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
package check

import (
	"strings"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/layout"
)

// synth synthesises an expression's type bottom-up (spec.md §4.5
// "expression types are synthesised bottom-up").
func (c *Checker) synth(expr ast.Expr, sc *scope) ast.Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return ast.Int
	case *ast.StringLit:
		return ast.String
	case *ast.BoolLit:
		return ast.Bool
	case *ast.UnitLit:
		return ast.Unit
	case *ast.Ident:
		if b, ok := sc.lookup(e.Name); ok {
			return b.typ
		}

		c.error(e.NodeSpan(), "undeclared variable %q", e.Name)

		return ast.Unit
	case *ast.PathExpr:
		c.error(e.NodeSpan(), "unsupported qualified reference %q", strings.Join(e.Path, "::"))
		return ast.Unit
	case *ast.StructLit:
		return c.synthStructLit(e, sc)
	case *ast.Call:
		return c.synthCall(e, sc)
	case *ast.FieldAccess:
		return c.synthFieldAccess(e, sc)
	case *ast.BinaryExpr:
		return c.synthBinary(e, sc)
	case *ast.UnaryExpr:
		return c.synthUnary(e, sc)
	case *ast.RefExpr:
		b, ok := sc.lookup(e.Name)
		if !ok {
			c.error(e.NodeSpan(), "undeclared variable %q", e.Name)
			return ast.Unit
		}

		if e.Mutable && !b.mutable {
			c.error(e.NodeSpan(), "cannot take \"&mut\" of immutable variable %q", e.Name)
		}

		return ast.Ref(b.typ, e.Mutable)
	case *ast.DerefExpr:
		ty := c.synth(e.X, sc)
		if ty.Kind != ast.TRef {
			c.error(e.NodeSpan(), "cannot dereference non-reference type %s", ty)
			return ast.Unit
		}

		return *ty.Inner
	case *ast.IfExpr:
		return c.synthIf(e, sc)
	case *ast.MatchExpr:
		return c.synthMatch(e, sc)
	case *ast.BlockExpr:
		return c.checkBlock(e.Body, sc)
	default:
		c.error(expr.NodeSpan(), "internal error: unhandled expression kind")
		return ast.Unit
	}
}

func (c *Checker) synthBinary(e *ast.BinaryExpr, sc *scope) ast.Type {
	left := c.synth(e.Left, sc)
	right := c.synth(e.Right, sc)

	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		if left.Equal(ast.String) && right.Equal(ast.String) {
			c.error(e.NodeSpan(), "string concatenation is not supported")
			return ast.Unit
		}

		if !left.Equal(ast.Int) || !right.Equal(ast.Int) {
			c.error(e.NodeSpan(), "arithmetic operator requires int operands, found %s and %s", left, right)
			return ast.Unit
		}

		return ast.Int
	case ast.Eq, ast.Neq:
		if !left.Equal(right) {
			c.error(e.NodeSpan(), "comparison requires identical operand types, found %s and %s", left, right)
		}

		return ast.Bool
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if !left.Equal(right) {
			c.error(e.NodeSpan(), "comparison requires identical operand types, found %s and %s", left, right)
		}

		return ast.Bool
	case ast.And, ast.Or:
		if !left.Equal(ast.Bool) || !right.Equal(ast.Bool) {
			c.error(e.NodeSpan(), "\"&&\"/\"||\" require bool operands, found %s and %s", left, right)
		}

		return ast.Bool
	default:
		return ast.Unit
	}
}

func (c *Checker) synthUnary(e *ast.UnaryExpr, sc *scope) ast.Type {
	ty := c.synth(e.X, sc)

	switch e.Op {
	case ast.Neg:
		if !ty.Equal(ast.Int) {
			c.error(e.NodeSpan(), "unary \"-\" requires int, found %s", ty)
			return ast.Int
		}

		return ast.Int
	case ast.Not:
		if !ty.Equal(ast.Bool) {
			c.error(e.NodeSpan(), "unary \"!\" requires bool, found %s", ty)
			return ast.Bool
		}

		return ast.Bool
	default:
		return ty
	}
}

func (c *Checker) synthIf(e *ast.IfExpr, sc *scope) ast.Type {
	cond := c.synth(e.Cond, sc)
	if !cond.Equal(ast.Bool) {
		c.error(e.Cond.NodeSpan(), "if condition must be bool, found %s", cond)
	}

	thenTy := c.checkBlock(e.Then, sc)

	if e.Else == nil {
		return ast.Unit
	}

	elseTy := c.checkBlock(e.Else, sc)
	if !thenTy.Equal(elseTy) {
		c.error(e.NodeSpan(), "if/else branches have different types: %s and %s", thenTy, elseTy)
	}

	return thenTy
}

func (c *Checker) synthMatch(e *ast.MatchExpr, sc *scope) ast.Type {
	scrutinee := c.synth(e.Scrutinee, sc)

	var (
		resultTy ast.Type
		patterns []ast.Pattern
		have     bool
	)

	for _, arm := range e.Arms {
		patterns = append(patterns, arm.Pattern)

		bodyTy := c.synth(arm.Body, sc)
		if !have {
			resultTy = bodyTy
			have = true
		} else if !bodyTy.Equal(resultTy) {
			c.error(arm.Body.NodeSpan(), "match arms must share one type: expected %s, found %s", resultTy, bodyTy)
		}
	}

	if !layout.IsExhaustive(scrutinee, patterns) {
		c.error(e.NodeSpan(), "match is not exhaustive")
	}

	if !have {
		return ast.Unit
	}

	return resultTy
}

func (c *Checker) synthStructLit(e *ast.StructLit, sc *scope) ast.Type {
	s, ok := c.lookupStructByPath(e.Path)
	if !ok {
		c.error(e.NodeSpan(), "unknown struct %q", strings.Join(e.Path, "::"))
		return ast.Unit
	}

	for _, init := range e.Fields {
		field, ok := fieldOf(s, init.Name)
		if !ok {
			c.error(init.Value.NodeSpan(), "struct %q has no field %q", s.Name, init.Name)
			continue
		}

		ty := c.synth(init.Value, sc)
		if !ty.Equal(field.Type) {
			c.error(init.Value.NodeSpan(), "field %q: expected %s, found %s", init.Name, field.Type, ty)
		}
	}

	return ast.Named(e.Path...)
}

func (c *Checker) synthCall(e *ast.Call, sc *scope) ast.Type {
	if e.Receiver != nil {
		return c.synthMethodCall(e, sc)
	}

	name := strings.Join(e.Path, "::")

	if name == "print" {
		if len(e.Args) != 1 {
			c.error(e.NodeSpan(), "print takes exactly one argument")
			return ast.Unit
		}

		argTy := c.synth(e.Args[0], sc)
		if !argTy.Equal(ast.Int) && !argTy.Equal(ast.String) {
			c.error(e.Args[0].NodeSpan(), "print requires int or string, found %s", argTy)
		}

		return ast.Unit
	}

	sig, ok := c.funcs[name]
	if !ok {
		c.error(e.NodeSpan(), "unknown function %q", name)
		return ast.Unit
	}

	if len(e.Args) != len(sig.Params) {
		c.error(e.NodeSpan(), "%q expects %d argument(s), found %d", name, len(sig.Params), len(e.Args))
	}

	for i, arg := range e.Args {
		argTy := c.synth(arg, sc)

		if i < len(sig.Params) && !argTy.Equal(sig.Params[i]) {
			c.error(arg.NodeSpan(), "argument %d: expected %s, found %s", i+1, sig.Params[i], argTy)
		}
	}

	return sig.Return
}

func (c *Checker) synthMethodCall(e *ast.Call, sc *scope) ast.Type {
	recvTy := c.synth(e.Receiver, sc)

	s, ok := c.structOf(recvTy)
	if !ok {
		c.error(e.NodeSpan(), "%s has no accessor methods", recvTy)
		return ast.Unit
	}

	methodName := e.Path[0]

	if strings.HasPrefix(methodName, "set_") {
		fieldName := strings.TrimPrefix(methodName, "set_")

		field, ok := fieldOf(s, fieldName)
		if !ok || !field.Attr.Set {
			c.error(e.NodeSpan(), "struct %q has no setter for field %q", s.Name, fieldName)
			return ast.Unit
		}

		if len(e.Args) != 1 {
			c.error(e.NodeSpan(), "setter %q takes exactly one argument", methodName)
			return ast.Unit
		}

		argTy := c.synth(e.Args[0], sc)
		if !argTy.Equal(field.Type) {
			c.error(e.Args[0].NodeSpan(), "setter %q: expected %s, found %s", methodName, field.Type, argTy)
		}

		return ast.Unit
	}

	field, ok := fieldOf(s, methodName)
	if !ok || !field.Attr.Get {
		c.error(e.NodeSpan(), "struct %q has no getter for field %q", s.Name, methodName)
		return ast.Unit
	}

	if len(e.Args) != 0 {
		c.error(e.NodeSpan(), "getter %q takes no arguments", methodName)
	}

	return field.Type
}

// synthFieldAccess handles the bare "x.field" form (spec.md §3 "field
// access"), read through the field's generated getter; a field without a
// "@pub(get)" attribute cannot be read this way.
func (c *Checker) synthFieldAccess(e *ast.FieldAccess, sc *scope) ast.Type {
	targetTy := c.synth(e.Target, sc)

	s, ok := c.structOf(targetTy)
	if !ok {
		c.error(e.NodeSpan(), "%s has no field %q", targetTy, e.Field)
		return ast.Unit
	}

	field, ok := fieldOf(s, e.Field)
	if !ok || !field.Attr.Get {
		c.error(e.NodeSpan(), "struct %q has no getter for field %q", s.Name, e.Field)
		return ast.Unit
	}

	return field.Type
}

func (c *Checker) lookupStructByPath(path []string) (*ast.Struct, bool) {
	switch len(path) {
	case 1:
		s, ok := c.moduleStructs[path[0]]
		return s, ok
	case 2:
		mod, ok := c.depStructs[path[0]]
		if !ok {
			return nil, false
		}

		s, ok := mod[path[1]]

		return s, ok
	default:
		return nil, false
	}
}
