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

// Package check implements the Kestrel type checker (spec.md §4.5),
// grounded on pkg/corset/compiler/typing.go and pkg/corset/compiler/resolver.go
// in the teacher package: a checker struct closing over declaration tables
// built in one pass, dispatching per statement/expression kind, with scopes
// (pkg/check/scope.go) tracking a mutability flag per local exactly as
// pkg/corset/compiler/scope.go does for column bindings.
package check

import (
	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/resolve"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// FuncSig is a function's arity and type signature, used both for locally
// declared functions and for dependency functions re-indexed under their
// qualified name "mod::f" (spec.md §4.5 item 2).
type FuncSig struct {
	Params []ast.Type
	Return ast.Type
}

// Checker holds the declaration tables and diagnostics for one module's
// type-checking pass.
type Checker struct {
	fid           source.FileId
	moduleStructs map[string]*ast.Struct
	depStructs    map[string]map[string]*ast.Struct
	funcs         map[string]FuncSig
	currentReturn ast.Type
	diags         []source.Diagnostic
}

// Check type-checks one module's AST against its resolved direct
// dependencies, returning every rule violation found (spec.md §4.5: "the
// checker continues after each violation so one bad file produces all its
// errors in one run").
func Check(fid source.FileId, file *ast.File, deps []resolve.Module) []source.Diagnostic {
	c := &Checker{
		fid:           fid,
		moduleStructs: map[string]*ast.Struct{},
		depStructs:    map[string]map[string]*ast.Struct{},
		funcs:         map[string]FuncSig{},
	}

	for _, item := range file.Items {
		switch it := item.(type) {
		case *ast.Struct:
			c.moduleStructs[it.Name] = it
		case *ast.Function:
			c.funcs[it.Name] = sigOf(it)
		}
	}

	for _, dep := range deps {
		structs := map[string]*ast.Struct{}

		for _, item := range dep.File.Items {
			switch it := item.(type) {
			case *ast.Struct:
				if it.Visibility == ast.Exported {
					structs[it.Name] = it
				}
			case *ast.Function:
				if it.Visibility == ast.Exported {
					c.funcs[dep.Name+"::"+it.Name] = sigOf(it)
				}
			}
		}

		c.depStructs[dep.Name] = structs
	}

	c.checkMain(file)

	for _, item := range file.Items {
		if fn, ok := item.(*ast.Function); ok {
			c.checkFunction(fn)
		}
	}

	return c.diags
}

func sigOf(fn *ast.Function) FuncSig {
	params := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}

	return FuncSig{Params: params, Return: fn.Return}
}

// checkMain enforces "main must have signature () -> Unit" (spec.md §4.5).
func (c *Checker) checkMain(file *ast.File) {
	for _, item := range file.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Name != "main" {
			continue
		}

		if len(fn.Params) != 0 || !fn.Return.Equal(ast.Unit) {
			c.error(fn.NodeSpan(), "main must have signature \"() -> ()\"")
		}

		return
	}

	c.error(file.NodeSpan(), "missing \"main\" function")
}

func (c *Checker) checkFunction(fn *ast.Function) {
	sc := newScope()

	for _, p := range fn.Params {
		sc.declare(p.Name, p.Type, p.Mutable)
	}

	prevReturn := c.currentReturn
	c.currentReturn = fn.Return

	bodyType := c.checkBlock(fn.Body, sc)
	if fn.Body.Tail != nil && !bodyType.Equal(fn.Return) {
		c.error(fn.Body.Tail.NodeSpan(), "function %q returns %s, found %s", fn.Name, fn.Return, bodyType)
	}

	c.currentReturn = prevReturn
}

func (c *Checker) checkBlock(b *ast.Block, sc *scope) ast.Type {
	sc.push()
	defer sc.pop()

	for _, stmt := range b.Stmts {
		c.checkStmt(stmt, sc)
	}

	if b.Tail != nil {
		return c.synth(b.Tail, sc)
	}

	return ast.Unit
}

func (c *Checker) checkStmt(stmt ast.Stmt, sc *scope) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		initTy := c.synth(s.Init, sc)

		declTy := initTy
		if s.Annotation != nil {
			declTy = *s.Annotation

			if !declTy.Equal(initTy) {
				c.error(s.Init.NodeSpan(), "let %q: expected %s, found %s", s.Name, declTy, initTy)
			}
		}

		sc.declare(s.Name, declTy, s.Mutable)
	case *ast.AssignStmt:
		b, ok := sc.lookup(s.Target.Name)
		if !ok {
			c.error(s.Target.NodeSpan(), "undeclared variable %q", s.Target.Name)
			return
		}

		if !b.mutable {
			c.error(s.Target.NodeSpan(), "cannot assign to immutable variable %q", s.Target.Name)
		}

		valTy := c.synth(s.Value, sc)
		if !valTy.Equal(b.typ) {
			c.error(s.Value.NodeSpan(), "cannot assign %s to %q of type %s", valTy, s.Target.Name, b.typ)
		}
	case *ast.AssignDerefStmt:
		b, ok := sc.lookup(s.Name)
		if !ok {
			c.error(s.NodeSpan(), "undeclared variable %q", s.Name)
			return
		}

		if b.typ.Kind != ast.TRef || !b.typ.Mutable {
			c.error(s.NodeSpan(), "%q is not a \"&mut\" reference", s.Name)
			return
		}

		valTy := c.synth(s.Value, sc)
		if !valTy.Equal(*b.typ.Inner) {
			c.error(s.Value.NodeSpan(), "cannot assign %s through &mut %s", valTy, b.typ.Inner)
		}
	case *ast.ExprStmt:
		c.synth(s.Expr, sc)
	case *ast.ReturnStmt:
		if s.Value == nil {
			if !c.currentReturn.Equal(ast.Unit) {
				c.error(s.NodeSpan(), "expected a return value of type %s", c.currentReturn)
			}

			return
		}

		ty := c.synth(s.Value, sc)
		if !ty.Equal(c.currentReturn) {
			c.error(s.Value.NodeSpan(), "expected return type %s, found %s", c.currentReturn, ty)
		}
	}
}

func (c *Checker) error(span source.Span, format string, args ...any) {
	c.diags = append(c.diags, source.NewError(source.Location{File: c.fid, Span: span}, format, args...))
}

// structOf resolves the struct declaration named by a (possibly &-wrapped)
// named type, searching local declarations first, then the dependency
// named by a qualified path's first segment.
func (c *Checker) structOf(t ast.Type) (*ast.Struct, bool) {
	if t.Kind == ast.TRef {
		t = *t.Inner
	}

	if t.Kind != ast.TNamed {
		return nil, false
	}

	switch len(t.Path) {
	case 1:
		s, ok := c.moduleStructs[t.Path[0]]
		return s, ok
	case 2:
		mod, ok := c.depStructs[t.Path[0]]
		if !ok {
			return nil, false
		}

		s, ok := mod[t.Path[1]]

		return s, ok
	default:
		return nil, false
	}
}

func fieldOf(s *ast.Struct, name string) (ast.Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return ast.Field{}, false
}
