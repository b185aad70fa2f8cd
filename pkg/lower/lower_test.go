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

import (
	"testing"

	"github.com/kestrel-lang/kestrelc/pkg/ir"
	"github.com/kestrel-lang/kestrelc/pkg/layout"
	"github.com/kestrel-lang/kestrelc/pkg/parser"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// lowerSource parses src (which must already be free of parse/check
// diagnostics) and lowers it standalone, with no dependency modules.
func lowerSource(t *testing.T, src string) (*ir.Program, []source.Diagnostic) {
	t.Helper()

	set := source.NewSet()
	id := set.Add("test.kx", []byte(src))

	file, diags := parser.Parse(set.Get(id), id)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}

	l := layout.Build(mainModule, file)

	return Program(id, file, l, nil, nil)
}

func findFunc(prog *ir.Program, name string) (ir.Function, bool) {
	for _, fn := range prog.Functions {
		if fn.Name == name {
			return fn, true
		}
	}

	return ir.Function{}, false
}

func TestProgram_MainIsFunctionZero(t *testing.T) {
	prog, diags := lowerSource(t, `fn main() -> () { print(42); }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	if len(prog.Functions) == 0 {
		t.Fatalf("expected at least one function")
	}

	if prog.Functions[0].Name != "main" {
		t.Errorf("function 0 = %q, expected \"main\"", prog.Functions[0].Name)
	}
}

func TestProgram_PrintIntLowersToPrintInt(t *testing.T) {
	prog, diags := lowerSource(t, `fn main() -> () { print(42); }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	main, ok := findFunc(prog, "main")
	if !ok {
		t.Fatalf("no main function in lowered program")
	}

	found := false
	foundPrint := false

	for _, instr := range main.Instrs {
		if ci, ok := instr.(ir.ConstInt); ok && ci.Value == 42 {
			found = true
		}

		if _, ok := instr.(ir.PrintInt); ok {
			foundPrint = true
		}
	}

	if !found {
		t.Errorf("expected a ConstInt{Value: 42} instruction, got %+v", main.Instrs)
	}

	if !foundPrint {
		t.Errorf("expected a PrintInt instruction, got %+v", main.Instrs)
	}

	if !main.ReturnsUnit {
		t.Errorf("expected main to be marked ReturnsUnit")
	}
}

func TestProgram_StringLiteralsAreInterned(t *testing.T) {
	prog, diags := lowerSource(t, `fn main() -> () { print("hi"); print("hi"); print("bye"); }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	if len(prog.StringData) != 2 {
		t.Fatalf("expected 2 distinct interned strings, got %d: %v", len(prog.StringData), prog.StringData)
	}
}

func TestProgram_UserFunctionsOrderedAfterMain(t *testing.T) {
	prog, diags := lowerSource(t, `
fn helper() -> int { return 1; }
fn main() -> () { let x = helper(); }
`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	if prog.Functions[0].Name != "main" {
		t.Fatalf("expected main first, got %q", prog.Functions[0].Name)
	}

	if _, ok := findFunc(prog, "helper"); !ok {
		t.Errorf("expected a lowered \"helper\" function")
	}
}

func TestProgram_AccessorsAreLoweredAndNamed(t *testing.T) {
	prog, diags := lowerSource(t, `
export struct Product { id: int @pub(get), price: int @pub(get, set), }
fn main() -> () { let p = Product { id: 1, price: 10 }; }
`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	for _, name := range []string{"main_Product_id", "main_Product_price", "main_Product_set_price"} {
		if _, ok := findFunc(prog, name); !ok {
			t.Errorf("expected a lowered accessor function %q", name)
		}
	}
}

func TestProgram_BinOpLowered(t *testing.T) {
	prog, diags := lowerSource(t, `fn main() -> () { let x = 1 + 2; print(x); }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	main, _ := findFunc(prog, "main")

	found := false

	for _, instr := range main.Instrs {
		if b, ok := instr.(ir.BinOp); ok && b.Op == ir.OpAdd {
			found = true
		}
	}

	if !found {
		t.Errorf("expected a BinOp{Op: OpAdd} instruction, got %+v", main.Instrs)
	}
}

func TestProgram_IfElseLowersToNestedInstr(t *testing.T) {
	prog, diags := lowerSource(t, `fn main() -> () { if true { print(1); } else { print(2); } }`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	main, _ := findFunc(prog, "main")

	found := false

	for _, instr := range main.Instrs {
		if iff, ok := instr.(ir.If); ok {
			found = true

			if len(iff.Then) == 0 {
				t.Errorf("expected a non-empty Then branch")
			}

			if len(iff.Else) == 0 {
				t.Errorf("expected a non-empty Else branch")
			}
		}
	}

	if !found {
		t.Errorf("expected an If instruction, got %+v", main.Instrs)
	}
}

func TestProgram_StructLayoutsCarried(t *testing.T) {
	prog, diags := lowerSource(t, `
export struct Product { id: int @pub(get), }
fn main() -> () { let p = Product { id: 1 }; }
`)
	if len(diags) != 0 {
		t.Fatalf("unexpected lowering diagnostics: %v", diags)
	}

	if len(prog.Layouts) != 1 {
		t.Fatalf("expected one struct layout, got %d", len(prog.Layouts))
	}

	if prog.Layouts[0].Name != "Product" {
		t.Errorf("layout name = %q, expected \"Product\"", prog.Layouts[0].Name)
	}
}
