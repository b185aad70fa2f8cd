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
package layout

import (
	"testing"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
)

func TestIsExhaustive_BoolBothArms(t *testing.T) {
	patterns := []ast.Pattern{{Kind: ast.PatBool, Bool: true}, {Kind: ast.PatBool, Bool: false}}
	if !IsExhaustive(ast.Bool, patterns) {
		t.Errorf("expected true/false arms to be exhaustive over bool")
	}
}

func TestIsExhaustive_BoolOneArm(t *testing.T) {
	patterns := []ast.Pattern{{Kind: ast.PatBool, Bool: true}}
	if IsExhaustive(ast.Bool, patterns) {
		t.Errorf("expected a single bool arm to be non-exhaustive")
	}
}

func TestIsExhaustive_BoolDuplicateArmStillNonExhaustive(t *testing.T) {
	patterns := []ast.Pattern{{Kind: ast.PatBool, Bool: true}, {Kind: ast.PatBool, Bool: true}}
	if IsExhaustive(ast.Bool, patterns) {
		t.Errorf("expected two true arms without a false arm to be non-exhaustive")
	}
}

func TestIsExhaustive_WildcardAlwaysExhaustive(t *testing.T) {
	patterns := []ast.Pattern{{Kind: ast.PatWildcard}}
	if !IsExhaustive(ast.Int, patterns) {
		t.Errorf("expected a wildcard arm to be exhaustive over int")
	}
}

func TestIsExhaustive_IntWithoutWildcardIsNonExhaustive(t *testing.T) {
	patterns := []ast.Pattern{{Kind: ast.PatInt, Int: 1}, {Kind: ast.PatInt, Int: 2}}
	if IsExhaustive(ast.Int, patterns) {
		t.Errorf("expected a finite set of int arms without a wildcard to be non-exhaustive")
	}
}

func TestFieldSize(t *testing.T) {
	cases := []struct {
		ty       ast.Type
		expected uint32
	}{
		{ast.Unit, 0},
		{ast.Int, 4},
		{ast.Bool, 4},
		{ast.String, 8},
		{ast.Named("Product"), 4},
		{ast.Ref(ast.Int, false), 4},
	}

	for _, c := range cases {
		if got := FieldSize(c.ty); got != c.expected {
			t.Errorf("FieldSize(%v) = %d, expected %d", c.ty, got, c.expected)
		}
	}
}

func TestSetterName(t *testing.T) {
	if got := SetterName("age"); got != "set_age" {
		t.Errorf("SetterName(\"age\") = %q, expected \"set_age\"", got)
	}

	if got := SetterName("user_id"); got != "set_user_id" {
		t.Errorf("SetterName(\"user_id\") = %q, expected \"set_user_id\"", got)
	}
}

func productStruct() *ast.Struct {
	return &ast.Struct{
		Name:       "Product",
		Visibility: ast.Exported,
		Fields: []ast.Field{
			{Name: "id", Type: ast.Int, Attr: ast.AccessorAttr{Get: true}},
			{Name: "price", Type: ast.Int, Attr: ast.AccessorAttr{Get: true, Set: true}},
			{Name: "name", Type: ast.String},
		},
	}
}

func TestBuild_Offsets(t *testing.T) {
	file := &ast.File{Items: []ast.Item{productStruct()}}
	result := Build("product", file)

	if len(result.Layouts) != 1 {
		t.Fatalf("expected one layout, got %d", len(result.Layouts))
	}

	sl := result.Layouts[0]

	idOff, ok := sl.FieldOffset("id")
	if !ok || idOff != 0 {
		t.Errorf("id offset = %d, ok=%v, expected 0", idOff, ok)
	}

	priceOff, ok := sl.FieldOffset("price")
	if !ok || priceOff != 4 {
		t.Errorf("price offset = %d, ok=%v, expected 4", priceOff, ok)
	}

	nameOff, ok := sl.FieldOffset("name")
	if !ok || nameOff != 8 {
		t.Errorf("name offset = %d, ok=%v, expected 8", nameOff, ok)
	}

	// 4 (id) + 4 (price) + 8 (name) = 16.
	if sl.Size != 16 {
		t.Errorf("total size = %d, expected 16", sl.Size)
	}
}

func TestBuild_AccessorOrderingAndNames(t *testing.T) {
	file := &ast.File{Items: []ast.Item{productStruct()}}
	result := Build("product", file)

	// Deterministic order: (module, struct, is_setter, field_name) --
	// getters before setters, alphabetical within each group.
	expected := []struct {
		field    string
		isSetter bool
		funcName string
	}{
		{"id", false, "product_Product_id"},
		{"price", false, "product_Product_price"},
		{"price", true, "product_Product_set_price"},
	}

	if len(result.Accessors) != len(expected) {
		t.Fatalf("got %d accessors, expected %d", len(result.Accessors), len(expected))
	}

	for i, e := range expected {
		a := result.Accessors[i]
		if a.FieldName != e.field || a.IsSetter != e.isSetter {
			t.Errorf("accessor %d = {%s, setter=%v}, expected {%s, setter=%v}", i, a.FieldName, a.IsSetter, e.field, e.isSetter)
		}

		if got := a.FuncName(); got != e.funcName {
			t.Errorf("accessor %d FuncName() = %q, expected %q", i, got, e.funcName)
		}
	}
}

func TestBuild_SkipsNonExportedStructs(t *testing.T) {
	s := productStruct()
	s.Visibility = ast.Private

	file := &ast.File{Items: []ast.Item{s}}
	result := Build("product", file)

	if len(result.Layouts) != 0 {
		t.Errorf("expected a private struct to produce no layout, got %d", len(result.Layouts))
	}

	if len(result.Accessors) != 0 {
		t.Errorf("expected a private struct to produce no accessors, got %d", len(result.Accessors))
	}
}

func TestStructLayout_FieldTypeMissing(t *testing.T) {
	file := &ast.File{Items: []ast.Item{productStruct()}}
	result := Build("product", file)

	if _, ok := result.Layouts[0].FieldType("nonexistent"); ok {
		t.Errorf("expected FieldType to report false for a missing field")
	}
}
