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
package ast

import "testing"

func TestType_Equal_Primitives(t *testing.T) {
	if !Int.Equal(Int) {
		t.Errorf("Int should equal itself")
	}

	if Int.Equal(Bool) {
		t.Errorf("Int should not equal Bool")
	}
}

func TestType_Equal_Named(t *testing.T) {
	a := Named("product", "Product")
	b := Named("product", "Product")
	c := Named("product", "Invoice")
	d := Named("Product")

	if !a.Equal(b) {
		t.Errorf("expected equal Named types with identical paths")
	}

	if a.Equal(c) {
		t.Errorf("expected unequal Named types with different final segment")
	}

	if a.Equal(d) {
		t.Errorf("expected unequal Named types with different path length")
	}
}

func TestType_Equal_Ref(t *testing.T) {
	mutRef := Ref(Int, true)
	constRef := Ref(Int, false)

	if mutRef.Equal(constRef) {
		t.Errorf("&mut int should not equal &int")
	}

	if !mutRef.Equal(Ref(Int, true)) {
		t.Errorf("expected two &mut int types to be equal")
	}

	if Ref(Int, false).Equal(Ref(Bool, false)) {
		t.Errorf("&int should not equal &bool")
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		ty   Type
		want string
	}{
		{Unit, "()"},
		{Int, "int"},
		{Bool, "bool"},
		{String, "string"},
		{Named("product", "Product"), "product::Product"},
		{Ref(Int, false), "&int"},
		{Ref(Int, true), "&mut int"},
	}

	for _, tc := range tests {
		if got := tc.ty.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, expected %q", tc.ty, got, tc.want)
		}
	}
}
