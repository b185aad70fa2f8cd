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
	"testing"

	"github.com/kestrel-lang/kestrelc/pkg/parser"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

func checkSource(t *testing.T, src string) []source.Diagnostic {
	t.Helper()

	set := source.NewSet()
	id := set.Add("test.kx", []byte(src))

	file, diags := parser.Parse(set.Get(id), id)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}

	return Check(id, file, nil)
}

func TestCheck_HelloWorld(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { print("Hello, World!"); }`)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestCheck_PrintInt(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { print(42); }`)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// TestCheck_NonExhaustiveMatch is spec.md §8 E6.
func TestCheck_NonExhaustiveMatch(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let x = match true { true => 1 }; }`)
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}

	found := false

	for _, d := range diags {
		if strings.Contains(strings.ToLower(d.Message), "exhaust") {
			found = true
		}
	}

	if !found {
		t.Errorf("expected a diagnostic mentioning exhaustiveness, got %v", diags)
	}
}

// TestCheck_ExhaustiveBoolMatch is spec.md §8 property 7's positive case:
// both true and false arms make a Bool match exhaustive.
func TestCheck_ExhaustiveBoolMatch(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let x = match true { true => 1, false => 2 }; }`)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestCheck_ImmutableAssignmentRejected(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let x = 1; x = 2; }`)
	if len(diags) == 0 {
		t.Errorf("expected a diagnostic for assigning to an immutable binding")
	}
}

func TestCheck_MutableAssignmentAccepted(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let mut x = 1; x = 2; }`)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestCheck_TypeMismatchInLet(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let x: string = 1; }`)
	if len(diags) == 0 {
		t.Errorf("expected a diagnostic for assigning an Int to a String-annotated let")
	}
}

func TestCheck_UnknownFunctionCall(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { nonexistent(); }`)
	if len(diags) == 0 {
		t.Errorf("expected a diagnostic for calling an undeclared function")
	}
}

func TestCheck_ArityMismatch(t *testing.T) {
	diags := checkSource(t, `
fn add(a: int, b: int) -> int { return a + b; }
fn main() -> () { let x = add(1); }
`)
	if len(diags) == 0 {
		t.Errorf("expected a diagnostic for a call with too few arguments")
	}
}

func TestCheck_ComparisonYieldsBool(t *testing.T) {
	diags := checkSource(t, `fn main() -> () { let x = 1 < 2; }`)
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

func TestCheck_MainMustReturnUnit(t *testing.T) {
	diags := checkSource(t, `fn main() -> int { return 1; }`)
	if len(diags) == 0 {
		t.Errorf("expected a diagnostic for main not returning Unit")
	}
}
