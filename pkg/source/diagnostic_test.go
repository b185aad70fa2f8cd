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
package source

import (
	"strings"
	"testing"
)

func TestHasErrors(t *testing.T) {
	none := []Diagnostic{NewWarning(Location{}, "just a warning")}
	if HasErrors(none) {
		t.Errorf("expected HasErrors to be false with only warnings")
	}

	some := []Diagnostic{
		NewWarning(Location{}, "a warning"),
		NewError(Location{}, "an error"),
	}

	if !HasErrors(some) {
		t.Errorf("expected HasErrors to be true when an Error is present")
	}
}

func TestDiagnostic_Error(t *testing.T) {
	d := NewError(Location{File: 2, Span: NewSpan(4, 9)}, "missing %s", "semicolon")

	msg := d.Error()
	if !strings.Contains(msg, "missing semicolon") {
		t.Errorf("Error() = %q, expected it to contain the formatted message", msg)
	}

	if !strings.Contains(msg, "error") {
		t.Errorf("Error() = %q, expected it to mention the level", msg)
	}
}

func TestInternal_PrefixesMessage(t *testing.T) {
	d := Internal(Location{}, "local index %d out of range", 7)

	if !strings.HasPrefix(d.Message, "internal error: ") {
		t.Errorf("Message = %q, expected the \"internal error: \" prefix", d.Message)
	}

	if d.Level != Error {
		t.Errorf("Internal() should produce an Error-level diagnostic")
	}
}
