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

import "fmt"

// Level distinguishes fatal diagnostics from advisory ones (spec.md §3). No
// stage currently emits Warning, but the data model supports it.
type Level uint8

const (
	// Error diagnostics cause the owning stage (and hence compilation) to fail.
	Error Level = iota
	// Warning diagnostics are informational only.
	Warning
)

// String renders the level as it appears in rendered diagnostics.
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single message produced by a pipeline stage, optionally
// anchored to a Location.  Mirrors the shape of source.SyntaxError in the
// teacher package, generalised with an explicit Level per spec.md §3.
type Diagnostic struct {
	Level    Level
	Message  string
	Location *Location
}

// NewError constructs an Error-level diagnostic anchored at the given
// location.
func NewError(loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Error, fmt.Sprintf(format, args...), &loc}
}

// NewWarning constructs a Warning-level diagnostic anchored at the given
// location.
func NewWarning(loc Location, format string, args ...any) Diagnostic {
	return Diagnostic{Warning, fmt.Sprintf(format, args...), &loc}
}

// Internal constructs an Error-level diagnostic for a violated internal
// invariant, per spec.md §7 ("internal invariant violations surface as
// diagnostics with a generic 'internal error' prefix rather than aborting
// the process").
func Internal(loc Location, format string, args ...any) Diagnostic {
	msg := "internal error: " + fmt.Sprintf(format, args...)
	return Diagnostic{Error, msg, &loc}
}

// Error implements the standard error interface, so a Diagnostic can be
// passed anywhere a Go error is expected.
func (d Diagnostic) Error() string {
	if d.Location == nil {
		return fmt.Sprintf("%s: %s", d.Level, d.Message)
	}

	return fmt.Sprintf("%s: %d:%d: %s", d.Level, d.Location.Span.Start, d.Location.Span.End, d.Message)
}

// HasErrors returns true iff the given slice contains at least one Error
// level diagnostic.  A pipeline stage fails iff this holds (spec.md §3).
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Level == Error {
			return true
		}
	}

	return false
}
