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

// Command kestrelc is the Kestrel compiler driver (spec.md §1 "out of
// scope, treated as external collaborators": the command-line driver
// itself, project-directory discovery, invocation of a host WebAssembly
// runtime). Grounded on pkg/cmd/zkc/root.go in the teacher package: a
// single cobra root command with subcommands registered from their own
// init() functions.
package main

func main() {
	Execute()
}
