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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// fmtCmd is a documented stub. A canonical Kestrel formatter needs a
// concrete-syntax-preserving parse tree this driver's AST does not keep,
// so it is left unimplemented rather than faked with a lossy pretty
// printer.
var fmtCmd = &cobra.Command{
	Use:   "fmt <path>",
	Short: "reformat a Kestrel source file (not yet implemented).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "kestrelc fmt: not yet implemented")
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
