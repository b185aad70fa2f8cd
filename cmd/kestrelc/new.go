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

// newCmd is a documented stub (spec.md §1 scopes project scaffolding and
// manifest authoring out as a later concern). It reports its status
// rather than silently doing nothing.
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "scaffold a new Kestrel project (not yet implemented).",
	Long:  "Reserved for future project scaffolding. Currently a stub: write kestrel.toml and a src/main.kx by hand.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "kestrelc new: not yet implemented; create a directory with src/main.kx by hand")
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
