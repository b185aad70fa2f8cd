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

// addCmd is a documented stub. Dependency resolution here only reads
// modules reachable from the entry file's own imports (pkg/resolve);
// there is no manifest or registry to add a dependency to yet.
var addCmd = &cobra.Command{
	Use:   "add <module>",
	Short: "add a dependency to the current project (not yet implemented).",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "kestrelc add: not yet implemented; import the module directly from source")
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
