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
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when kestrelc is invoked with no subcommand,
// grounded on rootCmd in pkg/cmd/zkc/root.go.
var rootCmd = &cobra.Command{
	Use:   "kestrelc",
	Short: "A compiler for the Kestrel language.",
	Long:  "A compiler toolchain for Kestrel, targeting stand-alone WebAssembly modules under WASI preview-1.",
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "trace each pipeline stage to stderr")
}
