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
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/kestrelc/pkg/compiler"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// buildCmd implements "kestrelc build [--target wasm-wasi] <path>"
// (spec.md §6 "Driver commands"): it is the one functional subcommand,
// invoking pkg/compiler.Compile and writing dist/main.wasm, grounded on
// pkg/cmd/zkc/compile.go's runCompileCmd in the teacher package.
var buildCmd = &cobra.Command{
	Use:   "build [flags] <path>",
	Short: "compile a Kestrel source file into a stand-alone WebAssembly module.",
	Long:  "Compile the given entry source file (and its imports) into dist/main.wasm, targeting WASI preview-1.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBuildCmd(cmd, args[0])
	},
}

func runBuildCmd(cmd *cobra.Command, entry string) {
	target := GetString(cmd, "target")
	if target != "wasm-wasi" {
		fmt.Fprintf(os.Stderr, "unsupported target %q (only \"wasm-wasi\" is supported)\n", target)
		os.Exit(1)
	}

	cfg := compiler.Config{
		EntryPoint: entry,
		Debug:      GetFlag(cmd, "debug"),
		EmitIRJSON: GetFlag(cmd, "dump-ir"),
	}

	result, diags := compiler.Compile(cfg)
	if len(diags) > 0 {
		printer := source.NewPrinter(result.Files, int(os.Stderr.Fd()))
		for _, d := range diags {
			printer.Render(os.Stderr, d)
		}

		os.Exit(1)
	}

	outDir := GetString(cmd, "out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outPath := filepath.Join(outDir, "main.wasm")
	if err := os.WriteFile(outPath, result.Wasm, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if result.IRJSON != nil {
		irPath := filepath.Join(outDir, "main.ir.json")
		if err := os.WriteFile(irPath, result.IRJSON, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Printf("wrote %s\n", outPath)
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("target", "wasm-wasi", "compilation target")
	buildCmd.Flags().String("out-dir", "dist", "output directory for the compiled module")
	buildCmd.Flags().Bool("dump-ir", false, "also write the lowered IR program as JSON")
}
