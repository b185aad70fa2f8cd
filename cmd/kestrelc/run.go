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
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/kestrelc/pkg/compiler"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// runCmd implements "kestrelc run <path>" (spec.md §6): build, then shell
// out to a configured external WASI host binary. spec.md §1 places "the
// host WebAssembly runtime itself" out of scope; this never embeds one.
var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "compile and run a Kestrel source file under a WASI host.",
	Long:  "Compile the given entry source file and execute the result under the WASI host named by --wasm-runtime.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runRunCmd(cmd, args[0])
	},
}

func runRunCmd(cmd *cobra.Command, entry string) {
	cfg := compiler.Config{EntryPoint: entry, Debug: GetFlag(cmd, "debug")}

	result, diags := compiler.Compile(cfg)
	if len(diags) > 0 {
		printer := source.NewPrinter(result.Files, int(os.Stderr.Fd()))
		for _, d := range diags {
			printer.Render(os.Stderr, d)
		}

		os.Exit(1)
	}

	tmpFile, err := os.CreateTemp("", "kestrel-*.wasm")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(result.Wasm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := tmpFile.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runtime := GetString(cmd, "wasm-runtime")

	if _, err := exec.LookPath(runtime); err != nil {
		fmt.Fprintf(os.Stderr, "wasm host %q not found on PATH: %s\n", filepath.Base(runtime), err)
		os.Exit(1)
	}

	child := exec.Command(runtime, tmpFile.Name())
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			os.Exit(exitErr.ExitCode())
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}

	return ok
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("wasm-runtime", "wasmtime", "external WASI host binary to execute the compiled module under")
}
