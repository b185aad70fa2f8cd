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

// Package resolve implements the module resolver (spec.md §4.4): given an
// entry source file and its parsed AST, it locates and parses the module
// named by each "import" statement. Imports are one level deep in the MVP
// and do not recurse into the imported module's own imports. File I/O is
// grounded on source.ReadFiles in pkg/source; package-root discovery is
// delegated to pkg/manifest.
package resolve

import (
	"path/filepath"

	"github.com/kestrel-lang/kestrelc/pkg/ast"
	"github.com/kestrel-lang/kestrelc/pkg/manifest"
	"github.com/kestrel-lang/kestrelc/pkg/parser"
	"github.com/kestrel-lang/kestrelc/pkg/source"
)

// Module pairs an import's local binding name with its parsed module root.
type Module struct {
	Name string
	File *ast.File
	Id   source.FileId
}

// Result is everything the type checker and lowering pass need to see
// beyond the entry module itself.
type Result struct {
	Root    string
	Modules []Module
}

// Resolve locates and parses every module imported by entry, which must
// already be lexed and parsed into entryFile. files accumulates the parsed
// dependency source text so later stages can render diagnostics against it.
func Resolve(entryPath string, entryId source.FileId, entryFile *ast.File, files *source.Set) (Result, []source.Diagnostic) {
	var (
		result Result
		diags  []source.Diagnostic
	)

	root, err := manifest.FindRoot(entryPath)
	if err != nil {
		return result, []source.Diagnostic{
			source.Internal(source.Location{File: entryId}, "%s", err),
		}
	}

	result.Root = root

	for _, item := range entryFile.Items {
		imp, ok := item.(*ast.Import)
		if !ok {
			continue
		}

		name := imp.ModuleName()
		depPath := filepath.Join(root, "src", filepath.Join(imp.Path...)+".kx")

		fid, err := files.AddFile(depPath)
		if err != nil {
			diags = append(diags, source.NewError(
				source.Location{File: entryId, Span: imp.NodeSpan()},
				"cannot read imported module %q: %s", depPath, err,
			))

			continue
		}

		file := files.Get(fid)

		depFile, depDiags := parser.Parse(file, fid)
		if len(depDiags) > 0 {
			diags = append(diags, depDiags...)
			continue
		}

		result.Modules = append(result.Modules, Module{Name: name, File: depFile, Id: fid})
	}

	return result, diags
}
