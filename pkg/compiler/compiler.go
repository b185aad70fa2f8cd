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

// Package compiler implements the driver glue (spec.md §2 "Driver glue"
// row, §4 overview): it composes the lex/parse/resolve/check/layout/lower/
// emit stages into one pure function of (source tree, entry path),
// grounded on pkg/corset/compiler.go's Compiler[M]/CompileSourceFile(s)
// pattern in the teacher package -- one struct owning the pipeline's
// mutable state, a Compile method running stages strictly in sequence and
// returning the moment a stage reports an Error (spec.md §5 "no back-edge;
// each stage consumes the previous stage's output").
package compiler

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kestrel-lang/kestrelc/pkg/check"
	"github.com/kestrel-lang/kestrelc/pkg/layout"
	"github.com/kestrel-lang/kestrelc/pkg/lower"
	"github.com/kestrel-lang/kestrelc/pkg/parser"
	"github.com/kestrel-lang/kestrelc/pkg/resolve"
	"github.com/kestrel-lang/kestrelc/pkg/source"
	"github.com/kestrel-lang/kestrelc/pkg/wasm"
)

// Config carries the pipeline's only inputs beyond the source tree itself
// (SPEC_FULL.md §1.3), renamed from the teacher's CompilationConfig in
// pkg/corset/compiler.go.
type Config struct {
	// EntryPoint is the path to the module's entry source file.
	EntryPoint string
	// Debug enables per-stage tracing via logrus (SPEC_FULL.md §1.1),
	// mirroring go-corset's --debug flag plumbing in pkg/cmd/root.go.
	Debug bool
	// EmitIRJSON additionally serializes the lowered IR program to JSON
	// once lowering succeeds, an optional developer aid (SPEC_FULL.md §2).
	EmitIRJSON bool
}

// Result is everything a successful compilation produces: the Wasm binary,
// and, when requested, the IR program's JSON dump. Files is populated
// regardless of success, so a caller can render returned diagnostics with
// pkg/source.Printer.
type Result struct {
	Wasm   []byte
	IRJSON []byte
	Files  *source.Set
}

// Compile runs the full pipeline against cfg.EntryPoint: lex+parse the
// entry file, resolve its imports, type-check it against its dependencies,
// compute struct layouts for the entry module and each dependency, lower
// to IR, and emit a Wasm binary. It returns the moment any stage's
// diagnostics contain an Error (spec.md §3 "A pipeline stage fails iff its
// diagnostic list contains at least one Error").
func Compile(cfg Config) (*Result, []source.Diagnostic) {
	trace(cfg, "compile", "entry=%s", cfg.EntryPoint)

	files := source.NewSet()

	entryId, err := files.AddFile(cfg.EntryPoint)
	if err != nil {
		return &Result{Files: files}, []source.Diagnostic{source.NewError(source.Location{}, "cannot read %q: %s", cfg.EntryPoint, err)}
	}

	entryFile := files.Get(entryId)

	mainAST, diags := parser.Parse(entryFile, entryId)
	trace(cfg, "parse", "diagnostics=%d", len(diags))

	if source.HasErrors(diags) {
		return &Result{Files: files}, diags
	}

	resolved, rdiags := resolve.Resolve(cfg.EntryPoint, entryId, mainAST, files)
	trace(cfg, "resolve", "modules=%d diagnostics=%d", len(resolved.Modules), len(rdiags))

	if source.HasErrors(rdiags) {
		return &Result{Files: files}, rdiags
	}

	cdiags := check.Check(entryId, mainAST, resolved.Modules)
	trace(cfg, "check", "diagnostics=%d", len(cdiags))

	if source.HasErrors(cdiags) {
		return &Result{Files: files}, cdiags
	}

	mainLayout := layout.Build("main", mainAST)

	depLayouts := make(map[string]layout.Result, len(resolved.Modules))
	for _, dep := range resolved.Modules {
		depLayouts[dep.Name] = layout.Build(dep.Name, dep.File)
	}

	trace(cfg, "layout", "structs=%d accessors=%d", len(mainLayout.Layouts), len(mainLayout.Accessors))

	prog, ldiags := lower.Program(entryId, mainAST, mainLayout, resolved.Modules, depLayouts)
	trace(cfg, "lower", "functions=%d diagnostics=%d", len(prog.Functions), len(ldiags))

	if source.HasErrors(ldiags) {
		return &Result{Files: files}, ldiags
	}

	bin, err := wasm.Emit(prog)
	if err != nil {
		return &Result{Files: files}, []source.Diagnostic{source.Internal(source.Location{File: entryId}, "%s", err)}
	}

	trace(cfg, "emit", "bytes=%d", len(bin))

	result := &Result{Wasm: bin, Files: files}

	if cfg.EmitIRJSON {
		js, err := prog.DumpJSON()
		if err != nil {
			return result, []source.Diagnostic{source.Internal(source.Location{File: entryId}, "dump-ir: %s", err)}
		}

		result.IRJSON = js
	}

	return result, nil
}

func trace(cfg Config, stage, format string, args ...any) {
	if !cfg.Debug && os.Getenv("KESTREL_DEBUG") != "1" {
		return
	}

	log.SetLevel(log.DebugLevel)
	log.WithField("stage", stage).Debugf(format, args...)
}
