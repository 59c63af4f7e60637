// Copyright (c) 2026 The minic Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package driver sequences one compilation end to end: preprocess,
// run the core pipeline, emit assembly, then hand off to the
// collaborator C toolchain to assemble and link. It mirrors the shape
// of a CompileTheWorld-style orchestrator, trading os.Exit-on-failure
// for wrapped error returns throughout.
package driver

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"minic/internal/ast"
	"minic/internal/ccerr"
	"minic/internal/codegen"
	"minic/internal/fresh"
	"minic/internal/ir"
	"minic/internal/lexer"
	"minic/internal/resolve"
	"minic/internal/utilx"
)

// Stage names the point a run stopped at, for the --lex/--parse/etc.
// flags that ask the driver to do only a prefix of the pipeline.
type Stage int

const (
	StageFull Stage = iota
	StageLex
	StageParse
	StageCodegen
	StageTacky
	StageAssembly
)

// Options configures one Run.
type Options struct {
	CC    string // preprocessor/assembler/linker driver, e.g. "cc"
	Stage Stage
}

// Driver owns the collaborator binary name and the logger every
// stage transition is reported through.
type Driver struct {
	cc  string
	log *slog.Logger
}

func New(cc string, log *slog.Logger) *Driver {
	if cc == "" {
		cc = "cc"
	}
	return &Driver{cc: cc, log: log}
}

// Run compiles the C source file at path according to opts. On
// StageFull it produces a native executable at the same path with
// its extension stripped and returns that executable's path. On
// StageAssembly it writes the .s file beside the source and returns
// its path. The lex, parse, tacky and codegen stages stop after their
// pass and return ""; none of them renders its result as text. No
// stage other than StageFull assembles or links.
func (d *Driver) Run(ctx context.Context, path string, opts Options) (string, error) {
	if !utilx.CommandExists(d.cc) {
		return "", ccerr.New(ccerr.PreprocessFailed, "collaborator compiler driver %q not found on PATH", d.cc)
	}

	d.log.DebugContext(ctx, "preprocessing", "path", path)
	src, err := d.preprocess(ctx, path)
	if err != nil {
		return "", err
	}

	d.log.DebugContext(ctx, "lexing")
	if opts.Stage == StageLex {
		_, err := lexer.Tokenize(src)
		return "", err
	}

	d.log.DebugContext(ctx, "parsing")
	prog, err := ast.Parse(src)
	if err != nil {
		return "", err
	}
	if opts.Stage == StageParse {
		return "", nil
	}

	counter := fresh.NewCounter()
	d.log.DebugContext(ctx, "resolving variables")
	if err := resolve.Variables(prog, counter); err != nil {
		return "", err
	}
	d.log.DebugContext(ctx, "resolving labels")
	if err := resolve.Labels(prog, counter); err != nil {
		return "", err
	}

	d.log.DebugContext(ctx, "lowering to ir")
	tacky, err := ir.Lower(prog, counter)
	if err != nil {
		return "", err
	}
	if opts.Stage == StageTacky {
		return "", nil
	}

	d.log.DebugContext(ctx, "selecting instructions")
	asmProg, err := codegen.Select(tacky)
	if err != nil {
		return "", err
	}
	frameSize := codegen.ReplacePseudos(asmProg.Func)
	codegen.Legalize(asmProg.Func, frameSize)
	if opts.Stage == StageCodegen {
		return "", nil
	}

	text := codegen.Emit(asmProg)

	asmPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".s"
	if err := os.WriteFile(asmPath, []byte(text), 0o644); err != nil {
		return "", ccerr.Wrap(ccerr.IO, err, "writing assembly to %s", asmPath)
	}
	if opts.Stage == StageAssembly {
		return asmPath, nil
	}
	defer os.Remove(asmPath)

	outPath := strings.TrimSuffix(path, filepath.Ext(path))
	d.log.DebugContext(ctx, "assembling and linking", "output", outPath)
	if err := d.assemble(ctx, asmPath, outPath); err != nil {
		return "", err
	}

	return outPath, nil
}

func (d *Driver) preprocess(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, d.cc, "-E", "-P", path)
	out, err := cmd.Output()
	if err != nil {
		return "", ccerr.Wrap(ccerr.PreprocessFailed, err, "preprocessing %s", path)
	}
	return string(out), nil
}

func (d *Driver) assemble(ctx context.Context, asmPath, outPath string) error {
	cmd := exec.CommandContext(ctx, d.cc, asmPath, "-o", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return ccerr.Wrap(ccerr.AssembleFailed, err, "assembling/linking %s: %s", asmPath, strings.TrimSpace(string(out)))
	}
	return nil
}
