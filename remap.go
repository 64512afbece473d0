// Package remap is the embeddable event-transformation language described
// in spec.md: Compile builds a source string plus a function registry into
// a runnable Program, and runtime.Runtime.Resolve executes it against a
// host Target. The package ties together path/, value/, kind/, compiler/,
// ast/, function/, stdlib/, runtime/, and surface/, mirroring the role the
// teacher's root-level hlb.go plays tying parser/checker/codegen together.
package remap

import (
	"fmt"
	"strings"

	"github.com/openllb/remap/ast"
	"github.com/openllb/remap/compiler"
	"github.com/openllb/remap/function"
	"github.com/openllb/remap/kind"
	"github.com/openllb/remap/path"
	"github.com/openllb/remap/protoset"
	"github.com/openllb/remap/surface"
)

// ExternalEnv declares the host-supplied static shape of the event and
// metadata roots at compile time (spec §6).
type ExternalEnv struct {
	TargetKind   kind.Kind
	MetadataKind kind.Kind
}

// CompileOption configures a Compile call, following the teacher's
// functional-options ParseOption/CompileOption pattern (hlb.go, parse.go).
type CompileOption func(*CompileConfig)

// CompileConfig holds everything Compile needs beyond the source and
// function registry.
type CompileConfig struct {
	Env            ExternalEnv
	IsReadOnlyPath func(tp path.TargetPath) bool
	Protoset       *protoset.Loader
}

func WithExternalEnv(env ExternalEnv) CompileOption {
	return func(c *CompileConfig) { c.Env = env }
}

func WithReadOnlyPaths(fn func(tp path.TargetPath) bool) CompileOption {
	return func(c *CompileConfig) { c.IsReadOnlyPath = fn }
}

func WithProtoset(loader *protoset.Loader) CompileOption {
	return func(c *CompileConfig) { c.Protoset = loader }
}

func newCompileConfig(opts ...CompileOption) *CompileConfig {
	cfg := &CompileConfig{Protoset: protoset.NewLoader()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// CompileResult is what a successful Compile returns (spec §6):
// the runnable program plus any non-fatal compile-time warnings.
type CompileResult struct {
	Program  *ast.Program
	Warnings []string
}

// stripBOM removes a single leading UTF-8 byte-order mark before lexing
// (spec §6), mirroring original_source/src/compiler/bom.rs.
func stripBOM(src string) string {
	return strings.TrimPrefix(src, "﻿")
}

// Compile parses src with the surface grammar and type-checks it against
// fns and the supplied options, producing a runnable program (spec §6).
func Compile(src string, fns *function.Registry, opts ...CompileOption) (*CompileResult, error) {
	cfg := newCompileConfig(opts...)
	src = stripBOM(src)

	cst, err := surface.Parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("remap: parse: %w", err)
	}

	cctx := &function.CompileContext{
		IsReadOnlyPath: cfg.IsReadOnlyPath,
		Protoset:       cfg.Protoset,
	}
	state := compiler.NewTypeState(cfg.Env.TargetKind, cfg.Env.MetadataKind)

	program, _, err := surface.Compile(cst, fns, cctx, state)
	if err != nil {
		return nil, fmt.Errorf("remap: compile: %w", err)
	}

	return &CompileResult{Program: program}, nil
}
