package compiler

import (
	"context"
	"io"
	"log/slog"

	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

// CompileOptions carries the per-file settings handed to a SubCompiler.
type CompileOptions struct {
	Reporter   exc.Reporter
	Logger     *slog.Logger
	Output     io.Writer
	Parser     nvc.ParserOptions
	DumpTokens bool
	DumpTree   bool
	DumpJSON   bool
}

type SubCompiler interface {
	CompileFile(ctx context.Context, file idl.File, opts CompileOptions) (*nvc.Module, error)
}

func DefaultSubCompilers() map[idl.FileKind]SubCompiler {
	return map[idl.FileKind]SubCompiler{
		idl.FileKindNvc: &SubCompilerNvc{},
	}
}
