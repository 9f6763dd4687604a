package compiler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

type SubCompilerNvc struct{}

func (self *SubCompilerNvc) CompileFile(ctx context.Context, file idl.File, opts CompileOptions) (*nvc.Module, error) {
	lexer := nvc.NewLexerNvc(opts.Reporter)
	parser := nvc.NewParserNvc(opts.Reporter, opts.Parser)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	stream, err := lf.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("tokenized", slog.Int("tokens", stream.Len()))

	// Dumps for one file are collected and written at once so that output
	// from files compiled in parallel does not interleave.
	var dump strings.Builder
	defer func() {
		if dump.Len() > 0 {
			_, _ = io.WriteString(opts.Output, dump.String())
		}
	}()
	if opts.DumpTokens {
		for _, tok := range stream.Tokens {
			dump.WriteString(tok.String())
			dump.WriteByte('\n')
		}
	}
	mod, err := parser.ParseStream(ctx, stream)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("parsed", slog.Int("nodes", nvc.CountNodes(mod)))
	if opts.DumpTree {
		dump.WriteString(nvc.FormatModule(mod))
	}
	if opts.DumpJSON {
		raw, err := nvc.MarshalModuleJSON(mod)
		if err != nil {
			e := exc.WrapUnknown(idl.Location{Name: mod.Name}, err)
			_ = opts.Reporter.Report(e)
			return nil, e
		}
		dump.Write(raw)
		dump.WriteByte('\n')
	}
	return mod, nil
}
