// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package repl implements an interactive loop that parses each entry and
// prints its tree.
package repl

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/diag"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/fs"
	"github.com/nvc-lang/nvc/internal/idl"
	"github.com/nvc-lang/nvc/internal/iter"
)

const (
	promptMain = "nvc> "
	promptCont = "...> "
	sourceName = "<repl>"
	quit       = ":quit"
)

// Prompter reads one line of input at a time. *Terminal satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type Option func(*REPL)

func WithParserOptions(options nvc.ParserOptions) Option {
	return func(r *REPL) {
		r.parser = options
	}
}

func WithColor(enabled bool) Option {
	return func(r *REPL) {
		r.color = enabled
	}
}

type REPL struct {
	in     Prompter
	out    io.Writer
	errOut io.Writer
	parser nvc.ParserOptions
	color  bool
}

func New(in Prompter, out io.Writer, errOut io.Writer, opts ...Option) *REPL {
	r := &REPL{
		in:     in,
		out:    out,
		errOut: errOut,
		parser: nvc.DefaultParserOptions(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads entries until end of input or :quit.
func (self *REPL) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, ok := self.read(ctx)
		if !ok {
			return nil
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == quit {
			return nil
		}
		self.eval(ctx, src)
		self.in.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}
}

// read collects lines until the parentheses opened so far are closed or the
// input no longer tokenizes.
func (self *REPL) read(ctx context.Context) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := self.in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if !unclosed(ctx, src) {
			return src, true
		}
	}
}

// tokens reads src through the same file path the compiler uses.
func tokens(ctx context.Context, reporter exc.Reporter, src string) (*idl.TokenStream, error) {
	lf, err := nvc.NewLexerNvc(reporter).Lex(ctx, fs.NewFileString(sourceName, src, idl.FileKindNvc))
	if err != nil {
		return nil, err
	}
	return lf.Tokens(ctx)
}

func isParen(ctx context.Context, tok idl.Token) bool {
	return tok.IsOperator(idl.OperatorLParen) || tok.IsOperator(idl.OperatorRParen)
}

func unclosed(ctx context.Context, src string) bool {
	stream, err := tokens(ctx, exc.NewReporter(nil), src)
	if err != nil {
		return false
	}
	parens, err := iter.Collect(ctx, iter.NewIteratorFilter(iter.NewSlice(stream.Tokens), iter.FilterFunc[idl.Token](isParen)))
	if err != nil {
		return false
	}
	depth := 0
	for _, tok := range parens {
		if tok.IsOperator(idl.OperatorLParen) {
			depth = depth + 1
		} else {
			depth = depth - 1
		}
	}
	return depth > 0
}

func (self *REPL) eval(ctx context.Context, src string) {
	printer := diag.NewPrinter(self.errOut, diag.WithColor(self.color))
	stream, err := tokens(ctx, printer, src)
	if err != nil {
		return
	}
	mod, err := nvc.NewParserNvc(printer, self.parser).ParseStream(ctx, stream)
	if err != nil {
		return
	}
	_, _ = io.WriteString(self.out, nvc.FormatModule(mod))
}
