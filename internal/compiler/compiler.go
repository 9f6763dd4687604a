// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
	"github.com/nvc-lang/nvc/internal/target"
)

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files      []string
	DumpTokens bool
	DumpTree   bool
	DumpJSON   bool
}

type CompileResponse struct {
	// Modules holds one entry per successfully parsed file, in the order
	// the files were named.
	Modules []*nvc.Module
}

type Option func(c *compiler) error

func OptionWithFS(fs idl.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(logger *slog.Logger) Option {
	return func(c *compiler) error {
		c.Logger = logger
		return nil
	}
}

func OptionWithParserOptions(options nvc.ParserOptions) Option {
	return func(c *compiler) error {
		c.ParserOptions = options
		return nil
	}
}

// OptionWithOutput sets the destination of token and tree dumps.
func OptionWithOutput(w io.Writer) Option {
	return func(c *compiler) error {
		c.Output = w
		return nil
	}
}

// OptionWithWorkingDir sets the directory that relative targets are resolved
// against and that file names in diagnostics are shown relative to.
func OptionWithWorkingDir(dir string) Option {
	return func(c *compiler) error {
		c.WorkingDir = dir
		return nil
	}
}

func OptionWithMaxConcurrency(max int) Option {
	return func(c *compiler) error {
		c.MaxConcurrency = max
		return nil
	}
}

func New(opts ...Option) (Compiler, error) {
	c := &compiler{
		ParserOptions: nvc.DefaultParserOptions(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, exc.WrapUnknown(idl.Location{Name: "."}, err)
		}
		c.WorkingDir = wd
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	c.Output = &lockedWriter{w: c.Output}
	if c.SubCompilers == nil {
		c.SubCompilers = DefaultSubCompilers()
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             idl.FileSystem
	WorkingDir     string
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
	Logger         *slog.Logger
	Output         io.Writer
	ParserOptions  nvc.ParserOptions
	SubCompilers   map[idl.FileKind]SubCompiler
}

func (self *compiler) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	logger := self.Logger.With(slog.String("run", uuid.NewString()))
	logger.Debug("compile started", slog.Int("targets", len(req.Files)))

	files := make([]idl.File, 0, len(req.Files))
	seen := make(map[string]bool, len(req.Files))
	for _, f := range req.Files {
		in, err := self.FS.Open(ctx, target.Normalize(f, self.WorkingDir))
		if err != nil {
			e := exc.Wrap(idl.Location{Name: f}, codeOf(err), err)
			_ = self.Reporter.Report(e)
			return nil, exc.MultiException(self.Reporter.Reported())
		}
		for _, inf := range in {
			if inf.Kind(ctx) == idl.FileKindNone {
				continue
			}
			name := target.Display(inf.Path(ctx), self.WorkingDir)
			if seen[name] {
				continue
			}
			seen[name] = true
			files = append(files, &namedFile{File: inf, name: name})
		}
	}
	logger.Debug("files opened", slog.Int("files", len(files)))

	results := make(chan fileResult, len(files))
	for offset, file := range files {
		go func(offset int, file idl.File) {
			mod, err := self.compileFile(ctx, logger, file, req)
			results <- fileResult{offset: offset, module: mod, err: err}
		}(offset, file)
	}

	ordered := make([]*nvc.Module, len(files))
	var firstErr error
	for x := 0; x < len(files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil && firstErr == nil {
				firstErr = result.err
			}
			ordered[result.offset] = result.module
		}
	}

	modules := make([]*nvc.Module, 0, len(ordered))
	for _, mod := range ordered {
		if mod != nil {
			modules = append(modules, mod)
		}
	}
	resp := &CompileResponse{Modules: modules}
	if caught := self.Reporter.Reported(); len(caught) > 0 {
		logger.Debug("compile failed", slog.Int("errors", len(caught)))
		return resp, exc.MultiException(caught)
	}
	if firstErr != nil {
		return resp, firstErr
	}
	logger.Debug("compile finished", slog.Int("modules", len(modules)))
	return resp, nil
}

func (self *compiler) compileFile(ctx context.Context, logger *slog.Logger, file idl.File, req *CompileRequest) (*nvc.Module, error) {
	if err := self.Semaphore.Acquire(ctx); err != nil {
		return nil, err
	}
	defer self.Semaphore.Release()
	path := file.Path(ctx)
	sc := self.SubCompilers[file.Kind(ctx)]
	if sc == nil {
		e := exc.New(idl.Location{Name: path}, exc.CodeUnknownFatal, "Unsupported file format")
		_ = self.Reporter.Report(e)
		return nil, e
	}
	return sc.CompileFile(ctx, file, CompileOptions{
		Reporter:   self.Reporter,
		Logger:     logger.With(slog.String("file", path)),
		Output:     self.Output,
		Parser:     self.ParserOptions,
		DumpTokens: req.DumpTokens,
		DumpTree:   req.DumpTree,
		DumpJSON:   req.DumpJSON,
	})
}

type fileResult struct {
	offset int
	module *nvc.Module
	err    error
}

// namedFile overrides the path of a file with the name shown to users.
type namedFile struct {
	idl.File
	name string
}

func (self *namedFile) Path(ctx context.Context) string {
	return self.name
}

type lockedWriter struct {
	lock sync.Mutex
	w    io.Writer
}

func (self *lockedWriter) Write(p []byte) (int, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.w.Write(p)
}

func codeOf(err error) string {
	if e, ok := err.(exc.Exception); ok {
		return e.Code()
	}
	return exc.CodeUnknownFatal
}
