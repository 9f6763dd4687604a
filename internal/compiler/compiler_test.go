// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	iofs "io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/fs"
)

func newTestCompiler(t *testing.T, files map[string]string, opts ...Option) (Compiler, exc.Reporter, *bytes.Buffer) {
	t.Helper()
	tree := fstest.MapFS{}
	for name, content := range files {
		tree[name] = &fstest.MapFile{Data: []byte(content)}
	}
	local, err := fs.NewFileSystemLocal("/", fs.WithOptionFSFactory(func(string) iofs.FS {
		return tree
	}))
	require.NoError(t, err)
	r := exc.NewReporter(nil)
	out := &bytes.Buffer{}
	base := []Option{
		OptionWithFS(local),
		OptionWithWorkingDir("/"),
		OptionWithExcReporter(r),
		OptionWithOutput(out),
		OptionWithMaxConcurrency(2),
	}
	c, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return c, r, out
}

func TestCompile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, r, out := newTestCompiler(t, map[string]string{
		"a.nv": "let x = 1 + 2\n",
		"b.nv": "fun f() -> ()\n",
	})
	resp, err := c.Compile(ctx, &CompileRequest{Files: []string{"a.nv", "b.nv"}, DumpTree: true})
	require.NoError(t, err)
	require.Empty(t, r.Reported())
	require.Len(t, resp.Modules, 2)
	require.Equal(t, "a.nv", resp.Modules[0].Name)
	require.Equal(t, "b.nv", resp.Modules[1].Name)
	require.Contains(t, out.String(), "let(x, (1 + 2))\n")
	require.Contains(t, out.String(), "fun f() -> ()\n")
}

func TestCompileDumpTokens(t *testing.T) {
	t.Parallel()

	c, _, out := newTestCompiler(t, map[string]string{"a.nv": "let a = 1\n"})
	_, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"/a.nv"}, DumpTokens: true})
	require.NoError(t, err)
	require.Equal(t, "symbol(let)\nsymbol(a)\nop(=)\nint(1)\neof\n", out.String())
}

func TestCompileDumpJSON(t *testing.T) {
	t.Parallel()

	c, _, out := newTestCompiler(t, map[string]string{"a.nv": "let a = 1\n"})
	_, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"a.nv"}, DumpJSON: true})
	require.NoError(t, err)
	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, "a.nv", decoded["name"])
}

func TestCompileDirectory(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCompiler(t, map[string]string{
		"one.nv":    "1\n",
		"two.nvc":   "2\n",
		"notes.txt": "not source",
	})
	resp, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"/", "one.nv"}})
	require.NoError(t, err)
	require.Len(t, resp.Modules, 2)
}

func TestCompileFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c, r, _ := newTestCompiler(t, map[string]string{
		"good.nv": "let x = 1\n",
		"bad.nv":  "let x = 'oops\n",
	})
	resp, err := c.Compile(ctx, &CompileRequest{Files: []string{"good.nv", "bad.nv"}})
	require.Error(t, err)
	require.True(t, exc.Is(err, exc.CodeMultilineString))
	require.Len(t, resp.Modules, 1)
	require.Equal(t, "good.nv", resp.Modules[0].Name)

	reported := r.Reported()
	require.Len(t, reported, 1)
	require.Equal(t, "bad.nv", reported[0].Location().Name)
	require.Equal(t, 13, reported[0].Location().Column)
}

func TestCompileMissingFile(t *testing.T) {
	t.Parallel()

	c, r, _ := newTestCompiler(t, nil)
	resp, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"missing.nv"}})
	require.Nil(t, resp)
	require.True(t, exc.Is(err, exc.CodeFileNotFound))
	require.Len(t, r.Reported(), 1)
	require.Equal(t, "missing.nv", r.Reported()[0].Location().Name)
}

func TestCompileParserOptions(t *testing.T) {
	t.Parallel()

	files := map[string]string{"t.nv": "type T(x: Int,)\n"}
	c, _, _ := newTestCompiler(t, files, OptionWithParserOptions(nvc.ParserOptions{AllowTrailingComma: false}))
	_, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"t.nv"}})
	require.True(t, exc.Is(err, exc.CodeUnexpectedToken))

	c, _, _ = newTestCompiler(t, files)
	_, err = c.Compile(context.Background(), &CompileRequest{Files: []string{"t.nv"}})
	require.NoError(t, err)
}

func TestSemaphoreCanceled(t *testing.T) {
	t.Parallel()

	s := newSemaphore(1)
	require.NoError(t, s.Acquire(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Acquire(ctx), context.Canceled)
	s.Release()
	require.NoError(t, s.Acquire(context.Background()))
}
