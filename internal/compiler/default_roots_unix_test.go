// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package compiler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvc-lang/nvc/internal/exc"
)

func TestGetDefaultRoots(t *testing.T) {
	t.Parallel()

	none := func(string) (string, bool) { return "", false }
	require.Equal(t, []string{"/"}, getDefaultRoots(none))

	empty := func(string) (string, bool) { return "", true }
	require.Equal(t, []string{"/"}, getDefaultRoots(empty))

	set := func(k string) (string, bool) { return "/srv/nvc", k == EnvRoot }
	require.Equal(t, []string{"/srv/nvc"}, getDefaultRoots(set))
}

func TestCompileDefaultFSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.nv"), []byte("let a = 2 ^ 3\n"), 0o644))
	lookup := func(k string) (string, bool) {
		if k == EnvRoot {
			return root, true
		}
		return "", false
	}
	r := exc.NewReporter(nil)
	out := &bytes.Buffer{}
	c, err := New(
		OptionWithLookupEnv(lookup),
		OptionWithWorkingDir("/"),
		OptionWithExcReporter(r),
		OptionWithOutput(out),
	)
	require.NoError(t, err)
	resp, err := c.Compile(context.Background(), &CompileRequest{Files: []string{"/a.nv"}, DumpTree: true})
	require.NoError(t, err)
	require.Len(t, resp.Modules, 1)
	require.Equal(t, "let(a, (2 ^ 3))\n", out.String())
}
