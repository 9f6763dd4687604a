package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvc-lang/nvc/internal/config"
)

func writeFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func runArgs(args []string, vars map[string]string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, env{
		stdout: &stdout,
		stderr: &stderr,
		lookupEnv: func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		},
	})
	return code, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.nv", "let x = 1 + 2 * 3\n")
	bad := writeFile(t, dir, "bad.nv", "let s = 'abc")
	split := writeFile(t, dir, "split.nv", "let s = 'abc\n'\n")
	trailing := writeFile(t, dir, "trailing.nv", "type T(x: Int,)\n")
	strict := writeFile(t, dir, "strict.toml", "[parser]\nallow_trailing_comma = false\n")
	broken := writeFile(t, dir, "broken.toml", "[parser]\nunknown = 1\n")

	testCases := []struct {
		name   string
		args   []string
		vars   map[string]string
		code   int
		stdout string
		stderr string
	}{
		{name: "success", args: []string{good}, code: 0},
		{name: "dump tree", args: []string{"--dump-tree", good}, code: 0, stdout: "let(x, (1 + (2 * 3)))\n"},
		{name: "dump tokens", args: []string{"--dump-tokens", good}, code: 0, stdout: "symbol(let)\nsymbol(x)\nop(=)\nint(1)\nop(+)\nint(2)\nop(*)\nint(3)\neof\n"},
		{name: "dump json", args: []string{"--dump-json", good}, code: 0, stdout: `"kind"`},
		{name: "lexical error", args: []string{bad}, code: 1, stderr: "Unterminated string"},
		{name: "multiline string", args: []string{split}, code: 1, stderr: "Multiline strings are not supported"},
		{name: "missing file", args: []string{filepath.Join(dir, "missing.nv")}, code: 1, stderr: "missing.nv"},
		{name: "no files", args: nil, code: 1, stderr: "requires at least 1 arg"},
		{name: "unknown flag", args: []string{"--nope", good}, code: 1, stderr: "unknown flag"},
		{name: "trailing comma allowed", args: []string{trailing}, code: 0},
		{name: "config flag", args: []string{"--config", strict, trailing}, code: 1, stderr: "Trailing comma is not allowed"},
		{name: "config env", args: []string{trailing}, vars: map[string]string{config.EnvConfigPath: strict}, code: 1, stderr: "Trailing comma is not allowed"},
		{name: "broken config", args: []string{"--config", broken, good}, code: 1, stderr: "unknown config key"},
		{name: "bad log level", args: []string{"--log-level", "loud", good}, code: 1, stderr: "invalid log level"},
		{name: "debug logging", args: []string{"--log-level", "debug", good}, code: 0, stderr: "compile started"},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			code, stdout, stderr := runArgs(testCase.args, testCase.vars)
			require.Equal(t, testCase.code, code, stderr)
			require.Contains(t, stdout, testCase.stdout)
			require.Contains(t, stderr, testCase.stderr)
		})
	}
}
