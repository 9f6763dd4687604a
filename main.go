package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nvc-lang/nvc/internal/compiler"
	"github.com/nvc-lang/nvc/internal/compiler/nvc"
	"github.com/nvc-lang/nvc/internal/config"
	"github.com/nvc-lang/nvc/internal/diag"
	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/repl"
)

type opts struct {
	ConfigPath string
	Color      bool
	LogLevel   string
	DumpTokens bool
	DumpTree   bool
	DumpJSON   bool
}

type env struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	code := run(ctx, os.Args[1:], env{stdout: os.Stdout, stderr: os.Stderr, lookupEnv: os.LookupEnv})
	cancel()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, e env) int {
	cmd := newRootCommand(e)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Exceptions collected during a compile were already printed by the
		// diagnostic printer as they were reported.
		var me exc.MultiException
		if !errors.As(err, &me) {
			fmt.Fprintln(e.stderr, err.Error())
		}
		return 1
	}
	return 0
}

func newRootCommand(e env) *cobra.Command {
	op := &opts{}
	root := &cobra.Command{
		Use:           "nvc [flags] FILE...",
		Short:         "Tokenize and parse nvc source files",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := op.load(cmd.Flags(), e)
			if err != nil {
				return err
			}
			c, err := compiler.New(
				compiler.OptionWithLookupEnv(e.lookupEnv),
				compiler.OptionWithExcReporter(diag.NewPrinter(e.stderr, diag.WithColor(cfg.Diagnostics.Color))),
				compiler.OptionWithLogger(logger),
				compiler.OptionWithParserOptions(parserOptions(cfg)),
				compiler.OptionWithOutput(e.stdout),
			)
			if err != nil {
				return err
			}
			_, err = c.Compile(cmd.Context(), &compiler.CompileRequest{
				Files:      args,
				DumpTokens: op.DumpTokens,
				DumpTree:   op.DumpTree,
				DumpJSON:   op.DumpJSON,
			})
			return err
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	persistent := root.PersistentFlags()
	persistent.StringVar(&op.ConfigPath, "config", "", "Path to a TOML or YAML config file. Defaults to $"+config.EnvConfigPath+".")
	persistent.BoolVar(&op.Color, "color", false, "Style diagnostics when writing to a terminal.")
	persistent.StringVar(&op.LogLevel, "log-level", "", "Log level: debug, info, warn or error.")

	flags := root.Flags()
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream of each file.")
	flags.BoolVar(&op.DumpTree, "dump-tree", false, "Output the parse tree of each file.")
	flags.BoolVar(&op.DumpJSON, "dump-json", false, "Output the parse tree of each file as JSON.")

	root.AddCommand(newReplCommand(op, e))
	return root
}

func newReplCommand(op *opts, e env) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse expressions and declarations interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := op.load(cmd.Flags(), e)
			if err != nil {
				return err
			}
			term := repl.OpenTerminal(historyPath())
			defer term.Close()
			r := repl.New(term, e.stdout, e.stderr,
				repl.WithParserOptions(parserOptions(cfg)),
				repl.WithColor(cfg.Diagnostics.Color),
			)
			return r.Run(cmd.Context())
		},
	}
}

// load reads the config file and applies any flags that were set on the
// command line over it.
func (op *opts) load(flags *pflag.FlagSet, e env) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Resolve(op.ConfigPath, e.lookupEnv))
	if err != nil {
		return nil, nil, err
	}
	if flags.Changed("color") {
		cfg.Diagnostics.Color = op.Color
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = op.LogLevel
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	logger := slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

func parserOptions(cfg *config.Config) nvc.ParserOptions {
	options := nvc.DefaultParserOptions()
	options.AllowTrailingComma = cfg.Parser.AllowTrailingComma
	return options
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nvc_history")
}
