// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads compiler settings from a TOML or YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

// EnvConfigPath names the environment variable consulted when no path is
// given explicitly.
const EnvConfigPath = "NVC_CONFIG"

// Format is the encoding of a configuration file.
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

type Config struct {
	Parser      ParserConfig      `toml:"parser" yaml:"parser"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics" yaml:"diagnostics"`
	Log         LogConfig         `toml:"log" yaml:"log"`
}

type ParserConfig struct {
	AllowTrailingComma bool `toml:"allow_trailing_comma" yaml:"allow_trailing_comma"`
}

type DiagnosticsConfig struct {
	Color bool `toml:"color" yaml:"color"`
}

type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the settings used when no file is present. Keys missing
// from a file keep these values.
func Default() *Config {
	return &Config{
		Parser:      ParserConfig{AllowTrailingComma: true},
		Diagnostics: DiagnosticsConfig{Color: false},
		Log:         LogConfig{Level: "warn"},
	}
}

// SlogLevel parses the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelWarn, err
	}
	return level, nil
}

// Resolve picks the configuration path: explicit when non-empty, otherwise
// the NVC_CONFIG variable. An empty result means no file is used.
func Resolve(explicit string, lookup func(string) (string, bool)) string {
	if explicit != "" {
		return explicit
	}
	if lookup == nil {
		return ""
	}
	if v, ok := lookup(EnvConfigPath); ok {
		return v
	}
	return ""
}

// Load reads the file at path. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		code := exc.CodeInvalidConfig
		switch {
		case os.IsNotExist(err):
			code = exc.CodeFileNotFound
		case os.IsPermission(err):
			code = exc.CodePermissionDenied
		}
		return nil, exc.Wrap(idl.Location{Name: path}, code, err)
	}
	cfg, err := Parse(content, DetectFormat(path))
	if err != nil {
		return nil, exc.Wrap(idl.Location{Name: path}, exc.CodeInvalidConfig, err)
	}
	return cfg, nil
}

// Parse decodes content over Default() and validates the result.
func Parse(content []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
		}
	}
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return nil, fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}
	return cfg, nil
}

// DetectFormat determines the configuration format from the file extension.
// Anything that is not YAML is read as TOML.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
