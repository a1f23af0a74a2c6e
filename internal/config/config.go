// Package config loads cardpolicy settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/source"
)

// Config represents the cardpolicy configuration.
type Config struct {
	Layout   compiler.Layout `yaml:"layout"`
	Tokens   compiler.Tokens `yaml:"tokens"`
	Source   SourceConfig    `yaml:"source"`
	Strict   bool            `yaml:"strict"`
	LogLevel string          `yaml:"log_level"`
}

// SourceConfig selects where the decision table is read from.
type SourceConfig struct {
	// Path is a table file (.csv, .tsv, .txt or .cue).
	Path string `yaml:"path"`

	// DB is a snapshot store; used when Path is empty.
	DB string `yaml:"db"`

	// Snapshot selects a stored snapshot; empty means the latest.
	Snapshot string `yaml:"snapshot"`

	// Delimiter for delimited files: ";", ",", "tab", "|" or "auto".
	Delimiter string `yaml:"delimiter"`

	// Encoding for delimited files: "auto", "utf-8", "utf-16" or "windows-1252".
	Encoding string `yaml:"encoding"`
}

// Default returns a config with the canonical layout and tokens.
func Default() *Config {
	return &Config{
		Layout:   compiler.DefaultLayout(),
		Tokens:   compiler.DefaultTokens(),
		Source:   SourceConfig{Delimiter: "auto", Encoding: "auto"},
		Strict:   true,
		LogLevel: "warn",
	}
}

// Load reads the config at path over the defaults. An empty path returns
// the defaults. Unknown fields are rejected. Relative source paths are
// resolved against the config file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Source.Path = resolve(dir, cfg.Source.Path)
	cfg.Source.DB = resolve(dir, cfg.Source.DB)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		field string
		value string
	}{
		{"layout.action_header", c.Layout.ActionHeader},
		{"layout.card_type_anchor", c.Layout.CardTypeAnchor},
		{"layout.card_status_anchor", c.Layout.CardStatusAnchor},
		{"tokens.positive", c.Tokens.Positive},
		{"tokens.negative", c.Tokens.Negative},
		{"tokens.pin_set_qualifier", c.Tokens.PinSetQualifier},
		{"tokens.pin_not_set_qualifier", c.Tokens.PinNotSetQualifier},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.field))
		}
	}

	if strings.EqualFold(strings.TrimSpace(c.Tokens.Positive), strings.TrimSpace(c.Tokens.Negative)) {
		errs = append(errs, fmt.Errorf("tokens.positive and tokens.negative must differ"))
	}
	if strings.EqualFold(strings.TrimSpace(c.Tokens.PinSetQualifier), strings.TrimSpace(c.Tokens.PinNotSetQualifier)) {
		errs = append(errs, fmt.Errorf("tokens.pin_set_qualifier and tokens.pin_not_set_qualifier must differ"))
	}

	if _, err := source.ParseDelimiter(c.Source.Delimiter); err != nil {
		errs = append(errs, fmt.Errorf("source.delimiter: %w", err))
	}
	if _, err := source.ParseEncoding(c.Source.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("source.encoding: %w", err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// CompilerOptions converts the config to compiler options.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		Layout: c.Layout,
		Tokens: c.Tokens,
		Strict: c.Strict,
	}
}

// FileOptions converts the source settings to file reading options.
// Call Validate first; invalid settings fall back to auto-detection.
func (c *Config) FileOptions() source.FileOptions {
	delim, _ := source.ParseDelimiter(c.Source.Delimiter)
	enc, err := source.ParseEncoding(c.Source.Encoding)
	if err != nil {
		enc = source.EncodingAuto
	}
	return source.FileOptions{Delimiter: delim, Encoding: enc}
}
