package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cardpolicy/internal/compiler"
	"github.com/roach88/cardpolicy/internal/source"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardpolicy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, compiler.DefaultOptions(), cfg.CompilerOptions())
}

func TestLoad_EmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
layout:
  action_header: Operation
tokens:
  positive: TAK
  negative: NIE
strict: false
log_level: debug
source:
  path: tables/actions.csv
  db: /var/lib/cardpolicy.db
  delimiter: tab
  encoding: windows-1252
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Operation", cfg.Layout.ActionHeader)
	assert.Equal(t, "PREPAID", cfg.Layout.CardTypeAnchor, "unset fields keep defaults")
	assert.Equal(t, "TAK", cfg.Tokens.Positive)
	assert.Equal(t, "only if PIN is set", cfg.Tokens.PinSetQualifier)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tables", "actions.csv"), cfg.Source.Path)
	assert.Equal(t, "/var/lib/cardpolicy.db", cfg.Source.DB)

	assert.Equal(t, source.FileOptions{Delimiter: '\t', Encoding: source.EncodingWindows1252}, cfg.FileOptions())
	assert.False(t, cfg.CompilerOptions().Strict)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "strcit: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strcit")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty anchor", func(c *Config) { c.Layout.CardStatusAnchor = " " }, "layout.card_status_anchor"},
		{"empty token", func(c *Config) { c.Tokens.Negative = "" }, "tokens.negative"},
		{"same tokens", func(c *Config) { c.Tokens.Negative = "yes" }, "must differ"},
		{"same qualifiers", func(c *Config) { c.Tokens.PinNotSetQualifier = c.Tokens.PinSetQualifier }, "must differ"},
		{"bad delimiter", func(c *Config) { c.Source.Delimiter = "#" }, "source.delimiter"},
		{"bad encoding", func(c *Config) { c.Source.Encoding = "koi8" }, "source.encoding"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.NoError(t, Default().Validate())
}
