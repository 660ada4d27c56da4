package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dir", "", "")
	fs.String("format", "", "")
	fs.Bool("pretty", false, "")
	fs.String("log-level", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DIR", "FORMAT", "PRETTY", "LOG_LEVEL", "LOG_FILE", "GLYPHS", "THEME", "MARKDOWN_STYLE", "CONFIRM_DELETE", "DATATYPES"} {
		t.Setenv(EnvPrefix+k, "")
		os.Unsetenv(EnvPrefix + k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultGlyphs, cfg.Glyphs)
	assert.Equal(t, DefaultTheme, cfg.Theme)
	assert.Equal(t, DefaultTheme, cfg.MarkdownStyle)
	assert.True(t, cfg.ConfirmDelete)
	assert.False(t, cfg.Pretty)
	assert.Empty(t, cfg.DataTypes)
	assert.Empty(t, cfg.File)
	assert.Equal(t, filepath.Join(dir, "schemadesk.log"), cfg.LogPath())
}

func TestLoad_WorkspaceFileThenEnvThenFlags(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	body := "format: yaml\nlog_level: debug\nconfirm_delete: false\ndatatypes: [geometry, money]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))

	cfg, err := Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.File)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ConfirmDelete)
	assert.Equal(t, []string{"geometry", "money"}, cfg.DataTypes)

	t.Setenv("SCHEMADESK_FORMAT", "table")
	t.Setenv("SCHEMADESK_DATATYPES", "point, line")
	cfg, err = Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, []string{"point", "line"}, cfg.DataTypes)

	cfg, err = Load("", testFlags(t, "--dir", dir, "--format", "json", "--log-level", "warn"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_UnchangedFlagsDoNotOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("pretty: true\n"), 0o644))

	cfg, err := Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.True(t, cfg.Pretty)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("glyphs: ascii\n"), 0o644))

	cfg, err := Load(path, testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.Equal(t, "ascii", cfg.Glyphs)
	assert.Equal(t, path, cfg.File)

	_, err = Load(filepath.Join(dir, "missing.yaml"), testFlags(t, "--dir", dir))
	assert.ErrorContains(t, err, "error reading config file")
}

func TestLoad_DirFromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("SCHEMADESK_DIR", dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load("", testFlags(t, "--dir", dir, "--format", "edn"))
	assert.ErrorContains(t, err, "unknown format: edn")

	t.Setenv("SCHEMADESK_GLYPHS", "emoji")
	t.Setenv("SCHEMADESK_LOG_LEVEL", "loud")
	_, err = Load("", testFlags(t, "--dir", dir))
	assert.ErrorContains(t, err, "unknown glyphs: emoji")
	assert.ErrorContains(t, err, "unknown log_level: loud")
}

func TestLoad_ThemeFromFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("theme: light\nmarkdown_style: notty\n"), 0o644))

	cfg, err := Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, "notty", cfg.MarkdownStyle)

	t.Setenv("SCHEMADESK_THEME", "dark")
	cfg, err = Load("", testFlags(t, "--dir", dir))
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme)

	t.Setenv("SCHEMADESK_THEME", "sepia")
	_, err = Load("", testFlags(t, "--dir", dir))
	assert.ErrorContains(t, err, "unknown theme: sepia")
}
