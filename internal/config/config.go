// Package config loads schemadesk configuration.
//
// Precedence (highest to lowest): changed flags > SCHEMADESK_* env vars >
// config file > defaults. The config file is --config when given, otherwise
// schemadesk.yaml inside the workspace directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schemadesk/internal/store"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "SCHEMADESK_"
	FileName  = "schemadesk.yaml"

	DefaultFormat   = "json"
	DefaultLogLevel = "info"
	DefaultGlyphs   = "unicode"
	DefaultTheme    = "auto"
)

type Config struct {
	Dir           string   `koanf:"dir"`
	Format        string   `koanf:"format"`
	Pretty        bool     `koanf:"pretty"`
	LogLevel      string   `koanf:"log_level"`
	LogFile       string   `koanf:"log_file"`
	Glyphs        string   `koanf:"glyphs"`
	Theme         string   `koanf:"theme"`
	MarkdownStyle string   `koanf:"markdown_style"`
	ConfirmDelete bool     `koanf:"confirm_delete"`
	DataTypes     []string `koanf:"datatypes"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// LogPath returns the configured log file, defaulting to schemadesk.log in the workspace.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile
	}
	return filepath.Join(c.Dir, "schemadesk.log")
}

func defaults() map[string]any {
	return map[string]any{
		"format":         DefaultFormat,
		"pretty":         false,
		"log_level":      DefaultLogLevel,
		"log_file":       "",
		"glyphs":         DefaultGlyphs,
		"theme":          DefaultTheme,
		"markdown_style": DefaultTheme,
		"confirm_delete": true,
		"datatypes":      []string{},
	}
}

// flagKey maps cobra-style flag names onto config keys (log-level -> log_level).
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Load resolves the workspace dir and loads configuration. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	dir, err := resolveDir(flags)
	if err != nil {
		return nil, err
	}

	if cfgFile == "" {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfgFile = candidate
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = envKey(key)
		if key == "datatypes" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// The resolved dir wins over a "dir" key in the config file: the file was found through it.
	cfg.Dir = dir
	cfg.File = cfgFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveDir(flags *pflag.FlagSet) (string, error) {
	if flags != nil {
		if f := flags.Lookup("dir"); f != nil && f.Changed && strings.TrimSpace(f.Value.String()) != "" {
			return filepath.Abs(f.Value.String())
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "DIR")); v != "" {
		return filepath.Abs(v)
	}
	return store.DefaultDir()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Format {
	case "json", "yaml", "table":
	default:
		errs = append(errs, fmt.Errorf("unknown format: %s (want json|yaml|table)", c.Format))
	}
	switch c.Glyphs {
	case "unicode", "ascii":
	default:
		errs = append(errs, fmt.Errorf("unknown glyphs: %s (want unicode|ascii)", c.Glyphs))
	}
	switch c.Theme {
	case "auto", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("unknown theme: %s (want auto|light|dark)", c.Theme))
	}
	switch c.MarkdownStyle {
	case "auto", "light", "dark", "notty", "ascii":
	default:
		errs = append(errs, fmt.Errorf("unknown markdown_style: %s (want auto|light|dark|notty|ascii)", c.MarkdownStyle))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level: %s (want debug|info|warn|error)", c.LogLevel))
	}
	return errors.Join(errs...)
}
