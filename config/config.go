// Package config loads process configuration by layering defaults, an
// optional YAML file and PROSPECT_* environment variables.
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every configuration environment variable.
const EnvPrefix = "PROSPECT_"

// FileEnv names the environment variable holding the YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// Config contains process configuration.
type Config struct {
	// APIBaseURL is the lookup API root.
	APIBaseURL string `koanf:"api_base_url"`

	// DBPath is the configuration store location. A leading "~" expands to
	// the home directory.
	DBPath string `koanf:"db_path"`

	// RenderWait bounds how long a rendered page is polled for content.
	RenderWait time.Duration `koanf:"render_wait"`

	// FetchTimeout bounds a single page load.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// LookupTimeout bounds a single lookup API request.
	LookupTimeout time.Duration `koanf:"lookup_timeout"`

	// LookupRPS limits requests per second toward the lookup API.
	LookupRPS float64 `koanf:"lookup_rps"`

	// CacheTTL is how long the server keeps an extracted profile.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Concurrency bounds parallel profiles in batch mode.
	Concurrency int `koanf:"concurrency"`

	// Addr is the message server listen address.
	Addr string `koanf:"addr"`

	// BrowserProfile is a Chrome user data directory holding a signed-in
	// session. Empty runs Chrome with a fresh profile.
	BrowserProfile string `koanf:"browser_profile"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		APIBaseURL:    "https://api.hunter.io/v2",
		DBPath:        "~/.prospect/prospect.db",
		RenderWait:    9 * time.Second,
		FetchTimeout:  10 * time.Second,
		LookupTimeout: 10 * time.Second,
		LookupRPS:     2,
		CacheTTL:      5 * time.Minute,
		Concurrency:   3,
		Addr:          ":8787",
		LogLevel:      "info",
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if PROSPECT_CONFIG is set
//  3. env (prefix PROSPECT_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// PROSPECT_LOOKUP_RPS -> lookup_rps. Underscores are kept to match the
	// koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.APIBaseURL == "":
		return errors.New("api_base_url must not be empty")
	case c.DBPath == "":
		return errors.New("db_path must not be empty")
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.RenderWait <= 0:
		return errors.New("render_wait must be positive")
	case c.Concurrency <= 0:
		return errors.New("concurrency must be positive")
	}
	return nil
}

// ExpandPath expands a leading "~" in path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
