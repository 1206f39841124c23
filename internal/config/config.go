// Package config loads application configuration from defaults, an optional
// TOML file and REVIEWDECK_* environment variables, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix is the prefix of every environment variable Load reads.
const EnvPrefix = "REVIEWDECK_"

// ProductionBasePath is the base path used in production unless base_path is set.
const ProductionBasePath = "/v2-public"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the application configuration.
type Config struct {
	Env           string
	BasePath      string
	ListenAddr    string
	DBPath        string
	FixturesPath  string // Empty selects the embedded fixtures.
	LogLevel      string
	LogFile       string
	ViewTTL       time.Duration
	SweepInterval time.Duration
	RepoFullName  string
}

// IsProduction reports whether Env is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func defaults() map[string]any {
	return map[string]any{
		"env":            EnvDevelopment,
		"listen_addr":    "127.0.0.1:8080",
		"db_path":        "reviewdeck.db",
		"fixtures_path":  "",
		"log_level":      "info",
		"log_file":       "",
		"view_ttl":       "30m",
		"sweep_interval": "1m",
		"repo_full_name": "SonarSource/asast-scanner-pipeline",
	}
}

// Load reads and validates the configuration. configPath may be empty.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{
		Env:          k.String("env"),
		ListenAddr:   k.String("listen_addr"),
		DBPath:       k.String("db_path"),
		FixturesPath: k.String("fixtures_path"),
		LogLevel:     k.String("log_level"),
		LogFile:      k.String("log_file"),
		RepoFullName: k.String("repo_full_name"),
	}

	switch cfg.Env {
	case EnvDevelopment:
	case EnvProduction:
		cfg.BasePath = ProductionBasePath
	default:
		return nil, fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}

	if k.Exists("base_path") {
		cfg.BasePath, err = normalizeBasePath(k.String("base_path"))
		if err != nil {
			return nil, err
		}
	}

	if cfg.ViewTTL, err = parseDuration(k, "view_ttl"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = parseDuration(k, "sweep_interval"); err != nil {
		return nil, err
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("log_level %q: %w", cfg.LogLevel, err)
	}

	return cfg, nil
}

func parseDuration(k *koanf.Koanf, key string) (time.Duration, error) {
	v := k.String(key)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// normalizeBasePath accepts "", "/" or "/prefix[/]" and returns "" or "/prefix".
func normalizeBasePath(p string) (string, error) {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p == "" {
		return "", nil
	}
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("base_path must start with /, got %q", p)
	}
	return p, nil
}
