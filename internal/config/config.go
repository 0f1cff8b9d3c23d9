// Package config assembles the runtime configuration from defaults, an
// optional YAML file, an optional .env file, and environment variables. The
// result is an explicit value passed into the shell and clients; there are no
// process-wide mutable settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "expertree.yaml"

// Config holds everything the session shell and clients need.
type Config struct {
	// Host is the Ollama base URL.
	Host string `yaml:"host"`
	// Model is the preferred model name; empty means prompt interactively.
	Model string `yaml:"model"`

	TemplatesDir string `yaml:"templates_dir"`
	HistoryDir   string `yaml:"history_dir"`

	// TimeoutSeconds bounds one inference call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Retries is how many times a failed generate is retried before the
	// client falls back to its degraded reply.
	Retries int `yaml:"retries"`

	NoColor bool `yaml:"no_color"`
	Debug   bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:           "http://localhost:11434",
		TemplatesDir:   "templates",
		HistoryDir:     "conversation_history",
		TimeoutSeconds: 60,
		Retries:        2,
	}
}

// Load layers file, .env, and environment values over the defaults.
// A missing config file is fine unless the path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is the common case.
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	// .env is best-effort; godotenv does not override existing env vars.
	_ = godotenv.Load()

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("EXPERTREE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("EXPERTREE_TEMPLATES_DIR"); v != "" {
		cfg.TemplatesDir = v
	}
	if v := os.Getenv("EXPERTREE_HISTORY_DIR"); v != "" {
		cfg.HistoryDir = v
	}
	if v := os.Getenv("EXPERTREE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Retries = n
		}
	}
	// NO_COLOR per convention: presence disables, regardless of value.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		cfg.NoColor = true
	}
}
