package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 2333
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/inkstone?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"
)

// Load reads and normalizes the YAML config at path. A missing file yields
// the defaults so a dev instance can boot with zero setup.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}

	e := &cfg.Editing
	if e.NameMaxLen == 0 {
		e.NameMaxLen = 120
	}
	if e.TextMaxLen == 0 {
		e.TextMaxLen = 500_000
	}
	if e.URLMaxLen == 0 {
		e.URLMaxLen = 2048
	}
	if e.TagMaxLen == 0 {
		e.TagMaxLen = 40
	}
	if e.TagsMax == 0 {
		e.TagsMax = 32
	}
	if e.ArgNameMaxLen == 0 {
		e.ArgNameMaxLen = 64
	}
	if e.ConfirmWindowMS == 0 {
		e.ConfirmWindowMS = 3000
	}
	if e.FeedbackWindowMS == 0 {
		e.FeedbackWindowMS = 2000
	}
}
