// Package config loads the service configuration from a YAML file with
// sane defaults, so `tourforge serve` works without any file at all.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML structure.
type Config struct {
	Addr    string      `yaml:"addr"`
	Store   StoreConf   `yaml:"store"`
	Session SessionConf `yaml:"session"`
}

// StoreConf selects and configures the tree store backend.
type StoreConf struct {
	// Backend is "memory" or "file".
	Backend string `yaml:"backend"`
	// DataDir holds the tree documents when Backend is "file".
	DataDir string `yaml:"data_dir"`
}

// SessionConf selects and configures the session store backend.
type SessionConf struct {
	// Backend is "memory" or "redis".
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConf     `yaml:"redis"`

	// MaskAnswers lists regexes of question IDs whose answers are masked
	// before they are persisted.
	MaskAnswers []string `yaml:"mask_answers"`
	// EncryptionKey enables session encryption at rest: a base64-encoded
	// 32-byte AES key. FallbackKeys are tried on decryption for rotation.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"encryption_fallback_keys"`
}

// RedisConf holds the redis connection settings.
type RedisConf struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Store: StoreConf{
			Backend: "memory",
		},
		Session: SessionConf{
			Backend: "memory",
			Redis: RedisConf{
				Addr: "localhost:6379",
			},
		},
	}
}

// Load reads and validates a config file, applying defaults for absent
// fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func Validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case "memory":
	case "file":
		if cfg.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	switch cfg.Session.Backend {
	case "memory":
	case "redis":
		if cfg.Session.Redis.Addr == "" {
			return fmt.Errorf("session.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	if cfg.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}

	for _, pattern := range cfg.Session.MaskAnswers {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid session.mask_answers pattern %q: %w", pattern, err)
		}
	}
	if cfg.Session.EncryptionKey != "" {
		if _, err := cfg.SessionEncryptionKeys(); err != nil {
			return err
		}
		if _, err := cfg.SessionFallbackKeys(); err != nil {
			return err
		}
	} else if len(cfg.Session.FallbackKeys) > 0 {
		return fmt.Errorf("session.encryption_fallback_keys set without session.encryption_key")
	}
	return nil
}

// SessionEncryptionKeys decodes the configured active and fallback keys.
func (c *Config) SessionEncryptionKeys() (active []byte, err error) {
	active, err = decodeKey(c.Session.EncryptionKey, "session.encryption_key")
	if err != nil {
		return nil, err
	}
	return active, nil
}

// SessionFallbackKeys decodes the rotation fallback keys.
func (c *Config) SessionFallbackKeys() ([][]byte, error) {
	keys := make([][]byte, 0, len(c.Session.FallbackKeys))
	for _, raw := range c.Session.FallbackKeys {
		key, err := decodeKey(raw, "session.encryption_fallback_keys")
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func decodeKey(raw, field string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", field, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s must decode to 32 bytes, got %d", field, len(key))
	}
	return key, nil
}
