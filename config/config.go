// Package config resolves the service configuration from defaults, an
// optional YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"affine-cipher-backend/crypto"

	"gopkg.in/yaml.v3"
)

// Config captures the resolved service configuration.
type Config struct {
	Port           string       `yaml:"port"`
	AllowedOrigins []string     `yaml:"allowed_origins"`
	LogLevel       string       `yaml:"log_level"`
	MaxUploadBytes int64        `yaml:"max_upload_bytes"`
	Cipher         CipherConfig `yaml:"cipher"`
}

// CipherConfig holds the block parameters used when a request does not name
// its own.
type CipherConfig struct {
	BlockSize  int `yaml:"block_size"`
	DigitWidth int `yaml:"digit_width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       "info",
		MaxUploadBytes: 32 << 20,
		Cipher: CipherConfig{
			BlockSize:  crypto.DefaultBlockSize,
			DigitWidth: crypto.DefaultDigitWidth,
		},
	}
}

// Load resolves the configuration. The file at path (or at $AFFINE_CONFIG when
// path is empty) overrides the defaults, and environment variables override
// the file. A missing file is only an error when a path was given.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("AFFINE_CONFIG"))
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := applyFileConfig(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	Port           *string           `yaml:"port"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	LogLevel       *string           `yaml:"log_level"`
	MaxUploadBytes *int64            `yaml:"max_upload_bytes"`
	Cipher         *fileCipherConfig `yaml:"cipher"`
}

type fileCipherConfig struct {
	BlockSize  *int `yaml:"block_size"`
	DigitWidth *int `yaml:"digit_width"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Port != nil {
		cfg.Port = strings.TrimSpace(*fc.Port)
	}
	if fc.AllowedOrigins != nil {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	if fc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.Cipher != nil {
		if fc.Cipher.BlockSize != nil {
			cfg.Cipher.BlockSize = *fc.Cipher.BlockSize
		}
		if fc.Cipher.DigitWidth != nil {
			cfg.Cipher.DigitWidth = *fc.Cipher.DigitWidth
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("PORT")); val != "" {
		cfg.Port = val
	}
	if val := strings.TrimSpace(os.Getenv("AFFINE_ALLOWED_ORIGINS")); val != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}
	if val := strings.TrimSpace(os.Getenv("AFFINE_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"AFFINE_BLOCK_SIZE", &cfg.Cipher.BlockSize},
		{"AFFINE_DIGIT_WIDTH", &cfg.Cipher.DigitWidth},
	}
	for _, e := range ints {
		val := strings.TrimSpace(os.Getenv(e.key))
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, val, err)
		}
		*e.dst = n
	}
	return nil
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port cannot be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Cipher.BlockSize < 1 || c.Cipher.BlockSize > crypto.MaxBlockSize {
		return fmt.Errorf("cipher.block_size must be between 1 and %d, got %d",
			crypto.MaxBlockSize, c.Cipher.BlockSize)
	}
	if c.Cipher.DigitWidth < crypto.MinDigitWidth || c.Cipher.DigitWidth > crypto.MaxDigitWidth {
		return fmt.Errorf("cipher.digit_width must be between %d and %d, got %d",
			crypto.MinDigitWidth, crypto.MaxDigitWidth, c.Cipher.DigitWidth)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
