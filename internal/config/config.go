// Package config loads configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultMaxUploadSize = 100 * 1024 * 1024
	defaultSecretKey     = "file-browser-secret-key-change-me"
	dockerStorageRoot    = "/data"
)

// Config holds all server settings.
type Config struct {
	StorageRoot       string `yaml:"storageRoot"`
	MaxUploadSize     int64  `yaml:"maxUploadSize"`
	AllowedExtensions string `yaml:"allowedExtensions"`

	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`

	SecretKey string `yaml:"secretKey"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	LogOutput string `yaml:"logOutput"`
}

// Load builds the configuration. Values from the YAML file named by
// CONFIG_FILE are applied first; environment variables override them.
func Load() (Config, error) {
	cfg := Config{
		StorageRoot:   defaultStorageRoot(),
		MaxUploadSize: defaultMaxUploadSize,
		Host:          "0.0.0.0",
		Port:          9100,
		SecretKey:     defaultSecretKey,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.StorageRoot = envOr("FILE_STORAGE_PATH", cfg.StorageRoot)
	cfg.AllowedExtensions = envOr("ALLOWED_EXTENSIONS", cfg.AllowedExtensions)
	cfg.Host = envOr("HOST", cfg.Host)
	cfg.SecretKey = envOr("SECRET_KEY", cfg.SecretKey)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)
	cfg.LogOutput = envOr("LOG_OUTPUT", cfg.LogOutput)

	var err error
	if cfg.MaxUploadSize, err = envInt64("MAX_UPLOAD_SIZE", cfg.MaxUploadSize); err != nil {
		return Config{}, err
	}
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.Debug, err = envBool("DEBUG", cfg.Debug); err != nil {
		return Config{}, err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.Debug {
			cfg.LogLevel = "debug"
		}
	}
	if cfg.LogOutput == "" {
		cfg.LogOutput = "stdout"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.Debug {
			cfg.LogFormat = "console"
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.StorageRoot) == "" {
		return errors.New("FILE_STORAGE_PATH must not be empty")
	}
	if c.MaxUploadSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("PORT must be an int in [1,65535]")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY must not be empty")
	}
	return nil
}

// ListenAddr is the host:port the HTTP server binds to.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// EnsureStorageRoot creates the storage root if it does not exist yet.
func (c Config) EnsureStorageRoot() error {
	if err := os.MkdirAll(c.StorageRoot, 0o755); err != nil {
		return fmt.Errorf("create storage root %s: %w", c.StorageRoot, err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultStorageRoot() string {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return dockerStorageRoot
	}
	return filepath.Join(".", "data")
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an int", key)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an int", key)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be true/false", key)
	}
}
