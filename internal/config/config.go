package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the client configuration. Values come from the TOML config
// file and may be overridden per-run by environment variables.
type Config struct {
	APIBaseURL     string        `toml:"api_base_url"`
	PushPath       string        `toml:"push_path"`
	DataDir        string        `toml:"data_dir"`
	DownloadDir    string        `toml:"download_dir"`
	RequestTimeout time.Duration `toml:"-"`
	RememberMe     bool          `toml:"remember_me"`
	LogLevel       string        `toml:"log_level"`

	// TOML cannot decode time.Duration directly; this is the raw value.
	RequestTimeoutRaw string `toml:"request_timeout"`
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "leavectl", "config.toml"), nil
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		APIBaseURL:     "http://localhost:8080/api/v1",
		PushPath:       "/ws",
		DataDir:        filepath.Join(home, ".leavectl"),
		DownloadDir:    filepath.Join(home, "Downloads"),
		RequestTimeout: 30 * time.Second,
		RememberMe:     false,
		LogLevel:       "info",
	}
}

// Read decodes a Config from the provided reader and applies env overrides.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.RequestTimeoutRaw != "" {
		parsed, err := time.ParseDuration(cfg.RequestTimeoutRaw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid request_timeout: %w", err)
		}
		cfg.RequestTimeout = parsed
	}
	cfg.applyEnv()
	return cfg, nil
}

// ReadFromFile loads the config file at path. A missing file yields the
// defaults with env overrides applied, so the CLI works before `config init`.
func ReadFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Init writes cfg to path, refusing to overwrite an existing file.
func Init(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating config: %w", err)
	}
	defer f.Close()
	cfg.RequestTimeoutRaw = cfg.RequestTimeout.String()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIBaseURL = getEnv("LEAVECTL_API_URL", c.APIBaseURL)
	c.PushPath = getEnv("LEAVECTL_PUSH_PATH", c.PushPath)
	c.DataDir = getEnv("LEAVECTL_DATA_DIR", c.DataDir)
	c.DownloadDir = getEnv("LEAVECTL_DOWNLOAD_DIR", c.DownloadDir)
	c.RememberMe = getEnvBool("LEAVECTL_REMEMBER_ME", c.RememberMe)
	c.LogLevel = getEnv("LEAVECTL_LOG_LEVEL", c.LogLevel)
	c.RequestTimeout = getEnvDuration("LEAVECTL_REQUEST_TIMEOUT", c.RequestTimeout)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must be an http(s) URL")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}
