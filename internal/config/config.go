package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robofuse/qbitctl/internal/request"
	"github.com/robofuse/qbitctl/pkg/qbittorrent"
)

// config.go loads, validates, and exposes the CLI configuration.

// ErrNotFound is returned by Load when no configuration file exists
var ErrNotFound = errors.New("config file not found")

// Config holds the qbitctl configuration
type Config struct {
	Host      string `json:"host" yaml:"host" toml:"host"`
	Username  string `json:"username" yaml:"username" toml:"username"`
	Password  string `json:"password" yaml:"password" toml:"password"`
	UserAgent string `json:"user_agent" yaml:"user_agent" toml:"user_agent"`

	// Rate limit: RateLimitCount requests per RateLimitDuration seconds.
	// RateLimit ("10/10s") overrides both when set.
	RateLimitCount    int    `json:"rate_limit_count" yaml:"rate_limit_count" toml:"rate_limit_count"`
	RateLimitDuration int    `json:"rate_limit_duration" yaml:"rate_limit_duration" toml:"rate_limit_duration"`
	RateLimit         string `json:"rate_limit" yaml:"rate_limit" toml:"rate_limit"`

	Proxy              string `json:"proxy" yaml:"proxy" toml:"proxy"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`

	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogDir   string `json:"log_dir" yaml:"log_dir" toml:"log_dir"`

	// Defaults for `add`
	DefaultCategory string `json:"default_category" yaml:"default_category" toml:"default_category"`
	DefaultSavePath string `json:"default_save_path" yaml:"default_save_path" toml:"default_save_path"`
	UploadWorkers   int    `json:"upload_workers" yaml:"upload_workers" toml:"upload_workers"`

	// Internal
	Path string `json:"-" yaml:"-" toml:"-"` // Config file path
}

// defaults returns a Config with default values
func defaults() *Config {
	return &Config{
		Host:              "localhost:8080",
		RateLimitCount:    request.DefaultRateCount,
		RateLimitDuration: int(request.DefaultRateWindow / time.Second),
		LogLevel:          "info",
		UploadWorkers:     4,
	}
}

// Default returns the default configuration, used when no file is found
func Default() *Config {
	return defaults()
}

// SearchPaths lists the files Load tries, in order
func SearchPaths(configPath string) []string {
	paths := []string{configPath}
	for _, ext := range []string{"json", "yaml", "yml", "toml"} {
		paths = append(paths, "qbitctl."+ext)
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range []string{"json", "yaml", "yml", "toml"} {
			paths = append(paths, filepath.Join(home, ".config", "qbitctl", "config."+ext))
		}
	}
	return paths
}

// Load reads the first configuration file found. An explicit configPath must exist.
// The result is not validated; callers apply their overrides and then call Validate.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, errors.Wrap(err, "config file")
		}
	}

	configFile := Find(configPath)
	if configFile == "" {
		return nil, errors.Wrapf(ErrNotFound, "searched %v", SearchPaths(configPath)[1:])
	}

	return LoadFile(configFile)
}

// Find returns the first existing file of SearchPaths, or "" when there is none
func Find(configPath string) string {
	for _, p := range SearchPaths(configPath) {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile reads one configuration file over the defaults, decoding it by extension
func LoadFile(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	cfg := defaults()
	if err := decode(configFile, data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", configFile)
	}

	cfg.Path = filepath.Dir(configFile)
	return cfg, nil
}

func decode(configFile string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// Validate checks required fields and restores defaults for invalid values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("qBittorrent host is required")
	}

	if c.Username == "" {
		return errors.New("qBittorrent username is required")
	}

	if c.RateLimit != "" {
		count, window, err := request.ParseRateLimit(c.RateLimit)
		if err != nil {
			return err
		}
		c.RateLimitCount = count
		c.RateLimitDuration = int(window / time.Second)
		if c.RateLimitDuration < 1 {
			c.RateLimitDuration = 1
		}
	}

	if c.RateLimitCount < 1 {
		c.RateLimitCount = request.DefaultRateCount
	}

	if c.RateLimitDuration < 1 {
		c.RateLimitDuration = int(request.DefaultRateWindow / time.Second)
	}

	if c.UploadWorkers < 1 {
		c.UploadWorkers = 4
	}

	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}

	return nil
}

// RateWindow returns the rate limit window as a duration
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateLimitDuration) * time.Second
}

// Options converts the configuration into client options
func (c *Config) Options() qbittorrent.Options {
	return qbittorrent.Options{
		Host:               c.Host,
		Username:           c.Username,
		Password:           c.Password,
		UserAgent:          c.UserAgent,
		RateLimitCount:     c.RateLimitCount,
		RateLimitDuration:  c.RateWindow(),
		Proxy:              c.Proxy,
		InsecureSkipVerify: c.InsecureSkipVerify,
		Timeout:            time.Duration(c.TimeoutSeconds) * time.Second,
	}
}
