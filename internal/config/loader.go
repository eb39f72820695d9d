package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".propertyscraper"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .propertyscraper configuration file.
// Every entry is optional; anything absent keeps its default.
type File struct {
	// Database overrides the SQLite database path.
	Database string `yaml:"database,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Cookie is sent as the Cookie header with every request.
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Timeout is the per-request timeout as a Go duration string ("45s").
	Timeout string `yaml:"timeout,omitempty"`

	// Delay is the pause between fetches as a Go duration string ("500ms").
	Delay string `yaml:"delay,omitempty"`

	// Fields replaces the built-in field definitions entirely when present.
	Fields []FieldSpec `yaml:"fields,omitempty"`
}

// LoadConfigFile loads a configuration file from the given path.
// If the file does not exist it returns ErrConfigNotFound; callers decide
// whether that is fatal based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. .propertyscraper in the current directory
//  3. .propertyscraper in the user's home directory
//
// Returns the path if found, or an empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyFile overlays file settings onto the config.
// Only settings present in the file are applied.
func (c *Config) ApplyFile(cf *File) error {
	if cf == nil {
		return nil
	}

	if cf.Database != "" {
		c.DatabasePath = cf.Database
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if cf.Cookie != "" {
		c.Cookie = cf.Cookie
	}
	if len(cf.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(cf.Headers))
		}
		for k, v := range cf.Headers {
			c.Headers[k] = v
		}
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		c.Timeout = d
	}
	if cf.Delay != "" {
		d, err := time.ParseDuration(cf.Delay)
		if err != nil {
			return fmt.Errorf("config delay: %w", err)
		}
		c.RequestDelay = d
	}
	if len(cf.Fields) > 0 {
		c.Fields = cf.Fields
	}
	return nil
}

// Environment variable names recognized by ApplyEnv.
const (
	envDatabase  = "PROPERTYSCRAPER_DB"
	envUserAgent = "PROPERTYSCRAPER_USER_AGENT"
	envCookie    = "PROPERTYSCRAPER_COOKIE"
	envTimeout   = "PROPERTYSCRAPER_TIMEOUT_SECONDS"
)

// ApplyEnv loads a .env file from the working directory if one exists and
// overlays recognized PROPERTYSCRAPER_* environment variables onto the config.
// Environment values take precedence over the config file but not over flags.
func (c *Config) ApplyEnv() error {
	// A missing .env file is not an error; the environment may be set directly.
	_ = godotenv.Load()

	if v := os.Getenv(envDatabase); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(envUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(envCookie); v != "" {
		c.Cookie = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		c.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}
