package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the public BeatSaver endpoint
	DefaultBaseURL = "https://beatsaver.com"

	// DefaultDownloadTimeout applies to archive and cover downloads
	DefaultDownloadTimeout = 64 * time.Second

	// DefaultMetadataTimeout applies to JSON metadata requests
	DefaultMetadataTimeout = 30 * time.Second

	// DefaultCustomLevelsPath is used when no songs directory is configured
	DefaultCustomLevelsPath = "CustomLevels"
)

// Config holds application configuration
type Config struct {
	BaseURL          string        `json:"base_url" validate:"required,http_url"`
	DownloadTimeout  time.Duration `json:"download_timeout" validate:"gt=0"`
	MetadataTimeout  time.Duration `json:"metadata_timeout" validate:"gt=0"`
	CustomLevelsPath string        `json:"songs_dir" validate:"required"`
	ProxyURL         string        `json:"proxy_url" validate:"omitempty,url"`
	UserAgent        string        `json:"user_agent" validate:"required"`

	// Logging configuration
	LogLevel    string `json:"log_level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	EnableDebug bool   `json:"debug"`
	QuietMode   bool   `json:"quiet"`
	LogFile     string `json:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          DefaultBaseURL,
		DownloadTimeout:  DefaultDownloadTimeout,
		MetadataTimeout:  DefaultMetadataTimeout,
		CustomLevelsPath: DefaultCustomLevelsPath,
		UserAgent:        "beatfetch/1.0",

		LogLevel:    "info",
		EnableDebug: false,
		QuietMode:   false,
		LogFile:     "", // Empty means stderr
	}
}

// LoadDotEnv loads a .env file into the process environment if present.
// Variables already set in the environment win over the file.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if baseURL := os.Getenv("BEATSAVER_BASE_URL"); baseURL != "" {
		c.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if timeout := os.Getenv("BEATSAVER_DOWNLOAD_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.DownloadTimeout = time.Duration(t) * time.Second
		}
	}

	if timeout := os.Getenv("BEATSAVER_METADATA_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil && t > 0 {
			c.MetadataTimeout = time.Duration(t) * time.Second
		}
	}

	c.CustomLevelsPath = GetEnvWithDefault("BEATSAVER_SONGS_DIR", c.CustomLevelsPath)
	c.ProxyURL = GetEnvWithDefault("BEATSAVER_PROXY", c.ProxyURL)
	c.UserAgent = GetEnvWithDefault("BEATSAVER_USER_AGENT", c.UserAgent)
	c.LogLevel = GetEnvWithDefault("BEATSAVER_LOG_LEVEL", c.LogLevel)

	if debug := os.Getenv("BEATSAVER_DEBUG"); debug != "" {
		c.EnableDebug = debug == "true" || debug == "1"
	}

	if quiet := os.Getenv("BEATSAVER_QUIET"); quiet != "" {
		c.QuietMode = quiet == "true" || quiet == "1"
	}

	c.LogFile = GetEnvWithDefault("BEATSAVER_LOG_FILE", c.LogFile)
}

// GetEnvWithDefault returns environment variable value or default
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidateConfig validates the configuration values
func (c *Config) ValidateConfig() error {
	if err := ValidateStruct(c); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			switch verr.Field {
			case "base_url":
				verr.WithSuggestion("Use an absolute http:// or https:// URL such as " + DefaultBaseURL)
			case "songs_dir":
				verr.WithSuggestion("Set --songs-dir or BEATSAVER_SONGS_DIR")
			case "proxy_url":
				verr.WithSuggestion("Use formats like http://proxy:8080 or socks5://proxy:1080")
			}
		}
		return err
	}
	return nil
}
