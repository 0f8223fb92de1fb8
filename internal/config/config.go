// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Sections string `json:"sections,omitempty"` // Path to sections JSON file

	// Style contract
	Tone         string `json:"tone,omitempty"`          // keigo, futsukei, business, casual
	WritingStyle string `json:"writing_style,omitempty"` // formal, neutral, story
	Honorific    string `json:"honorific,omitempty"`     // standard, respectful, none
	Audience     string `json:"audience,omitempty"`      // internal, external
	Language     string `json:"language,omitempty"`      // ja, en

	// Review context
	CompanyContext string `json:"company_context,omitempty"` // Target company/job description

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables:
// GEMINI_API_KEY, DATABASE_URL, PORT.
func (c *Config) FromEnv() error {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Port == 0 {
		if raw := os.Getenv("PORT"); raw != "" {
			port, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid PORT: %v", err)
			}
			c.Port = port
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.Sections != "" {
		if _, err := os.Stat(c.Sections); os.IsNotExist(err) {
			return fmt.Errorf("config error: sections file not found: %s", c.Sections)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Sections == "" {
		result.Sections = defaults.Sections
	}
	if result.Tone == "" {
		result.Tone = defaults.Tone
	}
	if result.WritingStyle == "" {
		result.WritingStyle = defaults.WritingStyle
	}
	if result.Honorific == "" {
		result.Honorific = defaults.Honorific
	}
	if result.Audience == "" {
		result.Audience = defaults.Audience
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.CompanyContext == "" {
		result.CompanyContext = defaults.CompanyContext
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
