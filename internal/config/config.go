// Package config loads marknum settings: numbering options from a HuJSON
// config file (comments and trailing commas allowed), server settings from
// the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/tailscale/hujson"
)

type Config struct {
	// ExcludedHeadings lists substrings; a heading containing any of them
	// is excluded from numbering.
	ExcludedHeadings []string `json:"excluded_headings"`

	// AnchorLevel is the heading depth figures and tables are scoped to.
	AnchorLevel int `json:"anchor_level"`

	// OutputDirectory receives the mirrored, rewritten files.
	OutputDirectory string `json:"output_directory"`

	// Caption labels embedded in rewritten output.
	FigureLabel string `json:"figure_label"`
	TableLabel  string `json:"table_label"`

	// Server settings, environment only.
	Port         string `json:"-"`
	APIKey       string `json:"-"`
	MaxBodyBytes int64  `json:"-"`
}

// DefaultExcluded lists heading substrings that conventionally carry no
// chapter number.
var DefaultExcluded = []string{
	"Introduction",
	"Preface",
	"Table of Contents",
	"Abstract",
	"Summary",
	"References",
	"Acknowledgments",
	"Appendix",
	"Index",
	"Afterword",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ExcludedHeadings: append([]string(nil), DefaultExcluded...),
		AnchorLevel:      2,
		OutputDirectory:  "mdbuild",
		FigureLabel:      "Figure",
		TableLabel:       "Table",
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := json.Unmarshal(std, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.AnchorLevel <= 0 {
		cfg.AnchorLevel = 2
	}
	if cfg.OutputDirectory == "" {
		cfg.OutputDirectory = "mdbuild"
	}
	if cfg.FigureLabel == "" {
		cfg.FigureLabel = "Figure"
	}
	if cfg.TableLabel == "" {
		cfg.TableLabel = "Table"
	}

	return cfg, nil
}

// LoadServer fills the server settings from the environment.
func (c *Config) LoadServer() {
	c.Port = envOr("PORT", "8091")
	c.APIKey = os.Getenv("MARKNUM_API_KEY")
	c.MaxBodyBytes = envInt64("MARKNUM_MAX_BODY_BYTES", 10<<20) // 10MB
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 << 20
	}
}

func (c Config) Validate() error {
	if c.AnchorLevel < 1 || c.AnchorLevel > 6 {
		return fmt.Errorf("anchor_level must be 1-6, got %d", c.AnchorLevel)
	}
	if c.OutputDirectory == "" {
		return fmt.Errorf("output_directory is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
