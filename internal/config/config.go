// Package config loads server and terminal settings from an optional YAML
// file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configurable values for the app.
type Config struct {
	Env       string            `yaml:"env" validate:"required,oneof=development production test"`
	Addr      string            `yaml:"addr" validate:"required"`
	Locale    string            `yaml:"locale" validate:"required,bcp47_language_tag"`
	Countries CountriesConfig   `yaml:"countries"`
	HelpTexts map[string]string `yaml:"help_texts"`
}

// CountriesConfig selects the country list resource. An empty source uses the
// embedded list.
type CountriesConfig struct {
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Default returns the configuration used when no file or env is present.
func Default() *Config {
	return &Config{
		Env:    "development",
		Addr:   ":8080",
		Locale: "de",
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals YAML into cfg, keeping values the document omits.
func Decode(data []byte, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// Validate checks cfg with the struct tags above.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("config: invalid: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("PERSONFORM_ENV", cfg.Env)
	cfg.Addr = getEnv("PERSONFORM_ADDR", cfg.Addr)
	cfg.Locale = getEnv("PERSONFORM_LOCALE", cfg.Locale)
	cfg.Countries.Source = getEnv("PERSONFORM_COUNTRIES", cfg.Countries.Source)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
