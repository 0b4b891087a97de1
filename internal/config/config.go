// Package config loads site configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrUnknownVariant is returned when SITE_VARIANT names no known variant.
var ErrUnknownVariant = errors.New("unknown site variant")

// Variant selects which set of routes the site serves.
type Variant string

const (
	// VariantV2 serves home, about and health.
	VariantV2 Variant = "v2"
	// VariantV3 adds the contact form.
	VariantV3 Variant = "v3"
)

// ContactEnabled reports whether the variant serves /contact.
func (v Variant) ContactEnabled() bool {
	return v == VariantV3
}

// Config holds site configuration.
type Config struct {
	Addr            string        `env:"SITE_ADDR" envDefault:"0.0.0.0:80"`
	Variant         Variant       `env:"SITE_VARIANT" envDefault:"v3"`
	ShutdownTimeout time.Duration `env:"SITE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Variant = Variant(strings.ToLower(strings.TrimSpace(string(cfg.Variant))))
	switch cfg.Variant {
	case VariantV2, VariantV3:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}

	return &cfg, nil
}
