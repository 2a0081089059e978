// Package config loads, validates and watches the application
// configuration.
package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/ciphertrace/core/validator"
	"github.com/kochabx/ciphertrace/log"
)

// Config unmarshals configuration into target and keeps it fresh when
// watching is enabled.
type Config struct {
	mu       sync.RWMutex
	viper    *viper.Viper
	validate validator.Validator
	target   any
	loader   Loader
	watch    bool
}

// New creates a Config around target. Without an explicit loader a
// FileLoader for "config.yaml" in the working directory is used.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Default(),
		target:   target,
		watch:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("config.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration into the target.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// Watch re-loads the target whenever the underlying source changes.
func (c *Config) Watch() error {
	if !c.watch {
		return nil
	}

	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Load(); err != nil {
			log.Error().Err(err).Msg("reload config after change")
			return
		}

		log.Info().Msg("config reloaded")
	})
}

// GetViper exposes the underlying viper instance.
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
