package config

import (
	"fmt"
	"time"

	"github.com/conneroisu/vuelens/internal/casing"
)

// ConfigBuilder provides a fluent interface for building configurations.
//
// Usage:
//
//	config, err := NewConfigBuilder().
//	    WithCasing(casing.TagPreferKebab, casing.AttrPreferCamel).
//	    WithScanPaths("./src").
//	    Build()
type ConfigBuilder struct {
	config     *Config
	validators []ValidatorFunc
}

// ValidatorFunc represents a configuration validation function
type ValidatorFunc func(*Config) error

// NewConfigBuilder creates a new configuration builder. Unset fields receive
// the same defaults Load applies.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config:     &Config{},
		validators: []ValidatorFunc{},
	}
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	config, err := NewConfigBuilder().Build()
	if err != nil {
		// defaults always validate
		panic(err)
	}
	return config
}

func (cb *ConfigBuilder) WithCasing(tag casing.TagPreference, attr casing.AttrPreference) *ConfigBuilder {
	cb.config.Casing.Tag = string(tag)
	cb.config.Casing.Attr = string(attr)
	return cb
}

func (cb *ConfigBuilder) WithTsconfig(path string) *ConfigBuilder {
	cb.config.Project.Tsconfig = path
	return cb
}

func (cb *ConfigBuilder) WithExtraExtensions(exts ...string) *ConfigBuilder {
	cb.config.Project.ExtraExtensions = append(cb.config.Project.ExtraExtensions, exts...)
	return cb
}

func (cb *ConfigBuilder) WithUserAgent(agent string) *ConfigBuilder {
	cb.config.Project.UserAgent = agent
	return cb
}

func (cb *ConfigBuilder) WithScanPaths(paths ...string) *ConfigBuilder {
	cb.config.Components.ScanPaths = append(cb.config.Components.ScanPaths, paths...)
	return cb
}

func (cb *ConfigBuilder) WithExcludePatterns(patterns ...string) *ConfigBuilder {
	cb.config.Components.ExcludePatterns = append(cb.config.Components.ExcludePatterns, patterns...)
	return cb
}

func (cb *ConfigBuilder) WithLogging(level, format string) *ConfigBuilder {
	cb.config.Logging.Level = level
	cb.config.Logging.Format = format
	return cb
}

func (cb *ConfigBuilder) WithCacheSize(size int) *ConfigBuilder {
	cb.config.Cache.Size = size
	return cb
}

func (cb *ConfigBuilder) WithDebounce(d time.Duration) *ConfigBuilder {
	cb.config.Watch.Debounce = d
	return cb
}

// AddValidator adds a custom validation function
func (cb *ConfigBuilder) AddValidator(validator ValidatorFunc) *ConfigBuilder {
	cb.validators = append(cb.validators, validator)
	return cb
}

// Build creates the final configuration after applying defaults and validations
func (cb *ConfigBuilder) Build() (*Config, error) {
	config := *cb.config
	config.Project.ExtraExtensions = cloneStrings(cb.config.Project.ExtraExtensions)
	config.Components.ScanPaths = cloneStrings(cb.config.Components.ScanPaths)
	config.Components.ExcludePatterns = cloneStrings(cb.config.Components.ExcludePatterns)
	applyDefaults(&config)

	for _, validator := range cb.validators {
		if err := validator(&config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
