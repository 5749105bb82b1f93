// Package config provides configuration management for vuelens using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration holds the user's casing preferences, where the project
// config lives, which directories hold components, and how the CLI logs.
// Environment variables override the file with the VUELENS_ prefix, for
// example VUELENS_CASING_TAG=kebab.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/vuelens/internal/casing"
	"github.com/conneroisu/vuelens/internal/logging"
	"github.com/conneroisu/vuelens/internal/validation"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "VUELENS"

// UserAgentEnv is the package manager's user agent variable.
const UserAgentEnv = "npm_config_user_agent"

type Config struct {
	Casing      CasingConfig     `json:"casing" yaml:"casing" mapstructure:"casing"`
	Project     ProjectConfig    `json:"project" yaml:"project" mapstructure:"project"`
	Components  ComponentsConfig `json:"components" yaml:"components" mapstructure:"components"`
	Logging     LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
	Cache       CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Watch       WatchConfig      `json:"watch" yaml:"watch" mapstructure:"watch"`
	TargetFiles []string         `json:"-" yaml:"-" mapstructure:"-"` // CLI arguments, not from config file
}

type CasingConfig struct {
	Tag  string `json:"tag" yaml:"tag" mapstructure:"tag"`
	Attr string `json:"attr" yaml:"attr" mapstructure:"attr"`
}

type ProjectConfig struct {
	Tsconfig        string   `json:"tsconfig" yaml:"tsconfig" mapstructure:"tsconfig"`
	ExtraExtensions []string `json:"extra_extensions" yaml:"extra_extensions" mapstructure:"extra_extensions"`
	UserAgent       string   `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

type ComponentsConfig struct {
	ScanPaths       []string `json:"scan_paths" yaml:"scan_paths" mapstructure:"scan_paths"`
	ExcludePatterns []string `json:"exclude_patterns" yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

type CacheConfig struct {
	Size int `json:"size" yaml:"size" mapstructure:"size"`
}

type WatchConfig struct {
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`
}

// Keys lists every configuration key that can be overridden from the
// environment.
var Keys = []string{
	"casing.tag",
	"casing.attr",
	"project.tsconfig",
	"project.extra_extensions",
	"components.scan_paths",
	"components.exclude_patterns",
	"logging.level",
	"logging.format",
	"cache.size",
	"watch.debounce",
}

// BindEnv binds every key to its VUELENS_ variable. The package manager user
// agent is read from npm_config_user_agent unless VUELENS_PROJECT_USER_AGENT
// is set.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return v.BindEnv("project.user_agent", EnvPrefix+"_PROJECT_USER_AGENT", UserAgentEnv)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v, applies defaults and validates it.
func LoadFrom(v *viper.Viper) (*Config, error) {
	config, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Decode reads the configuration from v and applies defaults without
// validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Casing.Tag == "" {
		config.Casing.Tag = string(casing.TagPreferAutoPascal)
	}
	if config.Casing.Attr == "" {
		config.Casing.Attr = string(casing.AttrPreferAutoKebab)
	}
	config.Casing.Tag = strings.ToLower(config.Casing.Tag)
	config.Casing.Attr = strings.ToLower(config.Casing.Attr)

	if config.Project.Tsconfig == "" {
		config.Project.Tsconfig = "tsconfig.json"
	}
	if config.Project.ExtraExtensions == nil {
		config.Project.ExtraExtensions = []string{}
	}

	if len(config.Components.ScanPaths) == 0 {
		config.Components.ScanPaths = []string{"."}
	}
	if config.Components.ExcludePatterns == nil {
		config.Components.ExcludePatterns = []string{}
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}

	if config.Cache.Size == 0 {
		config.Cache.Size = casing.DefaultCacheSize
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 100 * time.Millisecond
	}
}

// Preferences returns the parsed casing preferences.
func (c *Config) Preferences() (casing.TagPreference, casing.AttrPreference, error) {
	tag, err := casing.ParseTagPreference(c.Casing.Tag)
	if err != nil {
		return "", "", err
	}
	attr, err := casing.ParseAttrPreference(c.Casing.Attr)
	if err != nil {
		return "", "", err
	}
	return tag, attr, nil
}

// LoggerConfig returns the logger settings for this configuration.
func (c *Config) LoggerConfig() *logging.LoggerConfig {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(c.Logging.Level)
	lc.Format = c.Logging.Format
	return lc
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if _, _, err := config.Preferences(); err != nil {
		return fmt.Errorf("casing config: %w", err)
	}

	if err := validateProjectConfig(&config.Project); err != nil {
		return fmt.Errorf("project config: %w", err)
	}

	if err := validateComponentsConfig(&config.Components); err != nil {
		return fmt.Errorf("components config: %w", err)
	}

	if err := validation.OneOf(config.Logging.Format, []string{"text", "json"}); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if config.Cache.Size < 0 {
		return fmt.Errorf("cache config: size %d must not be negative", config.Cache.Size)
	}
	if config.Watch.Debounce < 0 {
		return fmt.Errorf("watch config: debounce %s must not be negative", config.Watch.Debounce)
	}

	return nil
}

func validateProjectConfig(config *ProjectConfig) error {
	if err := validation.ValidatePath(config.Tsconfig); err != nil {
		return fmt.Errorf("invalid tsconfig path '%s': %w", config.Tsconfig, err)
	}
	for _, ext := range config.ExtraExtensions {
		if err := validation.ValidateExtension(ext); err != nil {
			return err
		}
	}
	return nil
}

// validateComponentsConfig validates components configuration values
func validateComponentsConfig(config *ComponentsConfig) error {
	for _, path := range config.ScanPaths {
		if err := validation.ValidatePath(path); err != nil {
			return fmt.Errorf("invalid scan path '%s': %w", path, err)
		}
	}
	for _, pattern := range config.ExcludePatterns {
		if err := validation.ValidatePattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern: %w", err)
		}
	}

	return nil
}
