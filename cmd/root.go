// Package cmd provides the command-line interface for vuelens with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --log-level, etc.) - highest priority
//	2. VUELENS_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (VUELENS_CASING_TAG, etc.)
//	4. Configuration files (.vuelens.yml) - lowest priority
//
// Environment Variables:
//
//	VUELENS_CONFIG_FILE: Path to custom configuration file
//	VUELENS_CASING_TAG: Override the tag casing preference
//	VUELENS_CASING_ATTR: Override the attribute casing preference
//	npm_config_user_agent: Package manager user agent, set by npm, pnpm and yarn
//	And the rest following the VUELENS_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/vuelens/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vuelens",
	Short: "Project config resolution and template casing for Vue projects",
	Long: `vuelens resolves Vue component compiler options through tsconfig extends
chains and keeps component templates consistent in tag and attribute casing.

Key Features:
  • tsconfig/jsconfig extends resolution with plugin loading
  • Tag and attribute casing detection
  • Casing conversion with editor-ready text edits
  • Component discovery and prop extraction
  • Watch mode for config chains and components

Quick Start:
  vuelens config resolve              Show the effective compiler options
  vuelens casing detect src/App.vue   Detect the casing a template uses
  vuelens casing convert src/App.vue --tag kebab --write
  vuelens components list             List discovered components`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vuelens.yml, can also use VUELENS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig initializes the configuration system with support for multiple config sources.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. VUELENS_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .vuelens.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vuelens")
	}

	if err := config.BindEnv(viper.GetViper()); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to bind environment:", err)
	}

	// A missing or malformed file leaves the defaults in place
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
