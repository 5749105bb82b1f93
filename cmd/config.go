package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/vuelens/internal/config"
	"github.com/conneroisu/vuelens/internal/project"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Resolve project configs and manage vuelens configuration",
	Long: `Resolve component compiler options from tsconfig/jsconfig files and
manage the vuelens configuration.

Examples:
  vuelens config resolve                       # Effective options of tsconfig.json
  vuelens config resolve tsconfig.app.json -f json
  vuelens config validate                      # Validate .vuelens.yml
  vuelens config show                          # Show the loaded configuration`,
}

var configResolveCmd = &cobra.Command{
	Use:   "resolve [tsconfig]",
	Short: "Print the effective component compiler options",
	Long: `Follow the extends chain of a tsconfig or jsconfig file, merge every
vueCompilerOptions section, load the declared plugins and print the
defaulted result.

Failures along the chain are reported as warnings; the options that could
be resolved are still printed.

Examples:
  vuelens config resolve
  vuelens config resolve packages/app/tsconfig.json --format json
  vuelens config resolve --verbose             # Include the project file list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigResolve,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the vuelens configuration",
	Long: `Validate a vuelens configuration file for correctness.

Examples:
  vuelens config validate                      # Validate the loaded configuration
  vuelens config validate --file ci.vuelens.yml
  vuelens config validate --strict             # Treat warnings as errors`,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current vuelens configuration",
	Long: `Display the vuelens configuration after loading the configuration
file, applying environment variable overrides and setting default values.`,
	RunE: runConfigShow,
}

var (
	resolveFlags *StandardFlags
	showFlags    *StandardFlags
	configFile   string
	configStrict bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configResolveCmd, configValidateCmd, configShowCmd)

	resolveFlags = AddStandardFlags(configResolveCmd, []string{"yaml", "json"}, "output")
	showFlags = AddStandardFlags(configShowCmd, []string{"yaml", "json"}, "output")

	configValidateCmd.Flags().StringVar(&configFile, "file", "", "Configuration file to validate")
	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")
}

// resolvedConfig is the printed form of one resolution.
type resolvedConfig struct {
	Config             string                  `json:"config" yaml:"config"`
	Chain              []string                `json:"chain" yaml:"chain"`
	FileNames          []string                `json:"fileNames,omitempty" yaml:"fileNames,omitempty"`
	Plugins            []string                `json:"plugins" yaml:"plugins"`
	VueCompilerOptions project.CompilerOptions `json:"vueCompilerOptions" yaml:"vueCompilerOptions"`
	Errors             []string                `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func runConfigResolve(cmd *cobra.Command, args []string) error {
	if err := resolveFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ws, err := newWorkspace(cmd)
	if err != nil {
		return err
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	if err := ws.resolve(cmd.Context(), target); err != nil {
		return err
	}
	defer ws.close()

	out := newResolvedConfig(ws, resolveFlags.Verbose)
	if !resolveFlags.Quiet {
		for _, msg := range out.Errors {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
	}

	return writeStructured(cmd.OutOrStdout(), resolveFlags.Format, out)
}

func newResolvedConfig(ws *workspace, withFiles bool) *resolvedConfig {
	out := &resolvedConfig{
		Config:             ws.configPath,
		Chain:              ws.parsed.Chain,
		Plugins:            ws.options.PluginNames(),
		VueCompilerOptions: ws.options,
	}
	if out.Chain == nil {
		out.Chain = []string{}
	}
	if withFiles {
		out.FileNames = ws.parsed.FileNames
	}
	for _, e := range ws.parsed.Errors {
		out.Errors = append(out.Errors, e.Error())
	}
	return out
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return fmt.Errorf("configuration file %s does not exist", configFile)
		}

		v = viper.New()
		if err := config.BindEnv(v); err != nil {
			return err
		}
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	w := cmd.OutOrStdout()
	source := v.ConfigFileUsed()
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(w, "Validating configuration: %s\n", source)

	return reportValidation(w, config.ValidateConfigWithDetails(cfg), configStrict)
}

func reportValidation(w io.Writer, result *config.ValidationResult, strict bool) error {
	if result.Valid && !result.HasWarnings() {
		color.New(color.FgGreen).Fprintln(w, "Configuration is valid.")
		return nil
	}

	fmt.Fprint(w, result.String())

	if result.HasErrors() {
		return fmt.Errorf("configuration validation failed with %d errors", len(result.Errors))
	}

	if strict {
		return fmt.Errorf("configuration validation failed in strict mode with %d warnings", len(result.Warnings))
	}

	color.New(color.FgYellow).Fprintf(w, "Configuration is valid with %d warnings. Use --strict to treat warnings as errors.\n",
		len(result.Warnings))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := showFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return writeStructured(cmd.OutOrStdout(), showFlags.Format, cfg)
}
