package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuelens/internal/version"
)

var (
	versionFlags *StandardFlags
	versionShort bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for vuelens including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  vuelens version               # Show version and commit
  vuelens version --verbose     # Show every build field
  vuelens version --format json # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionFlags = AddStandardFlags(versionCmd, []string{"text", "json", "yaml"}, "output")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show the version number only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	if err := versionFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	info := version.Get()
	out := cmd.OutOrStdout()

	if versionFlags.Format != "text" {
		return writeStructured(out, versionFlags.Format, info)
	}

	switch {
	case versionShort:
		fmt.Fprintln(out, info.Version)
	case versionFlags.Verbose:
		fmt.Fprintln(out, info.String())
		if info.IsRelease() {
			fmt.Fprintln(out, "Build type: release")
		} else {
			fmt.Fprintln(out, "Build type: development")
		}
	default:
		fmt.Fprintf(out, "vuelens %s\n", info.Short())
	}
	return nil
}
