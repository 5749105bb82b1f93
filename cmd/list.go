package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
	"github.com/conneroisu/vuelens/internal/registry"
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Inspect the components of a project",
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all discovered components",
	Long: `List the single-file components found under the configured scan paths
with their files, and optionally their declared props and the registered
components their templates use.

Examples:
  vuelens components list                 # List all components in table format
  vuelens components list -f json         # Output as JSON
  vuelens components list -p              # Include declared props
  vuelens components list -pd -f yaml     # Include props and deps, output as YAML`,
	RunE: runList,
}

var showComponentCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one component",
	Long: `Show the file, declared props and dependencies of one component. The
name may be written in PascalCase or kebab-case.

Examples:
  vuelens components show MyButton
  vuelens components show my-button -f json`,
	Args: cobra.ExactArgs(1),
	RunE: runShowComponent,
}

var (
	showComponentFlags *StandardFlags
	listFlags          *StandardFlags
	listWithDeps       bool
	listWithProps      bool
)

func init() {
	rootCmd.AddCommand(componentsCmd)
	componentsCmd.AddCommand(listCmd, showComponentCmd)

	listFlags = AddStandardFlags(listCmd, []string{"table", "json", "yaml"}, "output")

	listCmd.Flags().
		BoolVarP(&listWithDeps, "with-deps", "d", false, "Include component dependencies")
	listCmd.Flags().
		BoolVarP(&listWithProps, "with-props", "p", false, "Include declared props")

	showComponentFlags = AddStandardFlags(showComponentCmd, []string{"yaml", "json"}, "output")
}

// scannedWorkspace returns a workspace whose registry holds every component
// under the configured scan paths. Resolved plugins are released before the
// scan.
func scannedWorkspace(cmd *cobra.Command) (*workspace, error) {
	ws, err := newWorkspace(cmd)
	if err != nil {
		return nil, err
	}
	if err := ws.resolve(cmd.Context(), ""); err != nil {
		return nil, err
	}
	ws.close()

	s := ws.newScanner()
	defer s.Close()
	ws.scan(cmd.Context(), s)
	return ws, nil
}

// listedComponent is the printed form of one component.
type listedComponent struct {
	Name         string   `json:"name" yaml:"name"`
	FilePath     string   `json:"filePath" yaml:"filePath"`
	Props        []string `json:"props,omitempty" yaml:"props,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Dependents   []string `json:"dependents,omitempty" yaml:"dependents,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ws, err := scannedWorkspace(cmd)
	if err != nil {
		return err
	}

	if listWithDeps {
		if err := ws.registry.UpdateAllDependencies(); err != nil {
			return fmt.Errorf("failed to analyze dependencies: %w", err)
		}
		for _, cycle := range ws.registry.GetDependencyAnalyzer().DetectCircularDependencies() {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "warning: circular dependency: %s\n",
				strings.Join(cycle, " -> "))
		}
	}

	components := listComponents(ws.registry, listWithProps, listWithDeps)

	out := cmd.OutOrStdout()
	switch strings.ToLower(listFlags.Format) {
	case "table":
		if len(components) == 0 {
			if !listFlags.Quiet {
				fmt.Fprintln(out, "No components found.")
			}
			return nil
		}
		return outputTable(out, components)
	default:
		return writeStructured(out, listFlags.Format, components)
	}
}

func listComponents(reg *registry.ComponentRegistry, withProps, withDeps bool) []listedComponent {
	all := reg.GetAll()
	components := make([]listedComponent, 0, len(all))
	for _, info := range all {
		item := listedComponent{
			Name:     info.Name,
			FilePath: relativePath(info.FilePath),
		}
		if withProps {
			item.Props = info.Props
		}
		if withDeps {
			item.Dependencies = info.Dependencies
		}
		components = append(components, item)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
	return components
}

func outputTable(out io.Writer, components []listedComponent) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := "NAME\tFILE"
	separator := "----\t----"
	if listWithProps {
		header += "\tPROPS"
		separator += "\t-----"
	}
	if listWithDeps {
		header += "\tDEPENDENCIES"
		separator += "\t" + strings.Repeat("-", 12)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, separator)

	for _, component := range components {
		row := component.Name + "\t" + component.FilePath
		if listWithProps {
			row += "\t" + strings.Join(component.Props, ", ")
		}
		if listWithDeps {
			row += "\t" + strings.Join(component.Dependencies, ", ")
		}
		fmt.Fprintln(w, row)
	}

	fmt.Fprintf(w, "\nTotal: %d components\n", len(components))
	return w.Flush()
}

func runShowComponent(cmd *cobra.Command, args []string) error {
	if err := showComponentFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ws, err := scannedWorkspace(cmd)
	if err != nil {
		return err
	}

	info, ok := ws.registry.Lookup(args[0])
	if !ok {
		return lenserrors.ErrComponentNotFound(args[0])
	}
	if err := ws.registry.UpdateAllDependencies(); err != nil {
		return fmt.Errorf("failed to analyze dependencies: %w", err)
	}

	component := listedComponent{
		Name:         info.Name,
		FilePath:     relativePath(info.FilePath),
		Props:        info.Props,
		Dependencies: info.Dependencies,
	}
	for _, dependent := range ws.registry.GetDependents(info.Name) {
		component.Dependents = append(component.Dependents, dependent.Name)
	}
	sort.Strings(component.Dependents)

	return writeStructured(cmd.OutOrStdout(), showComponentFlags.Format, component)
}

// relativePath shortens path relative to the working directory when it
// lies below it.
func relativePath(path string) string {
	abs, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(abs, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
