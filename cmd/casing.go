package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conneroisu/vuelens/internal/casing"
	lenserrors "github.com/conneroisu/vuelens/internal/errors"
	"github.com/conneroisu/vuelens/internal/sfc"
	"github.com/conneroisu/vuelens/internal/textdoc"
)

var casingCmd = &cobra.Command{
	Use:   "casing",
	Short: "Detect and convert template naming conventions",
	Long: `Detect which naming convention a component template uses for component
tags (kebab-case or PascalCase) and attributes (kebab-case or camelCase),
and rewrite templates to a chosen convention.

Components are discovered from the configured scan paths and from the
.vue imports of the document itself.`,
}

var casingDetectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Report the casing a template uses",
	Long: `Report the tag and attribute casing votes of a component template and
the convention the configured preferences resolve to.

Examples:
  vuelens casing detect src/App.vue
  vuelens casing detect src/App.vue --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCasingDetect,
}

var casingConvertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Rewrite a template to a tag and attribute casing",
	Long: `Rewrite the component tags and declared prop attributes of a template.
Conventions not given on the command line are resolved from the document
and the configured preferences.

By default the converted document is printed. --write replaces the file,
--format json prints the edits as editor text edits instead.

Examples:
  vuelens casing convert src/App.vue --tag kebab
  vuelens casing convert src/App.vue --tag pascal --attr camel --write
  vuelens casing convert src/App.vue --attr kebab --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCasingConvert,
}

var (
	detectFlags  *StandardFlags
	convertFlags *StandardFlags
	convertWrite bool
)

func init() {
	rootCmd.AddCommand(casingCmd)
	casingCmd.AddCommand(casingDetectCmd, casingConvertCmd)

	detectFlags = AddStandardFlags(casingDetectCmd, []string{"text", "json", "yaml"}, "output")
	convertFlags = AddStandardFlags(casingConvertCmd, []string{"text", "json"}, "output", "casing")
	casingConvertCmd.Flags().BoolVarP(&convertWrite, "write", "w", false, "Write the converted document back to the file")
}

// detection is the printed form of one detect run.
type detection struct {
	File       string       `json:"file" yaml:"file"`
	Components []string     `json:"components" yaml:"components"`
	Votes      casing.Votes `json:"votes" yaml:"votes"`
	Resolved   resolvedPref `json:"resolved" yaml:"resolved"`
}

type resolvedPref struct {
	Tag  casing.TagCasing  `json:"tag" yaml:"tag"`
	Attr casing.AttrCasing `json:"attr" yaml:"attr"`
}

// document is a component file loaded for casing work.
type document struct {
	path       string
	source     string
	desc       *sfc.Descriptor
	components []string
}

func loadDocument(cmd *cobra.Command, ws *workspace, path string) (*document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, lenserrors.NewIOError(lenserrors.ErrCodeInvalidPath, "failed to read component file", err).WithFile(path)
	}

	if err := ws.resolve(cmd.Context(), ""); err != nil {
		return nil, err
	}
	s := ws.newScanner()
	defer s.Close()
	ws.scan(cmd.Context(), s)

	desc := sfc.Parse(string(content))
	if desc.Template == nil {
		return nil, lenserrors.ErrTemplateMissing(path)
	}

	return &document{
		path:       path,
		source:     string(content),
		desc:       desc,
		components: ws.visibleComponents(desc),
	}, nil
}

func runCasingDetect(cmd *cobra.Command, args []string) error {
	if err := detectFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ws, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.close()

	doc, err := loadDocument(cmd, ws, args[0])
	if err != nil {
		return err
	}

	tagPref, attrPref, err := ws.cfg.Preferences()
	if err != nil {
		return err
	}

	votes := ws.cache.Detect(doc.source, "", doc.components)
	pref := casing.Resolve(votes, tagPref, attrPref)

	result := &detection{
		File:       doc.path,
		Components: doc.components,
		Votes:      votes,
		Resolved:   resolvedPref{Tag: pref.Tag, Attr: pref.Attr},
	}

	if detectFlags.Format == "text" {
		return writeDetection(cmd.OutOrStdout(), result, detectFlags.Verbose)
	}
	return writeStructured(cmd.OutOrStdout(), detectFlags.Format, result)
}

func writeDetection(w io.Writer, d *detection, verbose bool) error {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s\n", d.File)

	fmt.Fprintf(w, "  tags:       %s -> %s\n", joinVotes(tagNames(d.Votes.Tag)), d.Resolved.Tag)
	fmt.Fprintf(w, "  attributes: %s -> %s\n", joinVotes(attrNames(d.Votes.Attr)), d.Resolved.Attr)
	if len(d.Votes.Tag) > 1 || len(d.Votes.Attr) > 1 {
		color.New(color.FgYellow).Fprintln(w, "  mixed conventions found")
	}
	if verbose {
		fmt.Fprintf(w, "  components: %s\n", strings.Join(d.Components, ", "))
	}
	return nil
}

func runCasingConvert(cmd *cobra.Command, args []string) error {
	if err := convertFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if convertWrite && convertFlags.Format == "json" {
		return fmt.Errorf("cannot specify both --write and --format json")
	}

	ws, err := newWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.close()

	doc, err := loadDocument(cmd, ws, args[0])
	if err != nil {
		return err
	}

	tag, attr, err := targetCasing(ws, doc, convertFlags)
	if err != nil {
		return err
	}

	meta := doc.desc.TemplateMetadata()
	edits := casing.Convert(meta, doc.components, ws.propsOf(doc.desc, doc.path), tag, attr)

	if convertFlags.Format == "json" {
		return writeStructured(cmd.OutOrStdout(), "json", textdoc.NewDocument(doc.source).ToLSP(edits))
	}

	converted, err := textdoc.Apply(doc.source, edits)
	if err != nil {
		return err
	}

	if !convertWrite {
		_, err := io.WriteString(cmd.OutOrStdout(), converted)
		return err
	}

	if len(edits) == 0 {
		if !convertFlags.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s already uses %s tags and %s attributes\n", doc.path, tag, attr)
		}
		return nil
	}
	if err := writeFileAtomic(doc.path, []byte(converted)); err != nil {
		return err
	}
	if !convertFlags.Quiet {
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s: %d edits applied (%s tags, %s attributes)\n",
			doc.path, len(edits), tag, attr)
	}
	return nil
}

// targetCasing returns the flag conventions, resolving the unset ones from
// the document's votes and the configured preferences.
func targetCasing(ws *workspace, doc *document, flags *StandardFlags) (casing.TagCasing, casing.AttrCasing, error) {
	tagPref, attrPref, err := ws.cfg.Preferences()
	if err != nil {
		return 0, 0, err
	}
	pref := casing.Resolve(ws.cache.Detect(doc.source, "", doc.components), tagPref, attrPref)

	tag, attr := pref.Tag, pref.Attr
	if flags.Tag != "" {
		if tag, err = casing.ParseTagCasing(flags.Tag); err != nil {
			return 0, 0, err
		}
	}
	if flags.Attr != "" {
		if attr, err = casing.ParseAttrCasing(flags.Attr); err != nil {
			return 0, 0, err
		}
	}
	return tag, attr, nil
}

// writeFileAtomic replaces path through a temporary file in the same
// directory, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func tagNames(votes []casing.TagCasing) []string {
	names := make([]string, len(votes))
	for i, v := range votes {
		names[i] = v.String()
	}
	return names
}

func attrNames(votes []casing.AttrCasing) []string {
	names := make([]string, len(votes))
	for i, v := range votes {
		names[i] = v.String()
	}
	return names
}

func joinVotes(names []string) string {
	if len(names) == 0 {
		return "no evidence"
	}
	return strings.Join(names, "+")
}
