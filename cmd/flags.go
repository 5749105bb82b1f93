package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/vuelens/internal/casing"
	"github.com/conneroisu/vuelens/internal/validation"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Output flags
	Format  string `flag:"format,f" desc:"Output format" default:"text"`
	Verbose bool   `flag:"verbose,v" desc:"Enable verbose output" default:"false"`
	Quiet   bool   `flag:"quiet,q" desc:"Suppress output" default:"false"`

	// Casing flags
	Tag  string `flag:"tag" desc:"Tag casing (kebab|pascal)" default:""`
	Attr string `flag:"attr" desc:"Attribute casing (kebab|camel)" default:""`

	formats []string
}

// AddStandardFlags adds standard flags to a command. The first of formats
// is the default output format.
func AddStandardFlags(cmd *cobra.Command, formats []string, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{formats: formats}

	for _, flagType := range flagTypes {
		switch flagType {
		case "output":
			addOutputFlags(cmd, flags)
		case "casing":
			addCasingFlags(cmd, flags)
		}
	}

	return flags
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	def := "text"
	if len(flags.formats) > 0 {
		def = flags.formats[0]
	}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", def,
		fmt.Sprintf("Output format (%s)", strings.Join(flags.formats, "|")))
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress output")

	AddFlagValidation(cmd, "format", func(format string) error {
		return ValidateFormat(format, flags.formats)
	})
}

func addCasingFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVar(&flags.Tag, "tag", "", "Tag casing (kebab|pascal), detected when empty")
	cmd.Flags().StringVar(&flags.Attr, "attr", "", "Attribute casing (kebab|camel), detected when empty")

	AddFlagValidation(cmd, "tag", func(tag string) error {
		_, err := casing.ParseTagCasing(tag)
		return err
	})
	AddFlagValidation(cmd, "attr", func(attr string) error {
		_, err := casing.ParseAttrCasing(attr)
		return err
	})
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if len(f.formats) > 0 {
		if err := ValidateFormat(f.Format, f.formats); err != nil {
			return err
		}
	}

	// Quiet and verbose are mutually exclusive
	if f.Quiet && f.Verbose {
		return fmt.Errorf("cannot specify both --quiet and --verbose")
	}

	return nil
}

// ValidateFormat checks an output format against the supported ones
func ValidateFormat(format string, supported []string) error {
	if err := validation.OneOf(strings.ToLower(format), supported); err != nil {
		return fmt.Errorf("unsupported format: %w", err)
	}
	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	// Store original value setter
	originalSet := flag.Value.Set

	// Create wrapper that validates
	flag.Value = &validatingValue{
		Value:       flag.Value,
		validator:   validator,
		originalSet: originalSet,
	}
}

type validatingValue struct {
	pflag.Value
	validator   func(string) error
	originalSet func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.originalSet(val)
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
