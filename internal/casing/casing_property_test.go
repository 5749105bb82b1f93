//go:build property
// +build property

package casing

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/vuelens/internal/sfc"
	"github.com/conneroisu/vuelens/internal/textdoc"
)

// TestHyphenateProperties tests name conversion properties
func TestHyphenateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: hyphenated names are already hyphenated
	properties.Property("hyphenate is idempotent", prop.ForAll(
		func(name string) bool {
			once := Hyphenate(name)
			return Hyphenate(once) == once && strings.ToLower(once) == once
		},
		gen.Identifier(),
	))

	// Property: kebab names survive a round trip through PascalCase
	properties.Property("kebab round trip", prop.ForAll(
		func(segments []string) bool {
			if len(segments) == 0 {
				return true
			}
			for i := range segments {
				segments[i] = strings.ToLower(segments[i])
			}
			kebab := strings.Join(segments, "-")
			return Hyphenate(PascalCase(kebab)) == kebab
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

// TestConvertProperties tests edit generation properties
func TestConvertProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: converting converted text produces no edits
	properties.Property("convert is idempotent", prop.ForAll(
		func(name string, kebabFirst bool, toKebab bool) bool {
			component := "Ui" + PascalCase(strings.ToLower(name))
			first, second := component, Hyphenate(component)
			if kebabFirst {
				first, second = second, first
			}
			source := "<template><" + first + " propName=\"1\"></" + first + ">\n<" +
				second + " prop-name/><div propName/></template>"

			components := []string{component}
			propsOf := func(string) []string { return []string{"propName"} }
			tag, attr := TagPascal, AttrCamel
			if toKebab {
				tag, attr = TagKebab, AttrKebab
			}

			edits := Convert(sfc.Parse(source).TemplateMetadata(), components, propsOf, tag, attr)
			out, err := textdoc.Apply(source, edits)
			if err != nil {
				return false
			}

			again := Convert(sfc.Parse(out).TemplateMetadata(), components, propsOf, tag, attr)
			return len(again) == 0 && strings.Contains(out, "<div propName/>")
		},
		gen.Identifier(),
		gen.Bool(),
		gen.Bool(),
	))

	// Property: detection never depends on tag order
	properties.Property("detect is order independent", prop.ForAll(
		func(name string) bool {
			component := "Ui" + PascalCase(strings.ToLower(name))
			kebab := Hyphenate(component)
			a := DetectDocument("<template><"+component+"/><"+kebab+"/></template>", []string{component})
			b := DetectDocument("<template><"+kebab+"/><"+component+"/></template>", []string{component})
			return len(a.Tag) == 2 && a.Tag[0] == b.Tag[0] && a.Tag[1] == b.Tag[1]
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
