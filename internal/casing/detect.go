package casing

import (
	"strings"

	"github.com/conneroisu/vuelens/internal/sfc"
)

// Votes is the casing evidence found in one template. Each slice is a set
// in canonical order: Pascal or Camel first, Kebab second. An empty slice
// means no evidence; two entries mean mixed usage.
type Votes struct {
	Tag  []TagCasing  `json:"tag" yaml:"tag"`
	Attr []AttrCasing `json:"attr" yaml:"attr"`
}

// Detect scans the written tag and attribute names of a template.
//
// Tag votes are only cast when at least one written tag is a known component,
// literally or in its hyphenated form. Pascal is voted when such a tag differs
// from its hyphenated form; Kebab when a component whose name changes under
// hyphenation is written in hyphenated form. Attribute votes are cast for
// every tag: Camel when a written attribute differs from its hyphenated form,
// Kebab when a written attribute contains a hyphen.
func Detect(meta *sfc.TemplateMetadata, components []string) Votes {
	if meta == nil {
		return Votes{}
	}
	return Votes{
		Tag:  detectTags(meta, components),
		Attr: detectAttrs(meta),
	}
}

// DetectDocument parses a component document and detects its votes.
func DetectDocument(source string, components []string) Votes {
	return Detect(sfc.Parse(source).TemplateMetadata(), components)
}

func detectTags(meta *sfc.TemplateMetadata, components []string) []TagCasing {
	used := false
	for _, component := range components {
		if meta.HasTag(component) || meta.HasTag(Hyphenate(component)) {
			used = true
			break
		}
	}
	if !used {
		return nil
	}

	var pascal, kebab bool
	for tag := range meta.Tags {
		if _, ok := matchComponent(tag, components); ok && tag != Hyphenate(tag) {
			pascal = true
			break
		}
	}
	for _, component := range components {
		hyphenated := Hyphenate(component)
		if component != hyphenated && meta.HasTag(hyphenated) {
			kebab = true
			break
		}
	}

	var votes []TagCasing
	if pascal {
		votes = append(votes, TagPascal)
	}
	if kebab {
		votes = append(votes, TagKebab)
	}
	return votes
}

func detectAttrs(meta *sfc.TemplateMetadata) []AttrCasing {
	var camel, kebab bool
	for _, occ := range meta.Tags {
		for attr := range occ.Attrs {
			if attr != Hyphenate(attr) {
				camel = true
			}
			if strings.Contains(attr, "-") {
				kebab = true
			}
		}
	}

	var votes []AttrCasing
	if camel {
		votes = append(votes, AttrCamel)
	}
	if kebab {
		votes = append(votes, AttrKebab)
	}
	return votes
}

// matchComponent returns the first component, in list order, whose name or
// hyphenated name equals tag.
func matchComponent(tag string, components []string) (string, bool) {
	for _, component := range components {
		if component == tag || Hyphenate(component) == tag {
			return component, true
		}
	}
	return "", false
}
