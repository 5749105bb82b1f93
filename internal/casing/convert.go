package casing

import (
	"github.com/conneroisu/vuelens/internal/sfc"
	"github.com/conneroisu/vuelens/internal/textdoc"
)

// PropsOf returns the declared prop names of a component.
type PropsOf func(component string) []string

// ConvertTags returns the edits that rewrite every known component tag to
// the target convention. Offsets are relative to the document the metadata
// was extracted from. Tags already in the target form are left alone.
func ConvertTags(meta *sfc.TemplateMetadata, components []string, target TagCasing) []textdoc.TextEdit {
	if meta == nil {
		return nil
	}

	var edits []textdoc.TextEdit
	for _, tag := range meta.TagNames() {
		component, ok := matchComponent(tag, components)
		if !ok {
			continue
		}
		want := tagForm(component, target)
		if tag == want {
			continue
		}
		for _, off := range meta.Tags[tag].Offsets {
			edits = append(edits, replace(meta.Start+off, tag, want))
		}
	}

	textdoc.SortEdits(edits)
	return edits
}

// ConvertAttrs returns the edits that rewrite attributes naming a declared
// prop of a known component to the target convention.
func ConvertAttrs(meta *sfc.TemplateMetadata, components []string, propsOf PropsOf, target AttrCasing) []textdoc.TextEdit {
	if meta == nil || propsOf == nil {
		return nil
	}

	var edits []textdoc.TextEdit
	for _, tag := range meta.TagNames() {
		component, ok := matchComponent(tag, components)
		if !ok {
			continue
		}
		props := propsOf(component)
		occ := meta.Tags[tag]
		for _, attr := range meta.AttrNames(tag) {
			prop, ok := matchProp(attr, props)
			if !ok {
				continue
			}
			want := attrForm(prop, target)
			if attr == want {
				continue
			}
			for _, off := range occ.Attrs[attr] {
				edits = append(edits, replace(meta.Start+off, attr, want))
			}
		}
	}

	textdoc.SortEdits(edits)
	return edits
}

// Convert returns the tag and attribute edits as one batch sorted by offset.
// The edits do not overlap and must be applied together.
func Convert(meta *sfc.TemplateMetadata, components []string, propsOf PropsOf, tag TagCasing, attr AttrCasing) []textdoc.TextEdit {
	edits := ConvertTags(meta, components, tag)
	edits = append(edits, ConvertAttrs(meta, components, propsOf, attr)...)
	textdoc.SortEdits(edits)
	return edits
}

func tagForm(component string, target TagCasing) string {
	if target == TagKebab {
		return Hyphenate(component)
	}
	return component
}

func attrForm(prop string, target AttrCasing) string {
	if target == AttrKebab {
		return Hyphenate(prop)
	}
	return prop
}

func matchProp(attr string, props []string) (string, bool) {
	for _, prop := range props {
		if prop == attr || Hyphenate(prop) == attr {
			return prop, true
		}
	}
	return "", false
}

func replace(start int, written, with string) textdoc.TextEdit {
	return textdoc.TextEdit{Start: start, End: start + len(written), NewText: with}
}
