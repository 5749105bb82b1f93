package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vuelens/internal/sfc"
	"github.com/conneroisu/vuelens/internal/textdoc"
)

const convertDocument = "<template>\n  <MyButton :itemCount=\"1\" label-text=\"x\" other=\"y\"></MyButton>\n  <Unknown/>\n</template>"

var convertComponents = []string{"MyButton"}

func convertProps(component string) []string {
	if component == "MyButton" {
		return []string{"itemCount", "labelText"}
	}
	return nil
}

func metadataOf(t *testing.T, source string) *sfc.TemplateMetadata {
	t.Helper()
	meta := sfc.Parse(source).TemplateMetadata()
	require.NotNil(t, meta)
	return meta
}

func TestConvertTagsToKebab(t *testing.T) {
	edits := ConvertTags(metadataOf(t, "<template><MyButton/></template>"), convertComponents, TagKebab)

	require.Len(t, edits, 1)
	assert.Equal(t, textdoc.TextEdit{Start: 11, End: 19, NewText: "my-button"}, edits[0])
}

func TestConvertTagsEditsEndTags(t *testing.T) {
	edits := ConvertTags(metadataOf(t, convertDocument), convertComponents, TagKebab)

	assert.Equal(t, []textdoc.TextEdit{
		{Start: 14, End: 22, NewText: "my-button"},
		{Start: 65, End: 73, NewText: "my-button"},
	}, edits)
}

func TestConvertTagsToPascal(t *testing.T) {
	source := "<template><my-button></my-button><MyButton/></template>"
	edits := ConvertTags(metadataOf(t, source), convertComponents, TagPascal)

	out, err := textdoc.Apply(source, edits)
	require.NoError(t, err)
	assert.Equal(t, "<template><MyButton></MyButton><MyButton/></template>", out)
}

func TestConvertNeverEditsUnknownTags(t *testing.T) {
	source := "<template><Unknown/><other-thing/><div/></template>"
	meta := metadataOf(t, source)

	assert.Empty(t, ConvertTags(meta, convertComponents, TagKebab))
	assert.Empty(t, ConvertTags(meta, convertComponents, TagPascal))
	assert.Empty(t, Convert(meta, convertComponents, convertProps, TagKebab, AttrKebab))
}

func TestConvertAttrs(t *testing.T) {
	tests := []struct {
		name     string
		target   AttrCasing
		expected []textdoc.TextEdit
	}{
		{
			name:     "kebab",
			target:   AttrKebab,
			expected: []textdoc.TextEdit{{Start: 24, End: 33, NewText: "item-count"}},
		},
		{
			name:     "camel",
			target:   AttrCamel,
			expected: []textdoc.TextEdit{{Start: 38, End: 48, NewText: "labelText"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := ConvertAttrs(metadataOf(t, convertDocument), convertComponents, convertProps, tt.target)
			assert.Equal(t, tt.expected, edits)
		})
	}
}

func TestConvertAttrsWithoutProps(t *testing.T) {
	meta := metadataOf(t, convertDocument)

	assert.Empty(t, ConvertAttrs(meta, convertComponents, nil, AttrKebab))
	assert.Empty(t, ConvertAttrs(meta, convertComponents, func(string) []string { return nil }, AttrKebab))
}

func TestConvertIsIdempotent(t *testing.T) {
	targets := []struct {
		tag  TagCasing
		attr AttrCasing
		want string
	}{
		{
			TagKebab, AttrKebab,
			"<template>\n  <my-button :item-count=\"1\" label-text=\"x\" other=\"y\"></my-button>\n  <Unknown/>\n</template>",
		},
		{
			TagPascal, AttrCamel,
			"<template>\n  <MyButton :itemCount=\"1\" labelText=\"x\" other=\"y\"></MyButton>\n  <Unknown/>\n</template>",
		},
	}

	for _, tt := range targets {
		t.Run(tt.tag.String()+"/"+tt.attr.String(), func(t *testing.T) {
			edits := Convert(metadataOf(t, convertDocument), convertComponents, convertProps, tt.tag, tt.attr)
			out, err := textdoc.Apply(convertDocument, edits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)

			again := Convert(metadataOf(t, out), convertComponents, convertProps, tt.tag, tt.attr)
			assert.Empty(t, again)
		})
	}
}

func TestConvertSortsEdits(t *testing.T) {
	edits := Convert(metadataOf(t, convertDocument), convertComponents, convertProps, TagKebab, AttrKebab)

	require.Len(t, edits, 3)
	for i := 1; i < len(edits); i++ {
		assert.Less(t, edits[i-1].Start, edits[i].Start)
	}
}

func TestConvertFirstMatchingComponentWins(t *testing.T) {
	edits := ConvertTags(metadataOf(t, "<template><my-button/></template>"), []string{"MyButton", "myButton"}, TagPascal)

	require.Len(t, edits, 1)
	assert.Equal(t, "MyButton", edits[0].NewText)
}

func TestConvertInsideRawTextNamedComponent(t *testing.T) {
	source := `<template><Title><MyButton :itemCount="1"/></Title><MyButton/></template>`
	meta := metadataOf(t, source)

	edits := Convert(meta, []string{"Title", "MyButton"}, convertProps, TagKebab, AttrKebab)
	out, err := textdoc.Apply(source, edits)
	require.NoError(t, err)
	assert.Equal(t, `<template><title><my-button :item-count="1"/></title><my-button/></template>`, out)
}
