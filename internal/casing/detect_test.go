package casing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conneroisu/vuelens/internal/sfc"
)

func TestDetectTags(t *testing.T) {
	tests := []struct {
		name       string
		template   string
		components []string
		expected   []TagCasing
	}{
		{
			name:       "pascal only",
			template:   `<MyButton/>`,
			components: []string{"MyButton"},
			expected:   []TagCasing{TagPascal},
		},
		{
			name:       "mixed usage",
			template:   `<MyButton/><my-button/>`,
			components: []string{"MyButton"},
			expected:   []TagCasing{TagPascal, TagKebab},
		},
		{
			name:       "mixed usage reversed order",
			template:   `<my-button></my-button><MyButton/>`,
			components: []string{"MyButton"},
			expected:   []TagCasing{TagPascal, TagKebab},
		},
		{
			name:       "kebab only",
			template:   `<my-button/><div/>`,
			components: []string{"MyButton"},
			expected:   []TagCasing{TagKebab},
		},
		{
			name:       "no component used",
			template:   `<div><Unknown/></div>`,
			components: []string{"MyButton"},
			expected:   nil,
		},
		{
			name:       "unknown pascal tags do not vote",
			template:   `<Unknown/><my-button/>`,
			components: []string{"MyButton"},
			expected:   []TagCasing{TagKebab},
		},
		{
			name:       "lower-cased single word component votes kebab",
			template:   `<card/>`,
			components: []string{"Card"},
			expected:   []TagCasing{TagKebab},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := Detect(sfc.ExtractTemplate(tt.template, 0), tt.components)
			assert.Equal(t, tt.expected, votes.Tag)
		})
	}
}

func TestDetectAttrs(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected []AttrCasing
	}{
		{"camel", `<div fooBar="1"/>`, []AttrCasing{AttrCamel}},
		{"kebab", `<div foo-bar="1"/>`, []AttrCasing{AttrKebab}},
		{"mixed across tags", `<a foo-bar/><b :bazQux="x"/>`, []AttrCasing{AttrCamel, AttrKebab}},
		{"plain", `<div id="x" class="y"/>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := Detect(sfc.ExtractTemplate(tt.template, 0), nil)
			assert.Equal(t, tt.expected, votes.Attr)
			assert.Empty(t, votes.Tag)
		})
	}
}

func TestDetectNilTemplate(t *testing.T) {
	assert.Equal(t, Votes{}, Detect(nil, []string{"MyButton"}))
	assert.Equal(t, Votes{}, DetectDocument("<script>export default {}</script>", []string{"MyButton"}))
}

func TestDetectDocument(t *testing.T) {
	votes := DetectDocument("<template>\n  <MyButton item-count=\"1\"/>\n</template>", []string{"MyButton"})

	assert.Equal(t, []TagCasing{TagPascal}, votes.Tag)
	assert.Equal(t, []AttrCasing{AttrKebab}, votes.Attr)
}
