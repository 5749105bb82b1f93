package sfc

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// TagOccurrences lists where a written tag name appears and which
// attribute names are written on it.
type TagOccurrences struct {
	// Offsets of the tag name in start and end tags, relative to the template content.
	Offsets []int
	// Attrs maps each written attribute name to its offsets.
	Attrs map[string][]int
}

// TemplateMetadata maps every distinct written tag name of a template to
// its occurrences.
type TemplateMetadata struct {
	// Content is the raw template content.
	Content string
	// Start is the offset of Content in the document.
	Start int
	Tags  map[string]*TagOccurrences
}

// NewTemplateMetadata returns empty metadata for content starting at start.
func NewTemplateMetadata(content string, start int) *TemplateMetadata {
	return &TemplateMetadata{
		Content: content,
		Start:   start,
		Tags:    make(map[string]*TagOccurrences),
	}
}

// AddTag records an occurrence of tag at offset.
func (m *TemplateMetadata) AddTag(tag string, offset int) {
	m.occurrences(tag).Offsets = append(m.occurrences(tag).Offsets, offset)
}

// AddAttr records an occurrence of attr written on tag at offset.
func (m *TemplateMetadata) AddAttr(tag, attr string, offset int) {
	occ := m.occurrences(tag)
	occ.Attrs[attr] = append(occ.Attrs[attr], offset)
}

func (m *TemplateMetadata) occurrences(tag string) *TagOccurrences {
	occ, ok := m.Tags[tag]
	if !ok {
		occ = &TagOccurrences{Attrs: make(map[string][]int)}
		m.Tags[tag] = occ
	}
	return occ
}

// HasTag reports whether tag is written anywhere in the template.
func (m *TemplateMetadata) HasTag(tag string) bool {
	_, ok := m.Tags[tag]
	return ok
}

// TagNames returns the written tag names in sorted order.
func (m *TemplateMetadata) TagNames() []string {
	names := make([]string, 0, len(m.Tags))
	for name := range m.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttrNames returns the attribute names written on tag in sorted order.
func (m *TemplateMetadata) AttrNames(tag string) []string {
	occ, ok := m.Tags[tag]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(occ.Attrs))
	for name := range occ.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateMetadata extracts tag and attribute occurrences from the
// template block. It returns nil when the document has no template.
func (d *Descriptor) TemplateMetadata() *TemplateMetadata {
	if d.Template == nil {
		return nil
	}
	return ExtractTemplate(d.Template.Content, d.Template.Start)
}

// ExtractTemplate tokenizes template content and records every written tag
// name (start and end tags) and every attribute name. Directive arguments
// such as :foo, v-bind:foo, @foo and #foo are recorded under the argument
// name at the argument's offset; directives without a static argument are
// skipped.
func ExtractTemplate(content string, start int) *TemplateMetadata {
	meta := NewTemplateMetadata(content, start)

	z := html.NewTokenizer(strings.NewReader(content))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := string(z.Raw())
		base := offset
		offset += len(raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			keepMarkup(z, z.Raw())
			scanStartTag(meta, raw, base)
		case html.EndTagToken:
			scanEndTag(meta, raw, base)
		}
	}

	return meta
}

func scanStartTag(meta *TemplateMetadata, raw string, base int) {
	if len(raw) < 2 || raw[0] != '<' {
		return
	}
	i := 1
	j := i
	for j < len(raw) && !isNameEnd(raw[j]) {
		j++
	}
	tag := raw[i:j]
	if tag == "" {
		return
	}
	meta.AddTag(tag, base+i)

	for j < len(raw) {
		c := raw[j]
		if isSpace(c) || c == '/' {
			j++
			continue
		}
		if c == '>' {
			break
		}

		k := j
		for k < len(raw) && !isNameEnd(raw[k]) && raw[k] != '=' {
			k++
		}
		if k == j {
			j++
			continue
		}
		if name, rel, ok := attrName(raw[j:k]); ok {
			meta.AddAttr(tag, name, base+j+rel)
		}
		j = skipValue(raw, k)
	}
}

func scanEndTag(meta *TemplateMetadata, raw string, base int) {
	if len(raw) < 3 || !strings.HasPrefix(raw, "</") {
		return
	}
	i := 2
	j := i
	for j < len(raw) && !isNameEnd(raw[j]) {
		j++
	}
	if j > i {
		meta.AddTag(raw[i:j], base+i)
	}
}

// attrName maps a written attribute to the name it binds and the offset of
// that name inside the written attribute.
func attrName(attr string) (string, int, bool) {
	var arg string
	var rel int

	switch {
	case strings.HasPrefix(attr, "v-"):
		colon := strings.IndexByte(attr, ':')
		if colon < 0 {
			return "", 0, false
		}
		arg, rel = attr[colon+1:], colon+1
	case attr[0] == ':' || attr[0] == '@' || attr[0] == '#' || attr[0] == '.':
		arg, rel = attr[1:], 1
	default:
		return attr, 0, true
	}

	if strings.HasPrefix(arg, "[") {
		return "", 0, false
	}
	if dot := strings.IndexByte(arg, '.'); dot >= 0 {
		arg = arg[:dot]
	}
	if arg == "" {
		return "", 0, false
	}
	return arg, rel, true
}

// skipValue moves past an optional =value following an attribute name.
func skipValue(raw string, i int) int {
	j := i
	for j < len(raw) && isSpace(raw[j]) {
		j++
	}
	if j >= len(raw) || raw[j] != '=' {
		return i
	}
	j++
	for j < len(raw) && isSpace(raw[j]) {
		j++
	}
	if j >= len(raw) {
		return j
	}
	if q := raw[j]; q == '"' || q == '\'' {
		end := strings.IndexByte(raw[j+1:], q)
		if end < 0 {
			return len(raw)
		}
		return j + 1 + end + 1
	}
	for j < len(raw) && !isSpace(raw[j]) && raw[j] != '>' {
		j++
	}
	return j
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameEnd(c byte) bool {
	return isSpace(c) || c == '/' || c == '>'
}
