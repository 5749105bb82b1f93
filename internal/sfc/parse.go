// Package sfc splits single-file component documents into their top-level
// blocks and extracts the template metadata the casing engine works on.
//
// Block boundaries and template tags are found with the golang.org/x/net/html
// tokenizer. The tokenizer lower-cases tag names, so written names and their
// offsets are always read back from the raw token text.
package sfc

import (
	"strings"

	"golang.org/x/net/html"
)

// Block is one top-level block of a component document.
type Block struct {
	// Type is the lower-cased tag name: template, script, style or a custom block.
	Type  string
	Attrs map[string]string
	// Content is the text between the start tag and the end tag.
	Content string
	// Start is the offset of Content in the document (the end of the start tag).
	Start int
	// End is the offset of the end tag in the document.
	End int
}

// Lang returns the block's lang attribute, if any.
func (b *Block) Lang() string {
	return b.Attrs["lang"]
}

// Descriptor is the parsed structure of a component document.
type Descriptor struct {
	Source       string
	Template     *Block
	Script       *Block
	ScriptSetup  *Block
	Styles       []*Block
	CustomBlocks []*Block
}

// Parse splits source into its top-level blocks. Unclosed blocks run to the
// end of the document; only the first template, script and script setup
// blocks are kept.
func Parse(source string) *Descriptor {
	desc := &Descriptor{Source: source}

	z := html.NewTokenizer(strings.NewReader(source))
	offset := 0
	depth := 0
	var current *Block

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		raw := z.Raw()
		offset += len(raw)

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			keepMarkup(z, raw)
			name, hasAttr := z.TagName()
			tag := string(name)

			if current == nil {
				block := &Block{Type: tag, Attrs: readAttrs(z, hasAttr), Start: offset, End: offset}
				if tt == html.SelfClosingTagToken {
					desc.add(block)
					continue
				}
				current = block
				depth = 1
				continue
			}
			if tt == html.StartTagToken && tag == current.Type {
				depth++
			}
		case html.EndTagToken:
			if current == nil {
				continue
			}
			name, _ := z.TagName()
			if string(name) != current.Type {
				continue
			}
			depth--
			if depth == 0 {
				current.End = start
				current.Content = source[current.Start:start]
				desc.add(current)
				current = nil
			}
		}
	}

	if current != nil {
		current.End = len(source)
		current.Content = source[current.Start:]
		desc.add(current)
	}

	return desc
}

// keepMarkup stops a component tag such as <Title> or <Script/> from switching
// the tokenizer into raw text. Only the lowercase element names are raw text.
func keepMarkup(z *html.Tokenizer, raw []byte) {
	for i := 1; i < len(raw) && !isNameEnd(raw[i]); i++ {
		if 'A' <= raw[i] && raw[i] <= 'Z' {
			z.NextIsNotRawText()
			return
		}
	}
}

func (d *Descriptor) add(b *Block) {
	switch b.Type {
	case "template":
		if d.Template == nil {
			d.Template = b
		}
	case "script":
		if _, setup := b.Attrs["setup"]; setup {
			if d.ScriptSetup == nil {
				d.ScriptSetup = b
			}
		} else if d.Script == nil {
			d.Script = b
		}
	case "style":
		d.Styles = append(d.Styles, b)
	default:
		d.CustomBlocks = append(d.CustomBlocks, b)
	}
}

func readAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}
	return attrs
}

// ScriptContent returns the concatenated content of the script blocks,
// script first, script setup second.
func (d *Descriptor) ScriptContent() string {
	var parts []string
	if d.Script != nil {
		parts = append(parts, d.Script.Content)
	}
	if d.ScriptSetup != nil {
		parts = append(parts, d.ScriptSetup.Content)
	}
	return strings.Join(parts, "\n")
}
