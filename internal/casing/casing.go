// Package casing infers the naming convention a component template uses for
// component tags and attributes, and produces the text edits that normalize a
// template to a chosen convention.
//
// Detection, preference resolution and conversion are pure functions of the
// template metadata and the known component and prop names.
package casing

import (
	"strings"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// TagCasing is a naming convention for component tags.
type TagCasing int

const (
	TagKebab TagCasing = iota
	TagPascal
)

// String returns the convention name.
func (c TagCasing) String() string {
	switch c {
	case TagKebab:
		return "kebab"
	case TagPascal:
		return "pascal"
	default:
		return "unknown"
	}
}

// AttrCasing is a naming convention for attributes.
type AttrCasing int

const (
	AttrKebab AttrCasing = iota
	AttrCamel
)

// String returns the convention name.
func (c AttrCasing) String() string {
	switch c {
	case AttrKebab:
		return "kebab"
	case AttrCamel:
		return "camel"
	default:
		return "unknown"
	}
}

// MarshalText encodes the convention by name.
func (c TagCasing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a convention name.
func (c *TagCasing) UnmarshalText(text []byte) error {
	parsed, err := ParseTagCasing(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText encodes the convention by name.
func (c AttrCasing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a convention name.
func (c *AttrCasing) UnmarshalText(text []byte) error {
	parsed, err := ParseAttrCasing(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseTagCasing parses "kebab" or "pascal".
func ParseTagCasing(s string) (TagCasing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kebab":
		return TagKebab, nil
	case "pascal":
		return TagPascal, nil
	}
	return 0, lenserrors.NewValidationError(lenserrors.ErrCodeValidationFailed,
		"tag casing must be kebab or pascal, got "+s)
}

// ParseAttrCasing parses "kebab" or "camel".
func ParseAttrCasing(s string) (AttrCasing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kebab":
		return AttrKebab, nil
	case "camel":
		return AttrCamel, nil
	}
	return 0, lenserrors.NewValidationError(lenserrors.ErrCodeValidationFailed,
		"attribute casing must be kebab or camel, got "+s)
}

// Hyphenate inserts a hyphen before every upper-case ASCII letter that
// follows a word character, then lower-cases the result.
//
//	MyButton  -> my-button
//	my-Button -> my-button
//	HTML5Tag  -> h-t-m-l5-tag
func Hyphenate(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) {
			if i > 0 && isWordChar(s[i-1]) {
				b.WriteByte('-')
			}
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return strings.ToLower(b.String())
}

// Camelize removes every hyphen that precedes a word character and
// upper-cases that character.
func Camelize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && i+1 < len(s) && isWordChar(s[i+1]) {
			i++
			b.WriteByte(toUpper(s[i]))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Capitalize upper-cases the first byte of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(toUpper(s[0])) + s[1:]
}

// PascalCase converts a kebab-case or camelCase name to PascalCase.
func PascalCase(s string) string {
	return Capitalize(Camelize(s))
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || isUpper(c) || (c >= '0' && c <= '9')
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
