package casing

import (
	"strings"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// TagPreference is the user's preferred tag casing. The auto variants defer
// to the template when it shows a single convention.
type TagPreference string

const (
	TagPreferAutoKebab  TagPreference = "auto-kebab"
	TagPreferAutoPascal TagPreference = "auto-pascal"
	TagPreferKebab      TagPreference = "kebab"
	TagPreferPascal     TagPreference = "pascal"
)

// AttrPreference is the user's preferred attribute casing.
type AttrPreference string

const (
	AttrPreferAutoKebab AttrPreference = "auto-kebab"
	AttrPreferAutoCamel AttrPreference = "auto-camel"
	AttrPreferKebab     AttrPreference = "kebab"
	AttrPreferCamel     AttrPreference = "camel"
)

// ParseTagPreference validates a tag preference string.
func ParseTagPreference(s string) (TagPreference, error) {
	p := TagPreference(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case TagPreferAutoKebab, TagPreferAutoPascal, TagPreferKebab, TagPreferPascal:
		return p, nil
	}
	return "", lenserrors.NewValidationError(lenserrors.ErrCodeValidationFailed,
		"invalid tag casing preference: "+s)
}

// ParseAttrPreference validates an attribute preference string.
func ParseAttrPreference(s string) (AttrPreference, error) {
	p := AttrPreference(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case AttrPreferAutoKebab, AttrPreferAutoCamel, AttrPreferKebab, AttrPreferCamel:
		return p, nil
	}
	return "", lenserrors.NewValidationError(lenserrors.ErrCodeValidationFailed,
		"invalid attribute casing preference: "+s)
}

func (p TagPreference) auto() bool {
	return p == TagPreferAutoKebab || p == TagPreferAutoPascal
}

func (p AttrPreference) auto() bool {
	return p == AttrPreferAutoKebab || p == AttrPreferAutoCamel
}

// ResolveTagCasing picks one tag convention. A single vote wins under an
// auto preference; otherwise the convention the preference names is used,
// and Pascal when there is no usable preference.
func ResolveTagCasing(votes []TagCasing, pref TagPreference) TagCasing {
	if len(votes) == 1 && pref.auto() {
		return votes[0]
	}
	if pref == TagPreferAutoKebab || pref == TagPreferKebab {
		return TagKebab
	}
	return TagPascal
}

// ResolveAttrCasing picks one attribute convention. A single vote wins under
// an auto preference; otherwise the convention the preference names is used,
// and Kebab when there is no usable preference.
func ResolveAttrCasing(votes []AttrCasing, pref AttrPreference) AttrCasing {
	if len(votes) == 1 && pref.auto() {
		return votes[0]
	}
	if pref == AttrPreferAutoCamel || pref == AttrPreferCamel {
		return AttrCamel
	}
	return AttrKebab
}

// Preference is a resolved pair of conventions.
type Preference struct {
	Tag  TagCasing
	Attr AttrCasing
}

// Resolve resolves both conventions from one set of votes.
func Resolve(votes Votes, tag TagPreference, attr AttrPreference) Preference {
	return Preference{
		Tag:  ResolveTagCasing(votes.Tag, tag),
		Attr: ResolveAttrCasing(votes.Attr, attr),
	}
}
