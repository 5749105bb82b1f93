// Package project resolves the effective compiler configuration of a
// component project.
//
// A project config (tsconfig.json, jsconfig.json or a YAML/TOML equivalent)
// may inherit from other configs through "extends". The Resolver walks that
// chain, merges the vueCompilerOptions of every config it enters, loads the
// declared language plugins and resolves hook module paths. Defaultize turns
// the merged, partial options into a CompilerOptions value in which every
// field is set.
//
// Resolution never fails as a whole. An unreadable root config yields an
// empty result; unresolvable extends entries, plugins and hooks are dropped,
// logged and recorded in ParsedCommandLine.Errors.
package project

import (
	"sort"
)

// RawOptions is an untyped options record as read from a config document.
// Merging is key-wise: a later record replaces whole values of an earlier one.
type RawOptions map[string]any

// Clone returns a shallow copy of o.
func (o RawOptions) Clone() RawOptions {
	c := make(RawOptions, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Merge copies every key of src into o, replacing existing values.
func (o RawOptions) Merge(src RawOptions) RawOptions {
	for k, v := range src {
		o[k] = v
	}
	return o
}

// Keys returns the option names in sorted order.
func (o RawOptions) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParsedCommandLine is the result of resolving one config file.
type ParsedCommandLine struct {
	// FileNames lists the project files selected by the host.
	FileNames []string `json:"fileNames" yaml:"fileNames"`
	// Options holds the host compiler options.
	Options RawOptions `json:"options" yaml:"options"`
	// VueOptions holds the merged, not yet defaulted, component compiler options.
	VueOptions RawOptions `json:"vueOptions" yaml:"vueOptions"`
	// Chain lists every config entered, in visit order, starting with this one.
	Chain []string `json:"chain" yaml:"chain"`
	// Errors records the non-fatal failures met along the chain.
	Errors []error `json:"-" yaml:"-"`
}

func emptyCommandLine() *ParsedCommandLine {
	return &ParsedCommandLine{
		FileNames:  []string{},
		Options:    RawOptions{},
		VueOptions: RawOptions{},
	}
}

// Plugins returns the loaded language plugins of the merged options.
func (p *ParsedCommandLine) Plugins() []LanguagePlugin {
	plugins, _ := p.VueOptions["plugins"].([]LanguagePlugin)
	return plugins
}

// VisitedSet records the configs already entered by one top-level
// resolution. It must not be shared between independent resolutions.
type VisitedSet map[string]struct{}

// NewVisitedSet returns an empty set.
func NewVisitedSet() VisitedSet {
	return make(VisitedSet)
}

// Add inserts path.
func (v VisitedSet) Add(path string) {
	v[path] = struct{}{}
}

// Has reports whether path was entered.
func (v VisitedSet) Has(path string) bool {
	_, ok := v[path]
	return ok
}

// Len returns the number of entered configs.
func (v VisitedSet) Len() int {
	return len(v)
}
