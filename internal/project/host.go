package project

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// Host reads config documents and performs the host's own parsing pass:
// compiler options inherited through extends, and the project file list.
type Host interface {
	ReadConfig(path string) (RawOptions, error)
	ParseConfig(raw RawOptions, path string, extraExtensions []string) *ParsedConfig
}

// ParsedConfig is the host's view of one config document.
type ParsedConfig struct {
	FileNames []string
	Options   RawOptions
	// Errors are the failures met while following extends for compiler
	// options. The resolver walks the same chain and reports its own.
	Errors []error
}

var (
	// SourceExtensions are always part of a project.
	SourceExtensions = []string{".ts", ".tsx", ".mts", ".cts"}
	// ScriptExtensions are part of a project when allowJs is set.
	ScriptExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}

	defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

	// compiler options holding paths relative to the config declaring them
	pathOptions = []string{"outDir", "rootDir", "baseUrl", "declarationDir", "tsBuildInfoFile"}
)

// FileHost reads configs from disk. JSON documents may contain comments and
// trailing commas; .yaml, .yml and .toml documents are accepted as well.
type FileHost struct {
	Modules ModuleResolver
}

// NewFileHost creates a host resolving extends with ExtendsResolver.
func NewFileHost() *FileHost {
	return &FileHost{Modules: ExtendsResolver()}
}

// ReadConfig reads and decodes the config at path.
func (h *FileHost) ReadConfig(path string) (RawOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, lenserrors.WrapIO(err, lenserrors.ErrCodeConfigUnreadable, "cannot read config")
	}
	return DecodeConfig(data, path)
}

// DecodeConfig decodes a config document, choosing the format by the
// extension of path. An empty document decodes to an empty record.
func DecodeConfig(data []byte, path string) (RawOptions, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return RawOptions{}, nil
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, lenserrors.NewConfigError(lenserrors.ErrCodeConfigInvalid, "invalid YAML", err).WithFile(path)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, lenserrors.NewConfigError(lenserrors.ErrCodeConfigInvalid, "invalid TOML", err).WithFile(path)
		}
	default:
		doc := jsonc.ToJSON(data)
		if !gjson.ValidBytes(doc) {
			return nil, lenserrors.NewConfigError(lenserrors.ErrCodeConfigInvalid, "invalid JSON", nil).WithFile(path)
		}
		m, ok := gjson.ParseBytes(doc).Value().(map[string]any)
		if !ok {
			return nil, lenserrors.NewConfigError(lenserrors.ErrCodeConfigInvalid, "config must be an object", nil).WithFile(path)
		}
		raw = m
	}

	return RawOptions(raw), nil
}

// ParseConfig merges the compilerOptions of the extends chain (the
// document's own options win) and lists the project files.
func (h *FileHost) ParseConfig(raw RawOptions, path string, extraExtensions []string) *ParsedConfig {
	parsed := &ParsedConfig{}
	visited := map[string]bool{canonicalPath(path): true}
	options, specs := h.inherit(raw, path, visited, parsed)

	parsed.Options = options
	parsed.FileNames = listFiles(specs, projectExtensions(options, extraExtensions), options)
	return parsed
}

type specList struct {
	values []string
	dir    string
	set    bool
}

type fileSpecs struct {
	files   specList
	include specList
	exclude specList
}

func (s *fileSpecs) override(o fileSpecs) {
	if o.files.set {
		s.files = o.files
	}
	if o.include.set {
		s.include = o.include
	}
	if o.exclude.set {
		s.exclude = o.exclude
	}
}

func (h *FileHost) inherit(raw RawOptions, path string, visited map[string]bool, parsed *ParsedConfig) (RawOptions, fileSpecs) {
	dir := filepath.Dir(path)
	options := RawOptions{}
	specs := fileSpecs{}

	for _, entry := range extendsEntries(raw["extends"]) {
		base, err := h.resolveExtends(entry, dir)
		if err != nil {
			parsed.Errors = append(parsed.Errors, lenserrors.ErrExtendsUnresolvable(path, entry, err))
			continue
		}
		if visited[base] {
			continue
		}
		visited[base] = true

		baseRaw, err := h.ReadConfig(base)
		if err != nil {
			parsed.Errors = append(parsed.Errors, lenserrors.ErrConfigUnreadable(base, err))
			continue
		}
		baseOptions, baseSpecs := h.inherit(baseRaw, base, visited, parsed)
		options.Merge(baseOptions)
		specs.override(baseSpecs)
	}

	if own, ok := asMap(raw["compilerOptions"]); ok {
		for k, v := range own {
			options[k] = v
		}
		for _, key := range pathOptions {
			if s, ok := own[key].(string); ok && s != "" && !filepath.IsAbs(s) {
				options[key] = filepath.Join(dir, filepath.FromSlash(s))
			}
		}
	}

	specs.override(fileSpecs{
		files:   ownSpec(raw, "files", dir),
		include: ownSpec(raw, "include", dir),
		exclude: ownSpec(raw, "exclude", dir),
	})
	if !specs.include.set && !specs.files.set {
		specs.include = specList{values: []string{"**/*"}, dir: dir}
	}

	return options, specs
}

func (h *FileHost) resolveExtends(entry, dir string) (string, error) {
	modules := h.Modules
	if modules == nil {
		modules = ExtendsResolver()
	}
	p, err := modules.Resolve(entry, dir)
	if err != nil {
		return "", err
	}
	return canonicalPath(manifestConfig(p)), nil
}

func ownSpec(raw RawOptions, key, dir string) specList {
	v, ok := raw[key]
	if !ok || v == nil {
		return specList{}
	}
	return specList{values: toStrings(v), dir: dir, set: true}
}

// projectExtensions returns the file extensions that belong to a project.
func projectExtensions(options RawOptions, extra []string) []string {
	exts := append([]string(nil), SourceExtensions...)
	if allow, _ := options["allowJs"].(bool); allow {
		exts = append(exts, ScriptExtensions...)
	}
	return appendUnique(exts, extra)
}

// listFiles expands the files, include and exclude specs.
func listFiles(specs fileSpecs, exts []string, options RawOptions) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(p string) {
		p = canonicalPath(p)
		if !seen[p] {
			seen[p] = true
			names = append(names, p)
		}
	}

	for _, f := range specs.files.values {
		p := f
		if !filepath.IsAbs(p) {
			p = filepath.Join(specs.files.dir, filepath.FromSlash(f))
		}
		if isFile(p) {
			add(p)
		}
	}

	if specs.include.set || len(specs.include.values) > 0 {
		root := specs.include.dir
		include := normalizeSpecs(specs.include.values, specs.include.dir, root, true)

		excludeValues, excludeDir := specs.exclude.values, specs.exclude.dir
		if !specs.exclude.set {
			excludeValues, excludeDir = append([]string(nil), defaultExcludes...), root
			if outDir, ok := options["outDir"].(string); ok && outDir != "" {
				excludeValues = append(excludeValues, outDir)
			}
		}
		exclude := normalizeSpecs(excludeValues, excludeDir, root, false)

		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if p == root {
				return nil
			}
			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") || excluded(exclude, rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || !hasExtension(p, exts) || excluded(exclude, rel) {
				return nil
			}
			if matchesAny(include, rel) {
				add(p)
			}
			return nil
		})
	}

	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	return names
}

// normalizeSpecs rewrites specs declared relative to dir as slash patterns
// relative to root. Include entries naming a directory match everything
// below it.
func normalizeSpecs(specs []string, dir, root string, include bool) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		p := s
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, filepath.FromSlash(s))
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = "**/*"
		}
		last := rel[strings.LastIndex(rel, "/")+1:]
		if include && !strings.ContainsAny(last, "*?[.") {
			rel += "/**/*"
		}
		if !doublestar.ValidatePattern(rel) {
			continue
		}
		out = append(out, rel)
	}
	return out
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func hasExtension(p string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// extendsEntries normalizes an extends value: absent is empty, a string is
// a single entry, a list is kept in order.
func extendsEntries(v any) []string {
	if v == nil {
		return nil
	}
	return toStrings(v)
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case RawOptions:
		return t, true
	default:
		return nil, false
	}
}
