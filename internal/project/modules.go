package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// ModuleResolver maps a module specifier written in a config file to a
// canonical file path, relative to the directory of that config.
type ModuleResolver interface {
	Resolve(spec, baseDir string) (string, error)
}

// NodeResolver resolves specifiers the way node's require.resolve does:
// relative and absolute paths are tried as files, then with each extension,
// then as directories; bare specifiers are looked up in node_modules
// directories from baseDir upwards.
type NodeResolver struct {
	// Extensions are appended to file candidates, in order.
	Extensions []string
	// ManifestFields are package.json fields naming a package's entry file,
	// in order of preference.
	ManifestFields []string
	// IndexFiles are tried inside a directory when no manifest field applies.
	IndexFiles []string
}

// ExtendsResolver resolves "extends" entries: .json files, and packages
// through their "tsconfig" manifest field or a tsconfig.json at their root.
func ExtendsResolver() *NodeResolver {
	return &NodeResolver{
		Extensions:     []string{".json"},
		ManifestFields: []string{"tsconfig"},
		IndexFiles:     []string{"tsconfig.json"},
	}
}

// PluginResolver resolves plugin, hook and language module paths.
func PluginResolver() *NodeResolver {
	return &NodeResolver{
		Extensions:     []string{".lua", ".js", ".cjs", ".mjs", ".json"},
		ManifestFields: []string{"main"},
		IndexFiles:     []string{"index.lua", "index.js"},
	}
}

// Resolve implements ModuleResolver.
func (r *NodeResolver) Resolve(spec, baseDir string) (string, error) {
	if spec == "" {
		return "", r.notFound(spec, baseDir)
	}

	if isPathSpecifier(spec) {
		candidate := spec
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(baseDir, filepath.FromSlash(spec))
		}
		if p, ok := r.resolvePath(candidate); ok {
			return canonicalPath(p), nil
		}
		return "", r.notFound(spec, baseDir)
	}

	for dir := baseDir; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(spec))
		if p, ok := r.resolvePath(candidate); ok {
			return canonicalPath(p), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
	}
	return "", r.notFound(spec, baseDir)
}

func (r *NodeResolver) resolvePath(candidate string) (string, bool) {
	if isFile(candidate) {
		return candidate, true
	}
	for _, ext := range r.Extensions {
		if isFile(candidate + ext) {
			return candidate + ext, true
		}
	}
	if isDir(candidate) {
		return r.resolveDir(candidate)
	}
	return "", false
}

func (r *NodeResolver) resolveDir(dir string) (string, bool) {
	if entry, ok := manifestEntry(filepath.Join(dir, "package.json"), r.ManifestFields); ok {
		target := filepath.Join(dir, filepath.FromSlash(entry))
		if isFile(target) {
			return target, true
		}
		for _, ext := range r.Extensions {
			if isFile(target + ext) {
				return target + ext, true
			}
		}
	}
	for _, index := range r.IndexFiles {
		if p := filepath.Join(dir, index); isFile(p) {
			return p, true
		}
	}
	return "", false
}

func (r *NodeResolver) notFound(spec, baseDir string) error {
	return lenserrors.NewModuleError(lenserrors.ErrCodeModuleUnresolvable,
		"cannot find module '"+spec+"'", nil).WithContext("base", baseDir)
}

// manifestEntry reads the first non-empty string field of a package.json.
func manifestEntry(manifest string, fields []string) (string, bool) {
	if len(fields) == 0 {
		return "", false
	}
	data, err := os.ReadFile(manifest)
	if err != nil || !gjson.ValidBytes(data) {
		return "", false
	}
	for _, field := range fields {
		if v := gjson.GetBytes(data, field); v.Type == gjson.String && v.Str != "" {
			return v.Str, true
		}
	}
	return "", false
}

// manifestConfig maps a resolved package.json to the config it points at:
// its "tsconfig" field, or a tsconfig.json next to it. Other paths are
// returned unchanged.
func manifestConfig(path string) string {
	if filepath.Base(path) != "package.json" {
		return path
	}
	dir := filepath.Dir(path)
	if entry, ok := manifestEntry(path, []string{"tsconfig"}); ok {
		target := filepath.Join(dir, filepath.FromSlash(entry))
		if isFile(target) {
			return canonicalPath(target)
		}
		if isFile(target + ".json") {
			return canonicalPath(target + ".json")
		}
	}
	if p := filepath.Join(dir, "tsconfig.json"); isFile(p) {
		return canonicalPath(p)
	}
	return path
}

// isPathSpecifier reports whether spec is a relative or absolute path
// rather than a package name.
func isPathSpecifier(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, ".\\") || strings.HasPrefix(spec, "..\\") ||
		filepath.IsAbs(spec) || strings.HasPrefix(spec, "/")
}

// canonicalPath returns the absolute, symlink-free form of p when it can be
// computed, and the cleaned absolute path otherwise.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
