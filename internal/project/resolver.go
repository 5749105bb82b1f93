package project

import (
	"context"
	"path/filepath"
	"strings"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
	"github.com/conneroisu/vuelens/internal/logging"
)

// InlineConfigName is the file name an inline config document is resolved as.
const InlineConfigName = "jsconfig.json"

// Resolver resolves config inheritance chains.
type Resolver struct {
	host           Host
	extendsModules ModuleResolver
	modules        ModuleResolver
	loader         Loader
	logger         logging.Logger
	userAgent      string
	extensions     []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHost sets the config reader and parser.
func WithHost(host Host) Option {
	return func(r *Resolver) {
		r.host = host
	}
}

// WithExtendsResolver sets the resolver for extends entries.
func WithExtendsResolver(m ModuleResolver) Option {
	return func(r *Resolver) {
		r.extendsModules = m
	}
}

// WithModuleResolver sets the resolver for plugin, hook and language module
// paths.
func WithModuleResolver(m ModuleResolver) Option {
	return func(r *Resolver) {
		r.modules = m
	}
}

// WithLoader sets the plugin loader.
func WithLoader(l Loader) Option {
	return func(r *Resolver) {
		r.loader = l
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// WithUserAgent sets the package manager user agent, as found in
// npm_config_user_agent. Under pnpm, bare extends entries are first tried
// as ./node_modules/<name>/package.json.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithExtraExtensions adds file extensions to the project file list on top
// of the component extension.
func WithExtraExtensions(exts ...string) Option {
	return func(r *Resolver) {
		r.extensions = appendUnique(r.extensions, exts)
	}
}

// NewResolver creates a resolver reading configs from disk and loading Lua
// plugins.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		extendsModules: ExtendsResolver(),
		modules:        PluginResolver(),
		loader:         DefaultLoader(),
		logger:         logging.Discard(),
		extensions:     []string{".vue"},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.host == nil {
		r.host = &FileHost{Modules: r.extendsModules}
	}
	r.logger = r.logger.WithComponent("project")
	return r
}

// Resolve resolves the config at path with a fresh visited set.
func (r *Resolver) Resolve(ctx context.Context, path string) *ParsedCommandLine {
	return r.ResolveWith(ctx, path, NewVisitedSet())
}

// ResolveWith resolves the config at path, skipping configs already in
// visited. The set is shared by every config of one resolution and must not
// be reused for another.
func (r *Resolver) ResolveWith(ctx context.Context, path string, visited VisitedSet) *ParsedCommandLine {
	path = canonicalPath(path)

	raw, err := r.host.ReadConfig(path)
	if err != nil {
		lerr := lenserrors.ErrConfigUnreadable(path, err)
		r.logger.Error(ctx, lerr, "Failed to resolve config path", "path", path)

		result := emptyCommandLine()
		result.Errors = []error{lerr}
		return result
	}

	parsed := r.host.ParseConfig(raw, path, r.extensions)
	options := RawOptions{}
	if parsed.Options != nil {
		options = parsed.Options.Clone()
	}
	// outDir from the host pass is never propagated.
	delete(options, "outDir")

	return r.resolveBase(ctx, raw, path, parsed.FileNames, options, visited)
}

// ResolveInline resolves an in-memory config document as if it were
// rootDir/jsconfig.json. The host's outDir is kept.
func (r *Resolver) ResolveInline(ctx context.Context, rootDir string, raw RawOptions) *ParsedCommandLine {
	if raw == nil {
		raw = RawOptions{}
	}
	path := filepath.Join(canonicalPath(rootDir), InlineConfigName)

	parsed := r.host.ParseConfig(raw, path, r.extensions)
	options := RawOptions{}
	if parsed.Options != nil {
		options = parsed.Options.Clone()
	}

	return r.resolveBase(ctx, raw, path, parsed.FileNames, options, NewVisitedSet())
}

func (r *Resolver) resolveBase(
	ctx context.Context,
	raw RawOptions,
	path string,
	fileNames []string,
	options RawOptions,
	visited VisitedSet,
) *ParsedCommandLine {
	visited.Add(path)

	dir := filepath.Dir(path)
	log := r.logger.With("config", path)

	result := &ParsedCommandLine{
		FileNames: fileNames,
		Options:   options,
		Chain:     []string{path},
	}
	if result.FileNames == nil {
		result.FileNames = []string{}
	}

	inherited := RawOptions{}
	for _, entry := range extendsEntries(raw["extends"]) {
		resolved, err := r.resolveExtends(entry, dir)
		if err != nil {
			lerr := lenserrors.ErrExtendsUnresolvable(path, entry, err)
			log.Warn(ctx, lerr, "Skipping extends entry", "entry", entry)
			result.Errors = append(result.Errors, lerr)
			continue
		}
		if visited.Has(resolved) {
			log.Debug(ctx, "Extends entry already visited", "entry", entry, "resolved", resolved)
			continue
		}

		child := r.ResolveWith(ctx, resolved, visited)
		result.Chain = append(result.Chain, child.Chain...)
		result.Errors = append(result.Errors, child.Errors...)
		inherited.Merge(child.VueOptions)
	}

	own := RawOptions{}
	if m, ok := asMap(raw["vueCompilerOptions"]); ok {
		own = RawOptions(m).Clone()
	}
	if plugins, ok := own["plugins"]; ok && plugins != nil {
		own["plugins"] = r.loadPlugins(ctx, log, plugins, dir, path, result)
	}

	vueOptions := inherited.Clone().Merge(own)
	for _, key := range []string{"hooks", "experimentalAdditionalLanguageModules"} {
		if v, ok := vueOptions[key]; ok && v != nil {
			vueOptions[key] = r.resolveModules(ctx, log, v, dir, path, result)
		}
	}
	result.VueOptions = vueOptions

	log.Debug(ctx, "Resolved config",
		"chain", len(result.Chain),
		"files", len(result.FileNames),
		"errors", len(result.Errors),
	)
	return result
}

// resolveExtends resolves one extends entry to the config it names.
func (r *Resolver) resolveExtends(entry, dir string) (string, error) {
	if strings.HasPrefix(r.userAgent, "pnpm/") && !isPathSpecifier(entry) {
		manifest := "./node_modules/" + entry + "/package.json"
		if p, err := r.extendsModules.Resolve(manifest, dir); err == nil {
			return canonicalPath(manifestConfig(p)), nil
		}
	}

	p, err := r.extendsModules.Resolve(entry, dir)
	if err != nil {
		return "", err
	}
	// The visited set holds canonical paths.
	return canonicalPath(manifestConfig(p)), nil
}

func (r *Resolver) loadPlugins(
	ctx context.Context,
	log logging.Logger,
	v any,
	dir, path string,
	result *ParsedCommandLine,
) []LanguagePlugin {
	plugins := []LanguagePlugin{}

	var entries []any
	switch t := v.(type) {
	case []any:
		entries = t
	case []string:
		for _, s := range t {
			entries = append(entries, s)
		}
	case []LanguagePlugin:
		return append(plugins, t...)
	case string:
		entries = []any{t}
	}

	for _, entry := range entries {
		switch e := entry.(type) {
		case LanguagePlugin:
			plugins = append(plugins, e)
		case string:
			plugin, err := r.loadPlugin(e, dir)
			if err != nil {
				lerr := lenserrors.ErrPluginUnloadable(path, e, err)
				log.Warn(ctx, lerr, "Load plugin failed", "plugin", e)
				result.Errors = append(result.Errors, lerr)
				continue
			}
			plugins = append(plugins, plugin)
		}
	}
	return plugins
}

func (r *Resolver) loadPlugin(spec, dir string) (LanguagePlugin, error) {
	resolved, err := r.modules.Resolve(spec, dir)
	if err != nil {
		return nil, err
	}
	if r.loader == nil {
		return nil, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable, "no plugin loader configured", nil)
	}
	return r.loader.Load(resolved)
}

func (r *Resolver) resolveModules(
	ctx context.Context,
	log logging.Logger,
	v any,
	dir, path string,
	result *ParsedCommandLine,
) []string {
	resolved := []string{}
	for _, entry := range toStrings(v) {
		p, err := r.modules.Resolve(entry, dir)
		if err != nil {
			lerr := lenserrors.ErrModuleUnresolvable(path, entry, err)
			log.Warn(ctx, lerr, "Failed to resolve path", "module", entry)
			result.Errors = append(result.Errors, lerr)
			continue
		}
		resolved = append(resolved, p)
	}
	return resolved
}

// Effective resolves the config at path, applies defaults and runs the
// loaded plugins over the result.
func (r *Resolver) Effective(ctx context.Context, path string) (CompilerOptions, *ParsedCommandLine) {
	return r.effective(ctx, r.Resolve(ctx, path))
}

// EffectiveInline is Effective for an in-memory config document.
func (r *Resolver) EffectiveInline(ctx context.Context, rootDir string, raw RawOptions) (CompilerOptions, *ParsedCommandLine) {
	return r.effective(ctx, r.ResolveInline(ctx, rootDir, raw))
}

func (r *Resolver) effective(ctx context.Context, parsed *ParsedCommandLine) (CompilerOptions, *ParsedCommandLine) {
	opts := Defaultize(parsed.VueOptions)

	for _, err := range ApplyPlugins(&opts) {
		r.logger.Warn(ctx, err, "Plugin failed to resolve options", "config", parsed.Chain)
		parsed.Errors = append(parsed.Errors, err)
	}
	return opts, parsed
}
