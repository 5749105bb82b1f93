package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuelens/internal/casing"
	"github.com/conneroisu/vuelens/internal/config"
	lenserrors "github.com/conneroisu/vuelens/internal/errors"
	"github.com/conneroisu/vuelens/internal/logging"
	"github.com/conneroisu/vuelens/internal/project"
	"github.com/conneroisu/vuelens/internal/registry"
	"github.com/conneroisu/vuelens/internal/scanner"
	"github.com/conneroisu/vuelens/internal/sfc"
)

// workspace ties the loaded configuration to the project config resolver,
// the component registry and the detection cache.
type workspace struct {
	cfg      *config.Config
	logger   *logging.LensLogger
	resolver *project.Resolver
	registry *registry.ComponentRegistry
	cache    *casing.Cache

	configPath string
	options    project.CompilerOptions
	parsed     *project.ParsedCommandLine
}

func newWorkspace(cmd *cobra.Command) (*workspace, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newWorkspaceWith(cfg, cmd.ErrOrStderr())
}

func newWorkspaceWith(cfg *config.Config, logOutput io.Writer) (*workspace, error) {
	lc := cfg.LoggerConfig()
	lc.Output = logOutput
	logger := logging.NewLogger(lc)

	cache, err := casing.NewCache(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create detection cache: %w", err)
	}

	resolver := project.NewResolver(
		project.WithLogger(logger),
		project.WithUserAgent(cfg.Project.UserAgent),
		project.WithExtraExtensions(cfg.Project.ExtraExtensions...),
	)

	return &workspace{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		registry: registry.NewComponentRegistry(),
		cache:    cache,
	}, nil
}

// resolve computes the effective compiler options of configPath, or of the
// configured tsconfig when configPath is empty. A missing config resolves as
// an empty inline document in the current directory.
func (w *workspace) resolve(ctx context.Context, configPath string) error {
	if configPath == "" {
		configPath = w.cfg.Project.Tsconfig
	}
	abs, err := filepath.Abs(configPath)
	if err != nil || strings.ContainsRune(configPath, 0) {
		return lenserrors.ErrInvalidPath(configPath)
	}

	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) && configPath == w.cfg.Project.Tsconfig {
		w.logger.Debug(ctx, "No project config found, using inline defaults", "path", abs)
		w.options, w.parsed = w.resolver.EffectiveInline(ctx, filepath.Dir(abs), nil)
	} else {
		w.options, w.parsed = w.resolver.Effective(ctx, abs)
	}
	w.configPath = abs
	return nil
}

// close releases the plugins loaded by the last resolve.
func (w *workspace) close() {
	project.ClosePlugins(w.options.Plugins)
}

// extensions returns the component file extensions: the resolved options'
// extensions plus the configured extras.
func (w *workspace) extensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, list := range [][]string{w.options.Extensions, w.cfg.Project.ExtraExtensions} {
		for _, ext := range list {
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	if len(exts) == 0 {
		exts = []string{".vue"}
	}
	return exts
}

func (w *workspace) newScanner() *scanner.ComponentScanner {
	excludes := append(append([]string{}, scanner.DefaultExcludes...), w.cfg.Components.ExcludePatterns...)
	return scanner.NewComponentScanner(w.registry,
		scanner.WithExtensions(w.extensions()...),
		scanner.WithExcludes(excludes...),
		scanner.WithLogger(w.logger),
	)
}

// scan discovers the components under every configured scan path.
func (w *workspace) scan(ctx context.Context, s *scanner.ComponentScanner) {
	defer w.logger.StartOperation("scan").End(ctx)
	for _, path := range w.cfg.Components.ScanPaths {
		if err := s.ScanDirectory(ctx, path); err != nil {
			w.logger.Warn(ctx, err, "Failed to scan directory", "path", path)
		}
	}
}

// visibleComponents returns the components a document can use: every
// registered component followed by the ones its script imports.
func (w *workspace) visibleComponents(desc *sfc.Descriptor) []string {
	names := w.registry.Names()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	for _, imp := range desc.ImportedComponents() {
		if !seen[imp.Name] {
			seen[imp.Name] = true
			names = append(names, imp.Name)
		}
	}
	return names
}

// propsOf returns the declared props of a registered component, falling
// back to the document's own imports resolved relative to docPath.
func (w *workspace) propsOf(desc *sfc.Descriptor, docPath string) casing.PropsOf {
	imported := make(map[string]string)
	for _, imp := range desc.ImportedComponents() {
		imported[imp.Name] = filepath.Join(filepath.Dir(docPath), filepath.FromSlash(imp.Source))
	}

	return func(component string) []string {
		if props := w.registry.PropNames(component); props != nil {
			return props
		}
		path, ok := imported[component]
		if !ok {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return sfc.Parse(string(content)).DeclaredProps()
	}
}
