package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conneroisu/vuelens/internal/project"
	"github.com/conneroisu/vuelens/internal/scanner"
	"github.com/conneroisu/vuelens/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [tsconfig]",
	Short: "Keep project options and components current as files change",
	Long: `Watch the extends chain of a project config and the component scan
paths. Config changes re-resolve the effective compiler options; component
changes update the registry.

Examples:
  vuelens watch                   # Watch tsconfig.json and the scan paths
  vuelens watch tsconfig.app.json
  vuelens watch --verbose         # Print every change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchFlags *StandardFlags

func init() {
	rootCmd.AddCommand(watchCmd)

	watchFlags = AddStandardFlags(watchCmd, []string{"text"}, "output")
}

// watchSession holds the state a change handler updates.
type watchSession struct {
	ws      *workspace
	scanner *scanner.ComponentScanner
	fw      *watcher.FileWatcher
	target  string
	out     io.Writer
	verbose bool

	mu    sync.RWMutex
	chain map[string]bool
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := watchFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws, err := newWorkspace(cmd)
	if err != nil {
		return err
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	}
	if err := ws.resolve(ctx, target); err != nil {
		return err
	}

	s := ws.newScanner()
	defer s.Close()
	ws.scan(ctx, s)

	fw, err := watcher.NewFileWatcher(ws.cfg.Watch.Debounce, watcher.WithLogger(ws.logger))
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	session := &watchSession{
		ws:      ws,
		scanner: s,
		fw:      fw,
		target:  target,
		out:     cmd.OutOrStdout(),
		verbose: watchFlags.Verbose,
	}
	defer ws.close()

	if err := session.setup(ctx); err != nil {
		return err
	}
	if !watchFlags.Quiet {
		session.printSummary()
		fmt.Fprintf(session.out, "Found %d components\n", ws.registry.Count())
	}
	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	if !watchFlags.Quiet {
		fmt.Fprintln(session.out, "Watching for changes... (Press Ctrl+C to stop)")
	}

	<-ctx.Done()
	if !watchFlags.Quiet {
		fmt.Fprintln(session.out, "Stopping file watcher...")
	}
	return nil
}

func (s *watchSession) setup(ctx context.Context) error {
	s.setChain(s.ws.parsed.Chain)
	for _, file := range s.ws.parsed.Chain {
		if err := s.fw.AddFile(file); err != nil {
			s.ws.logger.Warn(ctx, err, "Failed to watch config file", "path", file)
		}
	}

	excludes := append(append([]string{}, scanner.DefaultExcludes...), s.ws.cfg.Components.ExcludePatterns...)
	for _, path := range s.ws.cfg.Components.ScanPaths {
		if err := s.fw.AddRecursive(path, excludes...); err != nil {
			s.ws.logger.Warn(ctx, err, "Failed to watch path", "path", path)
		} else if s.verbose {
			fmt.Fprintf(s.out, "  - Watching: %s\n", path)
		}
	}

	s.fw.AddFilter(watcher.NoNodeModulesFilter)
	s.fw.AddFilter(watcher.NoGitFilter)
	s.fw.AddFilter(watcher.AnyFilter(s.isChainFile, watcher.ExtensionFilter(s.ws.extensions()...)))
	s.fw.AddHandler(func(events []watcher.ChangeEvent) error {
		return s.handle(ctx, events)
	})
	return nil
}

func (s *watchSession) setChain(files []string) {
	chain := make(map[string]bool, len(files))
	for _, f := range files {
		chain[filepath.Clean(f)] = true
	}
	s.mu.Lock()
	s.chain = chain
	s.mu.Unlock()
}

func (s *watchSession) isChainFile(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chain[filepath.Clean(path)]
}

// handle re-resolves the project when a chain file changed and rescans
// the changed component documents.
func (s *watchSession) handle(ctx context.Context, events []watcher.ChangeEvent) error {
	var reresolve bool
	var components int

	for _, event := range events {
		if s.verbose {
			fmt.Fprintf(s.out, "  %s: %s\n", event.Type, event.Path)
		}
		if s.isChainFile(event.Path) {
			reresolve = true
			continue
		}

		components++
		if event.Gone() {
			if n := s.scanner.RemoveFile(event.Path); n > 0 {
				s.ws.logger.Debug(ctx, "Removed components", "path", event.Path, "count", n)
			}
			continue
		}
		if err := s.scanner.ScanFile(event.Path); err != nil {
			s.ws.logger.Warn(ctx, err, "Failed to scan component", "path", event.Path)
		}
	}

	if components > 0 {
		s.ws.cache.Purge()
		fmt.Fprintf(s.out, "%d component file(s) changed, %d components registered\n",
			components, s.ws.registry.Count())
	}
	if reresolve {
		return s.reresolve(ctx)
	}
	return nil
}

func (s *watchSession) reresolve(ctx context.Context) error {
	previous := s.ws.options.Plugins
	if err := s.ws.resolve(ctx, s.target); err != nil {
		return err
	}
	project.ClosePlugins(previous)

	s.setChain(s.ws.parsed.Chain)
	for _, file := range s.ws.parsed.Chain {
		if err := s.fw.AddFile(file); err != nil {
			s.ws.logger.Warn(ctx, err, "Failed to watch config file", "path", file)
		}
	}

	color.New(color.FgCyan).Fprintln(s.out, "Project config changed")
	s.printSummary()
	return nil
}

func (s *watchSession) printSummary() {
	opts := s.ws.options
	fmt.Fprintf(s.out, "Config: %s (%d in chain)\n", s.ws.configPath, len(s.ws.parsed.Chain))
	fmt.Fprintf(s.out, "  target: %v  extensions: %v  plugins: %v\n", opts.Target, opts.Extensions, opts.PluginNames())
	for _, e := range s.ws.parsed.Errors {
		color.New(color.FgYellow).Fprintf(s.out, "  warning: %s\n", e.Error())
	}
}
