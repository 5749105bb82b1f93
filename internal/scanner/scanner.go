// Package scanner discovers single-file components in a project.
//
// The scanner walks a project directory (or the file list of a resolved
// config) for component documents, extracts their declared props and
// imported components, and registers them with the component registry so
// casing detection and conversion can match template tags and attributes
// against real components. File hashes skip documents that did not change
// since the last scan.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"

	"github.com/conneroisu/vuelens/internal/casing"
	"github.com/conneroisu/vuelens/internal/logging"
	"github.com/conneroisu/vuelens/internal/registry"
	"github.com/conneroisu/vuelens/internal/sfc"
)

// DefaultExcludes are the directories never descended into.
var DefaultExcludes = []string{"**/node_modules", "**/dist", "**/.*"}

// ScanJob represents a scanning job for the worker pool containing the file
// path to scan and a result channel for asynchronous communication.
type ScanJob struct {
	filePath string
	result   chan<- ScanResult
}

// ScanResult represents the result of scanning one file.
type ScanResult struct {
	filePath string
	err      error
}

// WorkerPool manages persistent scanning workers.
type WorkerPool struct {
	jobQueue    chan ScanJob
	workers     []*ScanWorker
	workerCount int
	scanner     *ComponentScanner
	stop        chan struct{}
	stopped     bool
	mu          sync.RWMutex
}

// ScanWorker processes scanning jobs from the shared job queue.
type ScanWorker struct {
	id       int
	jobQueue <-chan ScanJob
	scanner  *ComponentScanner
	stop     chan struct{}
}

// ComponentScanner discovers components and registers them.
type ComponentScanner struct {
	registry   *registry.ComponentRegistry
	workerPool *WorkerPool
	logger     logging.Logger
	extensions []string
	excludes   []string
	workers    int
}

// Option configures a ComponentScanner.
type Option func(*ComponentScanner)

// WithExtensions sets the component file extensions.
func WithExtensions(exts ...string) Option {
	return func(s *ComponentScanner) {
		s.extensions = exts
	}
}

// WithExcludes adds doublestar patterns, relative to the scanned directory,
// for paths to skip.
func WithExcludes(patterns ...string) Option {
	return func(s *ComponentScanner) {
		s.excludes = append(s.excludes, patterns...)
	}
}

// WithLogger sets the logger scan failures are reported to.
func WithLogger(logger logging.Logger) Option {
	return func(s *ComponentScanner) {
		s.logger = logger
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(s *ComponentScanner) {
		s.workers = n
	}
}

// NewComponentScanner creates a new component scanner with its worker pool
func NewComponentScanner(reg *registry.ComponentRegistry, opts ...Option) *ComponentScanner {
	scanner := &ComponentScanner{
		registry:   reg,
		logger:     logging.Discard(),
		extensions: []string{".vue"},
		excludes:   append([]string(nil), DefaultExcludes...),
	}
	for _, opt := range opts {
		opt(scanner)
	}
	scanner.logger = scanner.logger.WithComponent("scanner")

	workerCount := scanner.workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
		if workerCount > 8 {
			workerCount = 8 // Cap at 8 workers for diminishing returns
		}
	}

	scanner.workerPool = NewWorkerPool(workerCount, scanner)
	return scanner
}

// NewWorkerPool creates a new worker pool for scanning operations
func NewWorkerPool(workerCount int, scanner *ComponentScanner) *WorkerPool {
	pool := &WorkerPool{
		jobQueue:    make(chan ScanJob, workerCount*2),
		workerCount: workerCount,
		scanner:     scanner,
		stop:        make(chan struct{}),
	}

	pool.workers = make([]*ScanWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		worker := &ScanWorker{
			id:       i,
			jobQueue: pool.jobQueue,
			scanner:  scanner,
			stop:     make(chan struct{}),
		}
		pool.workers[i] = worker
		go worker.start()
	}

	return pool
}

// start begins the worker's processing loop
func (w *ScanWorker) start() {
	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			err := w.scanner.scanFileInternal(job.filePath)
			job.result <- ScanResult{
				filePath: job.filePath,
				err:      err,
			}
		case <-w.stop:
			return
		}
	}
}

// Stop gracefully shuts down the worker pool
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}

	p.stopped = true
	close(p.stop)

	for _, worker := range p.workers {
		close(worker.stop)
	}
}

// submit queues a job unless the pool is stopped or full.
func (p *WorkerPool) submit(job ScanJob) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// GetRegistry returns the component registry
func (s *ComponentScanner) GetRegistry() *registry.ComponentRegistry {
	return s.registry
}

// Close gracefully shuts down the scanner and its worker pool
func (s *ComponentScanner) Close() error {
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	return nil
}

// ScanDirectory scans a directory tree for components.
func (s *ComponentScanner) ScanDirectory(ctx context.Context, dir string) error {
	root, err := s.validatePath(dir)
	if err != nil {
		return fmt.Errorf("invalid directory path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if s.excluded(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && s.IsComponentFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "Collected component files", "dir", root, "files", len(files))
	return s.ScanFiles(ctx, files)
}

// ScanFiles scans the component documents among files, such as the file
// list of a resolved project config. Other files are ignored.
func (s *ComponentScanner) ScanFiles(ctx context.Context, files []string) error {
	var components []string
	for _, f := range files {
		if s.IsComponentFile(f) {
			components = append(components, f)
		}
	}
	return s.processBatchWithWorkerPool(ctx, components)
}

// processBatchWithWorkerPool processes files using the persistent worker pool
func (s *ComponentScanner) processBatchWithWorkerPool(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	// For very small batches, process synchronously to avoid overhead
	if len(files) <= 5 {
		return s.processBatchSynchronous(ctx, files)
	}

	resultChan := make(chan ScanResult, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			resultChan <- ScanResult{filePath: file, err: err}
			continue
		}
		if !s.workerPool.submit(ScanJob{filePath: file, result: resultChan}) {
			// Worker pool is full, process synchronously as fallback
			resultChan <- ScanResult{filePath: file, err: s.scanFileInternal(file)}
		}
	}

	var errs []error
	for i := 0; i < len(files); i++ {
		result := <-resultChan
		if result.err != nil {
			s.logger.Warn(ctx, result.err, "Skipping component file", "path", result.filePath)
			errs = append(errs, fmt.Errorf("scanning %s: %w", result.filePath, result.err))
		}
	}

	return scanErrors(errs)
}

// processBatchSynchronous processes small batches synchronously
func (s *ComponentScanner) processBatchSynchronous(ctx context.Context, files []string) error {
	var errs []error

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.scanFileInternal(file); err != nil {
			s.logger.Warn(ctx, err, "Skipping component file", "path", file)
			errs = append(errs, fmt.Errorf("scanning %s: %w", file, err))
		}
	}

	return scanErrors(errs)
}

func scanErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("scan completed with %d errors: %w", len(errs), errors.Join(errs...))
}

// ScanFile scans a single component document.
func (s *ComponentScanner) ScanFile(path string) error {
	return s.scanFileInternal(path)
}

// RemoveFile drops the components declared in a deleted document.
func (s *ComponentScanner) RemoveFile(path string) int {
	cleanPath, err := s.validatePath(path)
	if err != nil {
		return 0
	}
	return s.registry.RemoveFile(cleanPath)
}

func (s *ComponentScanner) scanFileInternal(path string) error {
	cleanPath, err := s.validatePath(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", cleanPath, err)
	}
	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", cleanPath, err)
	}

	name := ComponentName(cleanPath)
	hash := strconv.FormatUint(xxhash.Sum64(content), 16)
	if existing, ok := s.registry.Get(name); ok && existing.FilePath == cleanPath && existing.Hash == hash {
		return nil
	}

	doc := sfc.Parse(string(content))

	imports := []string{}
	for _, imp := range doc.ImportedComponents() {
		imports = append(imports, imp.Name)
	}

	props := doc.DeclaredProps()
	if props == nil {
		props = []string{}
	}

	s.registry.Register(&registry.ComponentInfo{
		Name:     name,
		FilePath: cleanPath,
		Props:    props,
		Imports:  imports,
		LastMod:  info.ModTime(),
		Hash:     hash,
	})
	return nil
}

// IsComponentFile reports whether path has a component extension.
func (s *ComponentScanner) IsComponentFile(path string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (s *ComponentScanner) excluded(rel string) bool {
	for _, pattern := range s.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ComponentName derives the component name from a file name:
// todo-item.vue and TodoItem.vue both declare TodoItem.
func ComponentName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return casing.PascalCase(base)
}

// validatePath returns the cleaned absolute form of path.
func (s *ComponentScanner) validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("path contains null byte: %q", path)
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("getting absolute path: %w", err)
	}
	return absPath, nil
}

