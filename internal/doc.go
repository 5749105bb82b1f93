// Package internal contains the core implementation packages for vuelens.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the vuelens CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - project: tsconfig/jsconfig extends resolution, plugin loading and option defaults
//   - sfc: Single-file component parsing and template metadata
//   - casing: Tag and attribute naming convention detection and conversion
//   - textdoc: Text edits and editor position mapping
//   - config: vuelens configuration management with validation
//   - errors: Structured error types and collection
//   - logging: Structured logging on log/slog
//   - registry: Component registry and event broadcasting system
//   - scanner: File system scanning and prop extraction
//   - watcher: File system monitoring with debouncing
//   - validation: Path, pattern and value checks shared by config and cmd
//   - version: Build information
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - project resolves the effective compiler options and the project file list
//   - Scanner processes files and populates the registry
//   - Registry acts as the central event hub for component changes
//   - casing reads template metadata from sfc and answers with textdoc edits
//   - Watcher monitors the file system and triggers rescans and re-resolution
//
// # Concurrency
//
// The resolver is safe for concurrent use; resolutions share no mutable
// state. The registry guards its map with a read-write mutex and the
// scanner fans file parsing out over a worker pool.
//
// For detailed documentation, see the individual package documentation.
package internal
