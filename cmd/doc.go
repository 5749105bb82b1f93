// Package cmd provides the command-line interface for vuelens.
//
// This package implements all CLI commands using the Cobra framework.
//
// # Available Commands
//
//   - config resolve: Print the effective component compiler options of a project config
//   - config validate: Validate the vuelens configuration with suggestions
//   - config show: Print the loaded vuelens configuration
//   - casing detect: Report the tag and attribute casing a component template uses
//   - casing convert: Rewrite a template to a tag and attribute casing
//   - components list: List discovered components with their props
//   - watch: Re-resolve the project config and rescan components on change
//   - version: Show version information
//
// # Command Examples
//
//	// Effective options as JSON
//	vuelens config resolve tsconfig.app.json --format json
//
//	// Editor-ready edits for a conversion
//	vuelens casing convert src/App.vue --tag kebab --attr camel --json
//
//	// Convert in place
//	vuelens casing convert src/App.vue --tag pascal --write
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (VUELENS_*)
//  3. Configuration file (.vuelens.yml)
//  4. Default values (lowest priority)
package cmd
