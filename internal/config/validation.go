package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/conneroisu/vuelens/internal/casing"
	"github.com/conneroisu/vuelens/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation errors:\n")
		writeIssues(&builder, vr.Errors)
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation warnings:\n")
		writeIssues(&builder, vr.Warnings)
	}

	return builder.String()
}

func writeIssues(builder *strings.Builder, issues []ValidationError) {
	for _, issue := range issues {
		fmt.Fprintf(builder, "  - %s: %s\n", issue.Field, issue.Message)
		for _, suggestion := range issue.Suggestions {
			fmt.Fprintf(builder, "    hint: %s\n", suggestion)
		}
	}
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{
		Field:       field,
		Value:       value,
		Message:     message,
		Suggestions: suggestions,
	})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateCasingConfigDetails(&config.Casing, result)
	validateProjectConfigDetails(&config.Project, result)
	validateComponentsConfigDetails(&config.Components, result)
	validateLoggingConfigDetails(&config.Logging, result)

	if config.Cache.Size < 0 {
		result.addError("cache.size", config.Cache.Size, "cache size must not be negative",
			fmt.Sprintf("Use the default of %d", casing.DefaultCacheSize))
	} else if config.Cache.Size > 0 && config.Cache.Size < 16 {
		result.addWarning("cache.size", config.Cache.Size, "very small cache, detection results will be recomputed often")
	}

	if config.Watch.Debounce < 0 {
		result.addError("watch.debounce", config.Watch.Debounce, "debounce must not be negative",
			"Use a duration such as 100ms")
	}

	return result
}

func validateCasingConfigDetails(config *CasingConfig, result *ValidationResult) {
	if _, err := casing.ParseTagPreference(config.Tag); err != nil {
		result.addError("casing.tag", config.Tag, err.Error(),
			"Use one of auto-kebab, auto-pascal, kebab, pascal")
	}
	if _, err := casing.ParseAttrPreference(config.Attr); err != nil {
		result.addError("casing.attr", config.Attr, err.Error(),
			"Use one of auto-kebab, auto-camel, kebab, camel")
	}
}

func validateProjectConfigDetails(config *ProjectConfig, result *ValidationResult) {
	if err := validation.ValidatePath(config.Tsconfig); err != nil {
		result.addError("project.tsconfig", config.Tsconfig, err.Error(),
			"Point at a tsconfig.json or jsconfig.json inside the project")
	} else if !pathExists(config.Tsconfig) {
		result.addWarning("project.tsconfig", config.Tsconfig, "file does not exist, inline defaults will be used",
			"Create a tsconfig.json with a vueCompilerOptions section")
	}

	seen := make(map[string]bool)
	for i, ext := range config.ExtraExtensions {
		field := fmt.Sprintf("project.extra_extensions[%d]", i)
		if err := validation.ValidateExtension(ext); err != nil {
			result.addError(field, ext, err.Error(), "Write extensions with a leading dot, like .md")
			continue
		}
		if ext == ".vue" {
			result.addWarning(field, ext, ".vue is always treated as a component file")
		}
		if seen[ext] {
			result.addWarning(field, ext, "duplicate extension")
		}
		seen[ext] = true
	}
}

func validateComponentsConfigDetails(config *ComponentsConfig, result *ValidationResult) {
	if len(config.ScanPaths) == 0 {
		result.addError("components.scan_paths", config.ScanPaths,
			"no scan paths specified - no components will be found",
			"Add './src/components' to scan for components",
			"Add '.' to scan the whole project")
	}

	for i, path := range config.ScanPaths {
		field := fmt.Sprintf("components.scan_paths[%d]", i)
		if err := validation.ValidatePath(path); err != nil {
			result.addError(field, path, err.Error(),
				"Use relative paths from project root",
				"Avoid parent directory references (..)")
			continue
		}

		if !pathExists(path) {
			result.addWarning(field, path, "directory does not exist",
				"Create the directory: mkdir -p "+path,
				"Check for typos in the path")
		}
	}

	for i, pattern := range config.ExcludePatterns {
		if err := validation.ValidatePattern(pattern); err != nil {
			result.addError(fmt.Sprintf("components.exclude_patterns[%d]", i), pattern, err.Error(),
				"Use doublestar syntax such as **/legacy/**")
		}
	}
}

func validateLoggingConfigDetails(config *LoggingConfig, result *ValidationResult) {
	levels := []string{"debug", "info", "warn", "warning", "error"}
	if err := validation.OneOf(strings.ToLower(config.Level), levels); err != nil {
		result.addWarning("logging.level", config.Level, err.Error()+", info will be used")
	}
	if err := validation.OneOf(config.Format, []string{"text", "json"}); err != nil {
		result.addError("logging.format", config.Format, err.Error(),
			"Use text for terminals and json for log collectors")
	}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
