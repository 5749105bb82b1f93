package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/conneroisu/vuelens/internal/sfc"
)

// DependencyAnalyzer analyzes which registered components a template uses
type DependencyAnalyzer struct {
	registry *ComponentRegistry
}

// NewDependencyAnalyzer creates a new dependency analyzer
func NewDependencyAnalyzer(registry *ComponentRegistry) *DependencyAnalyzer {
	return &DependencyAnalyzer{
		registry: registry,
	}
}

// AnalyzeComponent reads the component file and returns the registered
// components its template uses.
func (da *DependencyAnalyzer) AnalyzeComponent(component *ComponentInfo) ([]string, error) {
	content, err := os.ReadFile(component.FilePath)
	if err != nil {
		return []string{}, fmt.Errorf("failed to read file %s: %w", component.FilePath, err)
	}

	return da.AnalyzeComponentFromContent(string(content), component.Name), nil
}

// AnalyzeComponentFromContent analyzes dependencies from raw document source
func (da *DependencyAnalyzer) AnalyzeComponentFromContent(content, componentName string) []string {
	meta := sfc.Parse(content).TemplateMetadata()
	if meta == nil {
		return []string{}
	}

	da.registry.mutex.RLock()
	defer da.registry.mutex.RUnlock()

	dependencies := make(map[string]bool)
	for _, tag := range meta.TagNames() {
		dep, exists := da.registry.lookup(tag)
		// Don't include self-references
		if exists && dep.Name != componentName {
			dependencies[dep.Name] = true
		}
	}

	result := make([]string, 0, len(dependencies))
	for dep := range dependencies {
		result = append(result, dep)
	}
	sort.Strings(result)
	return result
}

// UpdateAllDependencies updates dependencies for all components. Components
// whose file cannot be read keep their previous dependencies.
func (da *DependencyAnalyzer) UpdateAllDependencies() error {
	components := da.registry.GetAll()

	for _, component := range components {
		deps, err := da.AnalyzeComponent(component)
		if err != nil {
			continue
		}

		da.registry.mutex.Lock()
		if existing := da.registry.components[component.Name]; existing != nil {
			existing.Dependencies = deps
		}
		da.registry.mutex.Unlock()
	}

	return nil
}

// GetDependents returns components that depend on the given component
func (da *DependencyAnalyzer) GetDependents(componentName string) []*ComponentInfo {
	var dependents []*ComponentInfo

	da.registry.mutex.RLock()
	defer da.registry.mutex.RUnlock()

	for _, name := range da.registry.sortedNames() {
		component := da.registry.components[name]
		for _, dep := range component.Dependencies {
			if dep == componentName {
				dependents = append(dependents, component)
				break
			}
		}
	}

	return dependents
}

// GetDependencyGraph returns the full dependency graph
func (da *DependencyAnalyzer) GetDependencyGraph() map[string][]string {
	graph := make(map[string][]string)

	da.registry.mutex.RLock()
	defer da.registry.mutex.RUnlock()

	for name, component := range da.registry.components {
		graph[name] = make([]string, len(component.Dependencies))
		copy(graph[name], component.Dependencies)
	}

	return graph
}

// DetectCircularDependencies detects circular dependencies in the graph
func (da *DependencyAnalyzer) DetectCircularDependencies() [][]string {
	var cycles [][]string
	graph := da.GetDependencyGraph()

	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, component := range names {
		if !visited[component] {
			if cycle := da.detectCycleDFS(component, graph, visited, recStack, nil); cycle != nil {
				cycles = append(cycles, cycle)
			}
		}
	}

	return cycles
}

// detectCycleDFS performs DFS to detect cycles
func (da *DependencyAnalyzer) detectCycleDFS(component string, graph map[string][]string, visited, recStack map[string]bool, path []string) []string {
	visited[component] = true
	recStack[component] = true
	path = append(path, component)

	for _, dep := range graph[component] {
		if !visited[dep] {
			if cycle := da.detectCycleDFS(dep, graph, visited, recStack, path); cycle != nil {
				return cycle
			}
		} else if recStack[dep] {
			cycleStart := -1
			for i, p := range path {
				if p == dep {
					cycleStart = i
					break
				}
			}
			if cycleStart >= 0 {
				cycle := make([]string, len(path)-cycleStart+1)
				copy(cycle, path[cycleStart:])
				cycle[len(cycle)-1] = dep // Close the cycle
				return cycle
			}
		}
	}

	recStack[component] = false
	return nil
}
