package registry

// GetDependencyAnalyzer returns an analyzer over this registry
func (r *ComponentRegistry) GetDependencyAnalyzer() *DependencyAnalyzer {
	return NewDependencyAnalyzer(r)
}

// UpdateAllDependencies updates dependencies for all components
func (r *ComponentRegistry) UpdateAllDependencies() error {
	return r.GetDependencyAnalyzer().UpdateAllDependencies()
}

// GetDependents returns components that depend on the given component
func (r *ComponentRegistry) GetDependents(componentName string) []*ComponentInfo {
	return r.GetDependencyAnalyzer().GetDependents(componentName)
}

// GetDependencyGraph returns the full dependency graph
func (r *ComponentRegistry) GetDependencyGraph() map[string][]string {
	return r.GetDependencyAnalyzer().GetDependencyGraph()
}
