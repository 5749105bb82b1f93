package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// projectDir returns a symlink-free temporary directory.
func projectDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

// writeFile writes content to dir/rel, creating parent directories.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// mapResolver resolves specifiers from a fixed table and records every
// request.
type mapResolver struct {
	paths    map[string]string
	requests []string
}

func (m *mapResolver) Resolve(spec, _ string) (string, error) {
	m.requests = append(m.requests, spec)
	if p, ok := m.paths[spec]; ok {
		return p, nil
	}
	return "", os.ErrNotExist
}

// relativeResolver returns specifiers as unclean paths relative to the
// working directory.
type relativeResolver struct{}

func (relativeResolver) Resolve(spec, _ string) (string, error) {
	return "sub/../" + spec, nil
}
