//go:build integration
// +build integration

package integration_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeComponent writes a component document below dir and returns its path.
func writeComponent(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func propsComponent(props string) string {
	return "<script setup lang=\"ts\">\ndefineProps<{ " + props + " }>()\n</script>\n<template><div/></template>\n"
}
