package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
}

func TestResolveInputsPassesPlainPathsThrough(t *testing.T) {
	files, err := resolveInputs([]string{"Foo.swift", "Features/Login.swift"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Foo.swift", "Features/Login.swift"}, files)
}

func TestResolveInputsExpandsGlobs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "App.swift"))
	touch(t, filepath.Join(root, "Features", "Login", "Login.swift"))
	touch(t, filepath.Join(root, "README.md"))

	files, err := resolveInputs([]string{"**/*.swift"}, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"App.swift", "Features/Login/Login.swift"}, files)
}

func TestResolveInputsMixedArguments(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Gen.swift"))

	files, err := resolveInputs([]string{"Manual.swift", "*.swift"}, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Manual.swift", "Gen.swift"}, files)
}

func TestResolveInputsRejectsEmptyGlob(t *testing.T) {
	root := t.TempDir()
	_, err := resolveInputs([]string{"**/*.swift"}, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched no files")
}
