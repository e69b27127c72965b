package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenc/internal/project"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[package]
name = "demo"
target = "x86_64-linux-gnu"

[sources]
files = ["src/main.zen", "src/util.zen"]
`)
	m, err := project.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", m.Name)
	assert.Equal(t, "x86_64-linux-gnu", m.Target)
	require.Len(t, m.Files, 2)

	paths := m.SourcePaths()
	assert.Equal(t, filepath.Join(dir, "src", "main.zen"), paths[0])
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	path := writeManifest(t, dir, `[sources]
files = []
`)
	_, err := project.Load(path)
	assert.ErrorIs(t, err, project.ErrPackageSectionMissing)

	path = writeManifest(t, dir, `[package]
target = "x86_64-linux-gnu"
`)
	_, err = project.Load(path)
	assert.ErrorIs(t, err, project.ErrPackageNameMissing)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := project.Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, project.ManifestName), found)
}

func TestFindMiss(t *testing.T) {
	_, err := project.Find(t.TempDir())
	assert.ErrorIs(t, err, project.ErrManifestNotFound)
}
