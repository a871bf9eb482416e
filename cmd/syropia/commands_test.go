package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPost = "---\ntitle: Hello\ndescription: First\npublishedAt: 2024-01-01\n---\nHi.\n"

func TestBuildCommandFlags(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "src")
	out := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "posts", "hello.md"), []byte(testPost), 0o644))

	cfg := filepath.Join(root, "syropia.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`static_dir = "`+filepath.ToSlash(filepath.Join(root, "public"))+`"`), 0o644))

	err := rootApp().Run([]string{"syropia", "--config", cfg, "build", "--content", contentDir, "--out", out})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "posts", "hello", "index.html"))
	assert.FileExists(t, filepath.Join(out, "rss.xml"))
}

func TestBuildCommandMissingConfig(t *testing.T) {
	err := rootApp().Run([]string{"syropia", "--config", filepath.Join(t.TempDir(), "nope.toml"), "build"})
	assert.Error(t, err)
}

func TestNewCommandFlags(t *testing.T) {
	root := t.TempDir()
	err := rootApp().Run([]string{"syropia", "--config", filepath.Join(root, "absent.toml"), "new", "post", "--content", root, "--description", "Why", "Hello", "World"})
	// an explicitly named config must exist
	require.Error(t, err)

	cfg := filepath.Join(root, "syropia.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(""), 0o644))
	err = rootApp().Run([]string{"syropia", "--config", cfg, "new", "post", "--content", root, "--description", "Why", "Hello", "World"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "posts", "hello-world.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `description: "Why"`)
	assert.Contains(t, string(data), "isDraft: true")
}
