package lava

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "boot/qemu.yaml.tmpl",
		"job_name: {{ .name }}\npriority: {{ .priority }}\ntimeouts:\n  queue:\n    minutes: {{ .queue_timeout }}\n")

	renderer := NewFileRenderer(dir)
	out, err := renderer.Render("boot/qemu.yaml.tmpl", Params{
		"name":          "mainline-v6.6-boot",
		"priority":      10,
		"queue_timeout": 60,
	})

	require.NoError(t, err)
	assert.Equal(t, "job_name: mainline-v6.6-boot\npriority: 10\ntimeouts:\n  queue:\n    minutes: 60\n", out)
}

func TestFileRenderer_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeTemplate(t, first, "boot.tmpl", "from: first\n")
	writeTemplate(t, second, "boot.tmpl", "from: second\n")
	writeTemplate(t, second, "only-second.tmpl", "from: second\n")

	renderer := NewFileRenderer(first, second)

	// first matching path wins
	out, err := renderer.Render("boot.tmpl", Params{})
	require.NoError(t, err)
	assert.Equal(t, "from: first\n", out)

	// later paths are still searched
	out, err = renderer.Render("only-second.tmpl", Params{})
	require.NoError(t, err)
	assert.Equal(t, "from: second\n", out)
}

func TestFileRenderer_TemplateNotFound(t *testing.T) {
	renderer := NewFileRenderer(t.TempDir(), t.TempDir())

	_, err := renderer.Render("boot/missing.yaml.tmpl", Params{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestFileRenderer_MissingParameter(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "boot.tmpl", "rootfs: {{ .rootfs_url }}\n")

	renderer := NewFileRenderer(dir)
	_, err := renderer.Render("boot.tmpl", Params{"name": "job"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rootfs_url")
}

func TestFileRenderer_DefaultSearchPaths(t *testing.T) {
	renderer := NewFileRenderer()
	assert.Equal(t, DefaultTemplatePaths, renderer.searchPaths)
}
