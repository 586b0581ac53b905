package lava

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// DefaultTemplatePaths are the directories searched for job templates
// when no explicit search paths are configured. First match wins.
var DefaultTemplatePaths = []string{"config/lava", "/etc/kernelci/lava"}

// FileRenderer renders job templates found in an ordered list of search
// directories using text/template. Missing parameters referenced by a
// template surface as render errors rather than empty output.
type FileRenderer struct {
	searchPaths []string
}

// NewFileRenderer creates a renderer over the given search paths, or
// DefaultTemplatePaths when none are given.
func NewFileRenderer(searchPaths ...string) *FileRenderer {
	if len(searchPaths) == 0 {
		searchPaths = DefaultTemplatePaths
	}
	return &FileRenderer{searchPaths: searchPaths}
}

// Render locates templateFile in the search paths and executes it over
// the job parameters.
func (r *FileRenderer) Render(templateFile string, params Params) (string, error) {
	path, err := r.lookup(templateFile)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(filepath.Base(path)).
		Option("missingkey=error").
		ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", path, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, map[string]any(params)); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", path, err)
	}

	return buf.String(), nil
}

func (r *FileRenderer) lookup(templateFile string) (string, error) {
	for _, dir := range r.searchPaths {
		path := filepath.Join(dir, templateFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)",
		ErrTemplateNotFound, templateFile, strings.Join(r.searchPaths, ", "))
}
