package llmstxt

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Renderer executes the document templates.
type Renderer struct {
	templates *template.Template
	parseErr  error
}

var defaultRenderer = NewRenderer(TemplateFS)

// NewRenderer creates a renderer from the templates under templates/ in fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	renderer := &Renderer{}
	renderer.templates, renderer.parseErr = parseTemplates(fsys, nil)
	return renderer
}

// NewRendererWithTemplateOverride creates a renderer with custom template overrides.
// Overrides are keyed by template path (e.g., templates/toc.tmpl).
func NewRendererWithTemplateOverride(fsys fs.FS, overrides map[string]string) *Renderer {
	renderer := &Renderer{}
	renderer.templates, renderer.parseErr = parseTemplates(fsys, overrides)
	return renderer
}

// RendererForDir returns the built-in renderer when dir is empty, otherwise a
// renderer where every *.tmpl file under dir replaces the built-in template
// of the same name.
func RendererForDir(dir string) (*Renderer, error) {
	if strings.TrimSpace(dir) == "" {
		return defaultRenderer, nil
	}

	overrides, err := loadOverrides(dir)
	if err != nil {
		return nil, err
	}

	renderer := NewRendererWithTemplateOverride(TemplateFS, overrides)
	if renderer.parseErr != nil {
		return nil, errors.Wrapf(renderer.parseErr, "failed to parse templates from %s", dir)
	}
	return renderer, nil
}

func loadOverrides(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat template directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("template path %s is not a directory", dir)
	}

	paths, err := collectTemplatePaths(os.DirFS(dir), ".")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to collect templates from %s", dir)
	}

	overrides := make(map[string]string, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read template file %s", path)
		}
		overrides["templates/"+path] = string(data)
	}
	return overrides, nil
}

// Render renders a named template with the provided data.
func (r *Renderer) Render(name string, data any) (string, error) {
	if r.parseErr != nil {
		return "", errors.Wrap(r.parseErr, "failed to initialize templates")
	}

	if r.templates.Lookup(name) == nil {
		return "", errors.Errorf("template %s not found", name)
	}

	var buf strings.Builder
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}

	return buf.String(), nil
}

func parseTemplates(templateFS fs.FS, overrides map[string]string) (*template.Template, error) {
	templatePaths, err := collectTemplatePaths(templateFS, "templates")
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect template paths")
	}

	templates := template.New("templates")
	var selfRef *template.Template
	funcs := templateFuncs()
	funcs["include"] = func(templateName string, data any) (string, error) {
		var buf strings.Builder
		err := selfRef.ExecuteTemplate(&buf, templateName, data)
		return buf.String(), err
	}
	templates = templates.Funcs(funcs)
	selfRef = templates

	for _, path := range templatePaths {
		content := ""
		if override, ok := overrides[path]; ok {
			content = override
		} else {
			bytes, err := fs.ReadFile(templateFS, path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read template file %s", path)
			}
			content = string(bytes)
		}

		_, err := templates.New(path).Parse(content)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse template %s", path)
		}
	}

	extra := make([]string, 0, len(overrides))
	for path := range overrides {
		if !slices.Contains(templatePaths, path) {
			extra = append(extra, path)
		}
	}
	sort.Strings(extra)

	for _, path := range extra {
		_, err := templates.New(path).Parse(overrides[path])
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse override template %s", path)
		}
	}

	return templates, nil
}

func collectTemplatePaths(templateFS fs.FS, dir string) ([]string, error) {
	if _, err := fs.Stat(templateFS, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var paths []string
	err := fs.WalkDir(templateFS, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"bullets": bullets,
		"join":    strings.Join,
		"cell":    tableCell,
		"fence":   fenceFor,
	}
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// tableCell keeps a value on one table row.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// fenceFor returns a backtick fence longer than any backtick run in code.
func fenceFor(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
