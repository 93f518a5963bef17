// Package site builds the HTML pages of the site from the content registry.
package site

import (
	"context"
	"embed"
	"html/template"
	"path"
	"strings"

	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/jingkaihe/agentconfig/pkg/markdown"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// IndexFileName is the file every page is written to inside its directory.
	IndexFileName = "index.html"

	indexTemplate = "index"
	pageTemplate  = "page"

	defaultFileLanguage = "markdown"
)

// PagePath returns the output path of a tutorial page.
func PagePath(slug string) string {
	return path.Join(slug, IndexFileName)
}

// Builder renders the index and one HTML page per tutorial page.
type Builder struct {
	registry  *content.Registry
	templates *template.Template
}

// NewBuilder parses the embedded page templates.
func NewBuilder(registry *content.Registry) (*Builder, error) {
	templates, err := template.New("site").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse site templates")
	}
	return &Builder{registry: registry, templates: templates}, nil
}

type navItem struct {
	Label   string
	Href    string
	Current bool
}

type layoutView struct {
	Site        content.SiteMeta
	Title       string
	Description string
	Nav         []navItem
}

type categoryView struct {
	Heading    string
	Primitives []content.Primitive
}

type cellView struct {
	Level          content.SupportLevel
	Implementation string
}

type comparisonView struct {
	Name  string
	Cells []cellView
}

type indexView struct {
	layoutView
	Overview   string
	Categories []categoryView
	Providers  []content.Provider
	Comparison []comparisonView
	Pages      []content.Page
}

type sectionView struct {
	ID          string
	Title       string
	Description string
	Body        template.HTML
}

type fileView struct {
	Path     string
	Language string
	Content  string
}

type exampleView struct {
	content.SkillExample
	Files []fileView
}

type pageView struct {
	layoutView
	Page            content.Page
	Sections        []sectionView
	ExamplesHeading string
	Examples        []exampleView
}

func (b *Builder) layout(title, description, current string) layoutView {
	nav := make([]navItem, 0, len(b.registry.Pages))
	for _, page := range b.registry.Pages {
		nav = append(nav, navItem{
			Label:   page.DisplayLabel(),
			Href:    "/" + page.Slug + "/",
			Current: page.Slug == current,
		})
	}
	return layoutView{
		Site:        b.registry.Site,
		Title:       title,
		Description: description,
		Nav:         nav,
	}
}

func categoryHeading(c content.Category) string {
	switch c {
	case content.CategoryExecution:
		return "Capability (Execution)"
	case content.CategoryInstructions:
		return "Customization (Instructions)"
	case content.CategorySafety:
		return "Control (Safety)"
	}
	return c.String()
}

// Index renders the site home page.
func (b *Builder) Index() (string, error) {
	view := indexView{
		layoutView: b.layout(b.registry.Site.Name, b.registry.Site.HomepageDescription, ""),
		Overview:   strings.TrimSpace(b.registry.Site.Overview),
		Providers:  content.Providers,
		Pages:      b.registry.Pages,
	}

	for _, c := range content.Categories {
		primitives := b.registry.PrimitivesIn(c)
		if len(primitives) == 0 {
			continue
		}
		view.Categories = append(view.Categories, categoryView{
			Heading:    categoryHeading(c),
			Primitives: primitives,
		})
	}

	for _, row := range b.registry.Comparison {
		cv := comparisonView{Name: row.PrimitiveName}
		for _, p := range content.Providers {
			s := row.Support(p)
			cv.Cells = append(cv.Cells, cellView{Level: s.Level, Implementation: s.Implementation})
		}
		view.Comparison = append(view.Comparison, cv)
	}

	return b.execute(indexTemplate, view)
}

// Page renders one tutorial page. Section bodies go through the markdown
// renderer; example files are shown verbatim.
func (b *Builder) Page(page content.Page) (string, error) {
	view := pageView{
		layoutView:      b.layout(page.Title+" | "+b.registry.Site.Name, page.Description, page.Slug),
		Page:            page,
		ExamplesHeading: page.ExamplesHeading,
	}
	if view.ExamplesHeading == "" {
		view.ExamplesHeading = "Examples"
	}

	for _, section := range page.Sections {
		view.Sections = append(view.Sections, sectionView{
			ID:          section.ID,
			Title:       section.Title,
			Description: section.Description,
			// RenderHTML escapes every text and code segment before adding markup.
			Body: template.HTML(markdown.RenderHTML(section.Content)), //nolint:gosec
		})
	}

	for _, example := range page.Examples {
		ev := exampleView{SkillExample: example}
		for _, f := range example.Files {
			lang := f.Language
			if lang == "" {
				lang = defaultFileLanguage
			}
			ev.Files = append(ev.Files, fileView{Path: f.Path, Language: lang, Content: f.Content})
		}
		view.Examples = append(view.Examples, ev)
	}

	return b.execute(pageTemplate, view)
}

func (b *Builder) execute(name string, data any) (string, error) {
	var buf strings.Builder
	if err := b.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", name)
	}
	return buf.String(), nil
}

// Documents renders the index followed by every page in registry order.
func (b *Builder) Documents(ctx context.Context) ([]artifact.Document, error) {
	log := logger.G(ctx)

	index, err := b.Index()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render index page")
	}
	docs := []artifact.Document{{Name: IndexFileName, Content: index}}

	for _, page := range b.registry.Pages {
		html, err := b.Page(page)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render page %s", page.Slug)
		}
		docs = append(docs, artifact.Document{Name: PagePath(page.Slug), Content: html})
		log.WithField("page", page.Slug).WithField("bytes", len(html)).Debug("rendered html page")
	}

	return docs, nil
}
