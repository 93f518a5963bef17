package llmstxt

import (
	"context"
	"strings"

	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/pkg/errors"
)

// Generator turns a content registry into the text artifacts. Output depends
// only on the registry and the templates, so repeated runs are byte-identical.
type Generator struct {
	registry *content.Registry
	renderer *Renderer
}

// NewGenerator creates a generator using the built-in templates.
func NewGenerator(registry *content.Registry) *Generator {
	return &Generator{registry: registry, renderer: defaultRenderer}
}

// WithRenderer returns a copy of the generator that renders with r.
func (g *Generator) WithRenderer(r *Renderer) *Generator {
	return &Generator{registry: g.registry, renderer: r}
}

type tocView struct {
	Site     content.SiteMeta
	Pages    []content.Page
	FullFile string
}

// TableOfContents renders llms.txt.
func (g *Generator) TableOfContents() (string, error) {
	return g.renderer.Render(TOCTemplate, tocView{
		Site:     g.registry.Site,
		Pages:    g.registry.Pages,
		FullFile: FullFileName,
	})
}

// PageDocument renders the standalone markdown document of a page.
func (g *Generator) PageDocument(page content.Page) (string, error) {
	return g.renderer.Render(PageTemplate, page)
}

// PageBody renders a page without its title and intro, as embedded in the
// full content document.
func (g *Generator) PageBody(page content.Page) (string, error) {
	return g.renderer.Render(PageBodyTemplate, page)
}

type categoryView struct {
	Heading    string
	Blurb      string
	Summary    string
	Purpose    string
	Primitives []content.Primitive
}

func describeCategory(c content.Category) categoryView {
	switch c {
	case content.CategoryExecution:
		return categoryView{
			Heading: "Capability Primitives (Execution)",
			Blurb:   "These primitives define what the AI can do.",
			Summary: "Capability (Execution)",
			Purpose: "What the AI can do",
		}
	case content.CategoryInstructions:
		return categoryView{
			Heading: "Customization Primitives (Instructions)",
			Blurb:   "These primitives shape how the AI behaves.",
			Summary: "Customization (Instructions)",
			Purpose: "How to shape AI behavior",
		}
	case content.CategorySafety:
		return categoryView{
			Heading: "Control Primitives (Safety)",
			Blurb:   "These primitives constrain what the AI is allowed to do.",
			Summary: "Control (Safety)",
			Purpose: "How to constrain AI actions",
		}
	}
	return categoryView{Heading: c.String(), Summary: c.String()}
}

type partView struct {
	Number int
	Title  string
	Body   string
}

type fullView struct {
	Site            content.SiteMeta
	Overview        string
	Primitives      []content.Primitive
	Categories      []categoryView
	ProviderNames   string
	ComparisonTable string
	ConfigPaths     []content.ConfigPathGroup
	Parts           []partView
}

// FullContent renders llms-full.txt: primitives by category, the provider
// comparison, config file locations, then every page ordered by part number.
func (g *Generator) FullContent() (string, error) {
	view := fullView{
		Site:            g.registry.Site,
		Overview:        strings.TrimSpace(g.registry.Site.Overview),
		Primitives:      g.registry.Primitives,
		ProviderNames:   providerNames(),
		ComparisonTable: comparisonTable(g.registry.Comparison),
		ConfigPaths:     g.registry.ConfigPaths,
	}

	for _, c := range content.Categories {
		category := describeCategory(c)
		category.Primitives = g.registry.PrimitivesIn(c)
		view.Categories = append(view.Categories, category)
	}

	for _, page := range g.registry.PagesByPart() {
		body, err := g.PageBody(page)
		if err != nil {
			return "", errors.Wrapf(err, "failed to render page %s", page.Slug)
		}
		view.Parts = append(view.Parts, partView{
			Number: page.PartNumber,
			Title:  page.Title,
			Body:   strings.TrimRight(body, "\n"),
		})
	}

	return g.renderer.Render(FullTemplate, view)
}

// Documents renders every artifact: the table of contents, the full content
// and one document per page in registry order.
func (g *Generator) Documents(ctx context.Context) ([]artifact.Document, error) {
	log := logger.G(ctx)

	toc, err := g.TableOfContents()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render table of contents")
	}

	full, err := g.FullContent()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render full content")
	}

	docs := []artifact.Document{
		{Name: TOCFileName, Content: toc},
		{Name: FullFileName, Content: full},
	}

	for _, page := range g.registry.Pages {
		doc, err := g.PageDocument(page)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render page %s", page.Slug)
		}
		docs = append(docs, artifact.Document{Name: page.MDFile, Content: doc})
	}

	for _, doc := range docs {
		log.WithField("document", doc.Name).WithField("bytes", doc.Size()).Debug("rendered document")
	}

	return docs, nil
}

func providerNames() string {
	names := make([]string, len(content.Providers))
	for i, p := range content.Providers {
		names[i] = p.DisplayName()
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// comparisonTable renders one row per comparison entry with a glyph and the
// implementation text for every provider, in provider order.
func comparisonTable(rows []content.ComparisonRow) string {
	var b strings.Builder

	b.WriteString("| Primitive |")
	for _, p := range content.Providers {
		b.WriteString(" " + p.ShortName() + " |")
	}
	b.WriteString("\n|-----------|")
	for _, p := range content.Providers {
		b.WriteString(strings.Repeat("-", len(p.ShortName())+2) + "|")
	}

	for _, row := range rows {
		b.WriteString("\n| " + tableCell(row.PrimitiveName) + " |")
		for _, p := range content.Providers {
			support := row.Support(p)
			b.WriteString(" " + support.Level.Glyph() + " " + tableCell(support.Implementation) + " |")
		}
	}

	return b.String()
}
