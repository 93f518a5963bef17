package llmstxt

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// primitivesHeading is the level-1 heading of the primitives part of the full document.
const primitivesHeading = "Part 1: AI Primitives"

var outlineParser = goldmark.New()

// Heading is one heading of a markdown document.
type Heading struct {
	Level int
	Text  string
}

// Outline lists the headings of a markdown document in order. Lines inside
// fenced code blocks are not headings.
func Outline(markdown string) []Heading {
	source := []byte(markdown)
	doc := outlineParser.Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{Level: h.Level, Text: inlineText(h, source)})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}

// Lint checks the structure of generated documents: every page document and
// the table of contents has exactly one level-1 heading, and the primitives
// part of the full document lists every primitive exactly once.
func Lint(registry *content.Registry, docs []artifact.Document) error {
	var result *multierror.Error

	pageFiles := make(map[string]bool, len(registry.Pages))
	for _, page := range registry.Pages {
		pageFiles[page.MDFile] = true
	}

	for _, doc := range docs {
		switch {
		case doc.Name == FullFileName:
			result = multierror.Append(result, lintFull(registry, doc)...)
		case doc.Name == TOCFileName || pageFiles[doc.Name]:
			if n := countLevel(Outline(doc.Content), 1); n != 1 {
				result = multierror.Append(result, errors.Errorf("%s: expected exactly one level-1 heading, found %d", doc.Name, n))
			}
		}
	}

	return result.ErrorOrNil()
}

func lintFull(registry *content.Registry, doc artifact.Document) []error {
	counts := make(map[string]int)
	inPrimitives := false
	for _, h := range Outline(doc.Content) {
		if h.Level == 1 {
			inPrimitives = h.Text == primitivesHeading
			continue
		}
		if inPrimitives && h.Level == 3 {
			counts[h.Text]++
		}
	}

	var errs []error
	known := make(map[string]bool, len(registry.Primitives))
	for _, p := range registry.Primitives {
		known[p.Name] = true
		switch n := counts[p.Name]; {
		case n == 0:
			errs = append(errs, errors.Errorf("%s: primitive %q is missing", doc.Name, p.Name))
		case n > 1:
			errs = append(errs, errors.Errorf("%s: primitive %q appears %d times", doc.Name, p.Name, n))
		}
	}
	var unexpected []string
	for name := range counts {
		if !known[name] {
			unexpected = append(unexpected, name)
		}
	}
	sort.Strings(unexpected)
	for _, name := range unexpected {
		errs = append(errs, errors.Errorf("%s: unexpected primitive heading %q", doc.Name, name))
	}
	return errs
}

func countLevel(headings []Heading, level int) int {
	n := 0
	for _, h := range headings {
		if h.Level == level {
			n++
		}
	}
	return n
}
