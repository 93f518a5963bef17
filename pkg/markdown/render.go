// Package markdown renders the constrained markdown subset used in tutorial
// content (headers, emphasis, inline code, links, tables, lists, paragraphs
// and fenced code blocks) into HTML fragments for the site pages.
//
// Rendering is an ordered pipeline of whole-document stages. Each stage
// relies on the markup produced by the ones before it, so the order of
// Pipeline is part of the output format.
package markdown

import (
	"regexp"
	"strings"
)

// CSS classes emitted by the renderer. They match the site's stylesheet.
const (
	classH2        = "text-xl font-semibold mt-8 mb-3"
	classH3        = "text-lg font-semibold mt-6 mb-2"
	classCode      = "px-1.5 py-0.5 rounded bg-muted text-sm font-mono"
	classLink      = "text-primary underline hover:no-underline"
	classTable     = "w-full border-collapse mb-4"
	classCell      = "border border-border px-3 py-2"
	classList      = "list-disc list-outside mb-4 space-y-1"
	classListItem  = "ml-4"
	classParagraph = "mb-4"
)

// Stage is one pass of the renderer over the whole text.
type Stage struct {
	Name  string
	Apply func(string) string
}

// Pipeline lists the stages Render runs, in order.
var Pipeline = []Stage{
	{Name: "escape", Apply: escapeHTML},
	{Name: "headers", Apply: renderHeaders},
	{Name: "emphasis", Apply: renderEmphasis},
	{Name: "inline-code", Apply: renderInlineCode},
	{Name: "links", Apply: renderLinks},
	{Name: "tables", Apply: renderTables},
	{Name: "lists", Apply: renderLists},
	{Name: "paragraphs", Apply: renderParagraphs},
	{Name: "cleanup", Apply: cleanup},
}

// Render converts a markdown text segment (no fenced code) into HTML.
// It is pure and never fails: malformed markup is left as literal text
// or partially applied.
func Render(text string) string {
	html := strings.ReplaceAll(text, "\r\n", "\n")
	for _, stage := range Pipeline {
		html = stage.Apply(html)
	}
	return html
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var (
	h3Pattern = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Pattern = regexp.MustCompile(`(?m)^## (.+)$`)
)

func renderHeaders(s string) string {
	s = h3Pattern.ReplaceAllString(s, `<h3 class="`+classH3+`">${1}</h3>`)
	return h2Pattern.ReplaceAllString(s, `<h2 class="`+classH2+`">${1}</h2>`)
}

var (
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
)

func renderEmphasis(s string) string {
	s = boldPattern.ReplaceAllString(s, `<strong>${1}</strong>`)
	return italicPattern.ReplaceAllString(s, `<em>${1}</em>`)
}

var inlineCodePattern = regexp.MustCompile("`([^`]+)`")

func renderInlineCode(s string) string {
	return inlineCodePattern.ReplaceAllString(s, `<code class="`+classCode+`">${1}</code>`)
}

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

func renderLinks(s string) string {
	return linkPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		label, href := m[1], strings.ReplaceAll(m[2], `"`, "&quot;")
		if isExternal(href) {
			return `<a href="` + href + `" target="_blank" rel="noopener noreferrer" class="` + classLink + `">` + label + `</a>`
		}
		return `<a href="` + href + `" class="` + classLink + `">` + label + `</a>`
	})
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "//")
}

var tableRowPattern = regexp.MustCompile(`^\|(.+)\|[ \t]*$`)

// renderTables groups consecutive |a|b| lines into one table. When the second
// line is a separator row the first row becomes the header.
func renderTables(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if !tableRowPattern.MatchString(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}

		j := i
		for j < len(lines) && tableRowPattern.MatchString(lines[j]) {
			j++
		}
		out = append(out, buildTable(lines[i:j]))
		i = j
	}

	return strings.Join(out, "\n")
}

func buildTable(lines []string) string {
	var b strings.Builder
	b.WriteString(`<table class="` + classTable + `">`)

	body := lines
	if len(lines) > 1 && strings.Contains(lines[1], "---") {
		b.WriteString("<thead>")
		writeRow(&b, lines[0], "th")
		b.WriteString("</thead>")
		body = lines[2:]
	}

	b.WriteString("<tbody>")
	for _, line := range body {
		writeRow(&b, line, "td")
	}
	b.WriteString("</tbody></table>")

	return b.String()
}

func writeRow(b *strings.Builder, line, cellTag string) {
	inner := tableRowPattern.FindStringSubmatch(line)[1]
	b.WriteString("<tr>")
	for _, cell := range strings.Split(inner, "|") {
		b.WriteString(`<` + cellTag + ` class="` + classCell + `">`)
		b.WriteString(strings.TrimSpace(cell))
		b.WriteString(`</` + cellTag + `>`)
	}
	b.WriteString("</tr>")
}

var listItemPattern = regexp.MustCompile(`^- (.+)$`)

// renderLists wraps each run of "- " lines in a single list.
func renderLists(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		if !listItemPattern.MatchString(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}

		var b strings.Builder
		b.WriteString(`<ul class="` + classList + `">`)
		for ; i < len(lines) && listItemPattern.MatchString(lines[i]); i++ {
			item := listItemPattern.FindStringSubmatch(lines[i])[1]
			b.WriteString(`<li class="` + classListItem + `">` + item + `</li>`)
		}
		b.WriteString("</ul>")
		out = append(out, b.String())
	}

	return strings.Join(out, "\n")
}

var (
	blankLinePattern = regexp.MustCompile(`\n[ \t]*\n\s*`)
	blockElements    = []string{"<h2", "<h3", "<ul", "<table"}
)

func isBlockLine(line string) bool {
	for _, prefix := range blockElements {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// renderParagraphs splits on blank lines and wraps runs of inline lines in
// paragraphs. Heading, list and table lines are emitted bare.
func renderParagraphs(s string) string {
	s = strings.Trim(s, "\n")
	if strings.TrimSpace(s) == "" {
		return ""
	}

	var b strings.Builder
	for _, chunk := range blankLinePattern.Split(s, -1) {
		var inline []string
		flush := func() {
			if len(inline) > 0 {
				b.WriteString(`<p class="` + classParagraph + `">` + strings.Join(inline, "\n") + `</p>`)
				inline = inline[:0]
			}
		}

		for _, line := range strings.Split(chunk, "\n") {
			if isBlockLine(line) {
				flush()
				b.WriteString(line)
				continue
			}
			inline = append(inline, line)
		}
		flush()
	}

	return b.String()
}

var (
	emptyParagraphPattern = regexp.MustCompile(`<p class="` + classParagraph + `">\s*</p>`)
	wrappedOpenPattern    = regexp.MustCompile(`<p class="` + classParagraph + `">(<h[23]|<ul|<table)`)
	wrappedClosePattern   = regexp.MustCompile(`(</h[23]>|</ul>|</table>)</p>`)
)

// cleanup removes empty paragraphs and paragraph wrappers around block elements.
func cleanup(s string) string {
	s = emptyParagraphPattern.ReplaceAllString(s, "")
	s = wrappedOpenPattern.ReplaceAllString(s, "${1}")
	return wrappedClosePattern.ReplaceAllString(s, "${1}")
}
