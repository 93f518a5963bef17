// Package llmstxt generates the LLM-friendly text artifacts of the site:
// the llms.txt table of contents, the llms-full.txt complete content
// document, and one markdown document per tutorial page.
package llmstxt

import "embed"

// TemplateFS holds the built-in document templates.
//
//go:embed templates/*
var TemplateFS embed.FS

const (
	// TOCFileName is the table of contents artifact.
	TOCFileName = "llms.txt"
	// FullFileName is the complete content artifact.
	FullFileName = "llms-full.txt"

	// Template paths
	TOCTemplate       = "templates/toc.tmpl"
	FullTemplate      = "templates/full.tmpl"
	PageTemplate      = "templates/page.tmpl"
	PageBodyTemplate  = "templates/page_body.tmpl"
	PrimitiveTemplate = "templates/primitive.tmpl"
)
