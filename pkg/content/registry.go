package content

import (
	"slices"
)

// Registry is the in-memory collection of everything the generators read.
// It is built once by Load and never mutated afterwards.
type Registry struct {
	Site        SiteMeta
	Primitives  []Primitive
	Comparison  []ComparisonRow
	ConfigPaths []ConfigPathGroup
	Pages       []Page
}

// PrimitivesIn returns the primitives of one category in declaration order.
func (r *Registry) PrimitivesIn(c Category) []Primitive {
	var out []Primitive
	for _, p := range r.Primitives {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Primitive looks a primitive up by id.
func (r *Registry) Primitive(id string) (Primitive, bool) {
	for _, p := range r.Primitives {
		if p.ID == id {
			return p, true
		}
	}
	return Primitive{}, false
}

// Page looks a page up by slug.
func (r *Registry) Page(slug string) (Page, bool) {
	for _, p := range r.Pages {
		if p.Slug == slug {
			return p, true
		}
	}
	return Page{}, false
}

// PagesByPart returns the pages ordered by their full-content part number.
// Pages sharing a part number keep registry order.
func (r *Registry) PagesByPart() []Page {
	pages := slices.Clone(r.Pages)
	slices.SortStableFunc(pages, func(a, b Page) int {
		return a.PartNumber - b.PartNumber
	})
	return pages
}
