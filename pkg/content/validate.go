package content

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ValidationResult separates structural problems, which always abort
// generation, from dangling cross references, which only abort in strict mode.
type ValidationResult struct {
	Errors   *multierror.Error
	Warnings *multierror.Error
}

// Err returns the error generation should fail with, or nil.
func (v ValidationResult) Err(strict bool) error {
	var result *multierror.Error
	if v.Errors != nil {
		result = multierror.Append(result, v.Errors.Errors...)
	}
	if strict && v.Warnings != nil {
		result = multierror.Append(result, v.Warnings.Errors...)
	}
	return result.ErrorOrNil()
}

// WarningList returns the dangling reference warnings.
func (v ValidationResult) WarningList() []error {
	if v.Warnings == nil {
		return nil
	}
	return v.Warnings.Errors
}

// Validate checks referential integrity of the registry. Primitive ids are
// collected first, then every comparison row and combine-with name is checked
// against them.
func (r *Registry) Validate() ValidationResult {
	var result ValidationResult

	ids := make(map[string]bool, len(r.Primitives))
	names := make(map[string]bool, len(r.Primitives))
	for i, p := range r.Primitives {
		switch {
		case p.ID == "":
			result.Errors = multierror.Append(result.Errors, errors.Errorf("primitive #%d has no id", i+1))
			continue
		case p.Name == "":
			result.Errors = multierror.Append(result.Errors, errors.Errorf("primitive %q has no name", p.ID))
		case p.Category == 0:
			result.Errors = multierror.Append(result.Errors, errors.Errorf("primitive %q has no category", p.ID))
		}
		if ids[p.ID] {
			result.Errors = multierror.Append(result.Errors, errors.Errorf("duplicate primitive id %q", p.ID))
		}
		ids[p.ID] = true
		names[p.Name] = true
	}

	for _, row := range r.Comparison {
		if !ids[row.PrimitiveID] {
			result.Warnings = multierror.Append(result.Warnings,
				errors.Errorf("comparison row %q (%s) references no known primitive", row.PrimitiveID, row.PrimitiveName))
		}
	}

	for _, p := range r.Primitives {
		for _, other := range p.CombineWith {
			if !names[other] {
				result.Warnings = multierror.Append(result.Warnings,
					errors.Errorf("primitive %q combines with unknown primitive %q", p.ID, other))
			}
		}
	}

	slugs := make(map[string]bool, len(r.Pages))
	files := make(map[string]bool, len(r.Pages))
	for _, page := range r.Pages {
		if page.Slug == "" || page.MDFile == "" {
			result.Errors = multierror.Append(result.Errors, errors.Errorf("page %q needs both slug and mdFile", page.Title))
			continue
		}
		if slugs[page.Slug] {
			result.Errors = multierror.Append(result.Errors, errors.Errorf("duplicate page slug %q", page.Slug))
		}
		if files[page.MDFile] {
			result.Errors = multierror.Append(result.Errors, errors.Errorf("duplicate page file %q", page.MDFile))
		}
		slugs[page.Slug] = true
		files[page.MDFile] = true

		sections := make(map[string]bool, len(page.Sections))
		for _, s := range page.Sections {
			if sections[s.ID] {
				result.Errors = multierror.Append(result.Errors, errors.Errorf("page %q: duplicate section id %q", page.Slug, s.ID))
			}
			sections[s.ID] = true
		}
	}

	return result
}
