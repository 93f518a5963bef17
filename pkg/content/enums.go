package content

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Category groups primitives in the full-content document.
type Category int

// Categories in the order they appear in generated output.
const (
	CategoryExecution Category = iota + 1
	CategoryInstructions
	CategorySafety
)

// Categories lists every category in output order.
var Categories = []Category{CategoryExecution, CategoryInstructions, CategorySafety}

func (c Category) String() string {
	switch c {
	case CategoryExecution:
		return "execution"
	case CategoryInstructions:
		return "instructions"
	case CategorySafety:
		return "safety"
	}
	return ""
}

// ParseCategory parses the data-file spelling of a category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown category %q (want execution, instructions or safety)", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseCategory(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Category) MarshalYAML() (any, error) {
	return c.String(), nil
}

// JSONSchema describes the category as a string enum.
func (Category) JSONSchema() *jsonschema.Schema {
	return stringEnum("Primitive category", "execution", "instructions", "safety")
}

// Provider is an AI coding assistant whose support is tracked.
type Provider int

// Providers in comparison-table column order.
const (
	ProviderCopilot Provider = iota + 1
	ProviderClaude
	ProviderCursor
)

// Providers lists every provider in column order.
var Providers = []Provider{ProviderCopilot, ProviderClaude, ProviderCursor}

func (p Provider) String() string {
	switch p {
	case ProviderCopilot:
		return "copilot"
	case ProviderClaude:
		return "claude"
	case ProviderCursor:
		return "cursor"
	}
	return ""
}

// DisplayName is the product name used in tables and headings.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderCopilot:
		return "GitHub Copilot"
	case ProviderClaude:
		return "Claude Code"
	case ProviderCursor:
		return "Cursor"
	}
	return ""
}

// ShortName is the column header used in the comparison table.
func (p Provider) ShortName() string {
	switch p {
	case ProviderCopilot:
		return "Copilot"
	case ProviderClaude:
		return "Claude"
	case ProviderCursor:
		return "Cursor"
	}
	return ""
}

// ParseProvider parses the data-file spelling of a provider.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown provider %q (want copilot, claude or cursor)", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Provider) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseProvider(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*p = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Provider) MarshalYAML() (any, error) {
	return p.String(), nil
}

// JSONSchema describes the provider as a string enum.
func (Provider) JSONSchema() *jsonschema.Schema {
	return stringEnum("AI coding assistant", "copilot", "claude", "cursor")
}

// SupportLevel is how completely a provider implements a primitive.
type SupportLevel int

// Support levels, from strongest to weakest.
const (
	SupportFull SupportLevel = iota + 1
	SupportPartial
	SupportNone
)

var supportLevels = []SupportLevel{SupportFull, SupportPartial, SupportNone}

func (l SupportLevel) String() string {
	switch l {
	case SupportFull:
		return "full"
	case SupportPartial:
		return "partial"
	case SupportNone:
		return "none"
	}
	return ""
}

// Glyph is the single-character marker used in the comparison table.
func (l SupportLevel) Glyph() string {
	switch l {
	case SupportFull:
		return "✓"
	case SupportPartial:
		return "◐"
	case SupportNone:
		return "—"
	}
	return "—"
}

// Label is the human readable form shown on HTML pages.
func (l SupportLevel) Label() string {
	switch l {
	case SupportFull:
		return "Full Support"
	case SupportPartial:
		return "Partial"
	case SupportNone:
		return "Not Available"
	}
	return ""
}

// ParseSupportLevel parses the data-file spelling of a support level.
func ParseSupportLevel(s string) (SupportLevel, error) {
	for _, l := range supportLevels {
		if l.String() == s {
			return l, nil
		}
	}
	return 0, errors.Errorf("unknown support level %q (want full, partial or none)", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *SupportLevel) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseSupportLevel(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l SupportLevel) MarshalYAML() (any, error) {
	return l.String(), nil
}

// JSONSchema describes the support level as a string enum.
func (SupportLevel) JSONSchema() *jsonschema.Schema {
	return stringEnum("Support level", "full", "partial", "none")
}

// Complexity rates an example skill.
type Complexity int

// Complexity levels, from simplest.
const (
	ComplexityMinimal Complexity = iota + 1
	ComplexityLow
	ComplexityMedium
	ComplexityHigh
)

var complexities = []Complexity{ComplexityMinimal, ComplexityLow, ComplexityMedium, ComplexityHigh}

func (c Complexity) String() string {
	switch c {
	case ComplexityMinimal:
		return "minimal"
	case ComplexityLow:
		return "low"
	case ComplexityMedium:
		return "medium"
	case ComplexityHigh:
		return "high"
	}
	return ""
}

// Label is the capitalized form shown on HTML pages.
func (c Complexity) Label() string {
	switch c {
	case ComplexityMinimal:
		return "Minimal"
	case ComplexityLow:
		return "Low"
	case ComplexityMedium:
		return "Medium"
	case ComplexityHigh:
		return "High"
	}
	return ""
}

// ParseComplexity parses the data-file spelling of a complexity.
func ParseComplexity(s string) (Complexity, error) {
	for _, c := range complexities {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown complexity %q (want minimal, low, medium or high)", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Complexity) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseComplexity(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Complexity) MarshalYAML() (any, error) {
	return c.String(), nil
}

// JSONSchema describes the complexity as a string enum.
func (Complexity) JSONSchema() *jsonschema.Schema {
	return stringEnum("Example complexity", "minimal", "low", "medium", "high")
}

func stringEnum(description string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
		Enum:        enum,
	}
}
