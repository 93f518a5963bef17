// Package content holds the Content Registry: the primitives, provider
// comparison, tutorial pages and site metadata that every generated
// artifact is derived from. The registry is declared in data files,
// loaded once, and read-only afterwards.
package content

// Primitive is a named configuration mechanism that shapes AI assistant behavior.
type Primitive struct {
	ID              string                   `yaml:"id" json:"id"`
	Name            string                   `yaml:"name" json:"name"`
	Description     string                   `yaml:"description" json:"description"`
	WhatItIs        string                   `yaml:"whatItIs" json:"whatItIs"`
	UseWhen         []string                 `yaml:"useWhen" json:"useWhen"`
	Prevents        string                   `yaml:"prevents" json:"prevents"`
	CombineWith     []string                 `yaml:"combineWith" json:"combineWith"`
	Implementations []ProviderImplementation `yaml:"implementations" json:"implementations"`
	Category        Category                 `yaml:"category" json:"category"`
}

// ProviderImplementation describes how one provider implements a primitive.
type ProviderImplementation struct {
	Provider       Provider     `yaml:"provider" json:"provider"`
	Implementation string       `yaml:"implementation" json:"implementation"`
	Location       string       `yaml:"location" json:"location"`
	Support        SupportLevel `yaml:"support" json:"support"`
}

// ProviderSupport is one cell of the comparison matrix.
type ProviderSupport struct {
	Level          SupportLevel `yaml:"level" json:"level"`
	Implementation string       `yaml:"implementation" json:"implementation"`
	Location       string       `yaml:"location" json:"location"`
}

// ComparisonRow is one line of the provider comparison matrix.
type ComparisonRow struct {
	PrimitiveID   string           `yaml:"primitiveId" json:"primitiveId"`
	PrimitiveName string           `yaml:"primitiveName" json:"primitiveName"`
	Copilot       *ProviderSupport `yaml:"copilot,omitempty" json:"copilot,omitempty"`
	Claude        *ProviderSupport `yaml:"claude,omitempty" json:"claude,omitempty"`
	Cursor        *ProviderSupport `yaml:"cursor,omitempty" json:"cursor,omitempty"`
}

var unsupported = ProviderSupport{
	Level:          SupportNone,
	Implementation: "Not available",
	Location:       "N/A",
}

// Support returns the cell for a provider. A provider missing from the
// row is reported as not available.
func (r ComparisonRow) Support(p Provider) ProviderSupport {
	var s *ProviderSupport
	switch p {
	case ProviderCopilot:
		s = r.Copilot
	case ProviderClaude:
		s = r.Claude
	case ProviderCursor:
		s = r.Cursor
	}
	if s == nil {
		return unsupported
	}
	return *s
}

// TutorialSection is one heading-level section of a tutorial page.
// Content is markdown and may contain fenced code blocks.
type TutorialSection struct {
	ID          string
	Title       string
	Description string
	Content     string
}

// SkillFile is one file shown for an example skill.
type SkillFile struct {
	Path     string `yaml:"path" json:"path"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Content  string `yaml:"-" json:"-"`
}

// SkillExample is a worked example shown after the tutorial sections.
type SkillExample struct {
	ID           string      `yaml:"id" json:"id"`
	DisplayName  string      `yaml:"displayName" json:"displayName"`
	Complexity   Complexity  `yaml:"complexity" json:"complexity"`
	Demonstrates string      `yaml:"demonstrates" json:"demonstrates"`
	Description  string      `yaml:"description" json:"description"`
	SourceURL    string      `yaml:"sourceUrl,omitempty" json:"sourceUrl,omitempty"`
	Files        []SkillFile `yaml:"files" json:"files"`
	KeyTakeaways []string    `yaml:"keyTakeaways" json:"keyTakeaways"`
}

// Link is an external reference with a one-line description.
type Link struct {
	Title       string `yaml:"title" json:"title"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// PageMeta is the registry entry describing a tutorial page.
type PageMeta struct {
	Slug        string `yaml:"slug" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description" json:"description"`
	Features    string `yaml:"features,omitempty" json:"features,omitempty"`
	Intro       string `yaml:"intro,omitempty" json:"intro,omitempty"`
	MDFile      string `yaml:"mdFile" json:"mdFile"`
	PartNumber  int    `yaml:"partNumber,omitempty" json:"partNumber,omitempty"`
}

// DisplayLabel is the short name used in link labels ("Skills page content").
func (m PageMeta) DisplayLabel() string {
	if m.Label != "" {
		return m.Label
	}
	return m.Title
}

// Page is a fully resolved tutorial page.
type Page struct {
	PageMeta
	Sections        []TutorialSection
	ExamplesHeading string
	ExamplesIntro   string
	Examples        []SkillExample
	Links           []Link
}

// SiteMeta describes the site as a whole.
type SiteMeta struct {
	Name                   string   `yaml:"name" json:"name"`
	URL                    string   `yaml:"url" json:"url"`
	Summary                []string `yaml:"summary" json:"summary"`
	Overview               string   `yaml:"overview" json:"overview"`
	KeyTopics              []string `yaml:"keyTopics" json:"keyTopics"`
	HomepageDescription    string   `yaml:"homepageDescription" json:"homepageDescription"`
	FullContentDescription string   `yaml:"fullContentDescription" json:"fullContentDescription"`
	References             []Link   `yaml:"references" json:"references"`
}

// ConfigPath is one well-known configuration file location.
type ConfigPath struct {
	Label string `yaml:"label" json:"label"`
	Path  string `yaml:"path" json:"path"`
	Note  string `yaml:"note,omitempty" json:"note,omitempty"`
}

// ConfigPathGroup lists the configuration file locations of one provider.
type ConfigPathGroup struct {
	Provider Provider     `yaml:"provider" json:"provider"`
	Paths    []ConfigPath `yaml:"paths" json:"paths"`
}
