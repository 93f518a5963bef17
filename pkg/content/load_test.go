package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

// fixtureFS is a small but complete registry: two primitives, one comparison
// row, one page with a sampled section and one example skill.
func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"site.yaml": file(`name: test.site
url: https://test.site
summary:
  - A test site.
keyTopics:
  - Testing
homepageDescription: Home
fullContentDescription: Everything
`),
		"primitives.yaml": file(`primitives:
  - id: agent-mode
    name: Agent Mode
    description: Autonomous execution.
    whatItIs: The assistant runs tools on its own.
    useWhen:
      - Multi-step work
    prevents: Hand-holding
    combineWith:
      - Guardrails
    category: execution
    implementations:
      - provider: copilot
        implementation: Agent mode
        location: VS Code
        support: full
  - id: guardrails
    name: Guardrails
    description: Limits.
    whatItIs: Allow and deny lists.
    useWhen:
      - Always
    prevents: Damage
    combineWith: []
    category: safety
    implementations: []
`),
		"comparison.yaml": file(`rows:
  - primitiveId: agent-mode
    primitiveName: Agent Mode
    copilot: {level: full, implementation: Agent mode, location: VS Code}
`),
		"config_paths.yaml": file(`groups:
  - provider: claude
    paths:
      - label: Persistent Instructions
        path: CLAUDE.md
`),
		"pages.yaml": file(`pages:
  - slug: demo
    title: Demo Tutorial
    description: A demo page
    mdFile: demo.md
    intro: |
      Intro text.
    samples: pages/demo/samples
    sections:
      - pages/demo/sections/first.md
    examplesHeading: Examples
    examples:
      - pages/demo/examples/minimal
`),
		"pages/demo/sections/first.md": file("---\nid: first\ntitle: First Section\ndescription: The first one.\n---\n\nBefore.\n\n```yaml\n{{% sample \"config.yaml\" %}}\n```\n\nAfter.\n"),
		"pages/demo/samples/config.yaml": file("key: value\n"),
		"pages/demo/examples/minimal/example.yaml": file(`id: minimal
displayName: Minimal
complexity: minimal
demonstrates: Nothing much
description: The smallest skill.
files:
  - path: SKILL.md
    language: markdown
keyTakeaways:
  - It works
`),
		"pages/demo/examples/minimal/SKILL.md": file("---\nname: minimal\ndescription: Does nothing. Use for tests.\n---\n\nSay hi.\n\n"),
	}
}

func TestLoadFixture(t *testing.T) {
	r, err := Load(context.Background(), fixtureFS())
	require.NoError(t, err)

	assert.Equal(t, "test.site", r.Site.Name)
	require.Len(t, r.Primitives, 2)
	assert.Equal(t, CategoryExecution, r.Primitives[0].Category)
	assert.Equal(t, ProviderCopilot, r.Primitives[0].Implementations[0].Provider)
	assert.Equal(t, SupportFull, r.Primitives[0].Implementations[0].Support)

	require.Len(t, r.Comparison, 1)
	assert.Equal(t, SupportFull, r.Comparison[0].Support(ProviderCopilot).Level)

	require.Len(t, r.ConfigPaths, 1)
	assert.Equal(t, ProviderClaude, r.ConfigPaths[0].Provider)

	require.Len(t, r.Pages, 1)
	page := r.Pages[0]
	assert.Equal(t, "demo", page.Slug)
	assert.Equal(t, "Intro text.", page.Intro)
	assert.Equal(t, 3, page.PartNumber, "part numbers start after primitives and comparison")

	require.Len(t, page.Sections, 1)
	section := page.Sections[0]
	assert.Equal(t, "first", section.ID)
	assert.Equal(t, "First Section", section.Title)
	assert.Equal(t, "The first one.", section.Description)
	assert.Equal(t, "Before.\n\n```yaml\nkey: value\n```\n\nAfter.", section.Content)

	require.Len(t, page.Examples, 1)
	example := page.Examples[0]
	assert.Equal(t, ComplexityMinimal, example.Complexity)
	require.Len(t, example.Files, 1)
	assert.Equal(t, "---\nname: minimal\ndescription: Does nothing. Use for tests.\n---\n\nSay hi.", example.Files[0].Content)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		errPart string
	}{
		{
			name:    "missing primitives file",
			mutate:  func(fsys fstest.MapFS) { delete(fsys, "primitives.yaml") },
			errPart: "failed to read primitives.yaml",
		},
		{
			name: "unknown category",
			mutate: func(fsys fstest.MapFS) {
				fsys["primitives.yaml"] = file("primitives:\n  - id: x\n    name: X\n    category: tools\n")
			},
			errPart: `unknown category "tools"`,
		},
		{
			name: "unknown support level",
			mutate: func(fsys fstest.MapFS) {
				fsys["comparison.yaml"] = file("rows:\n  - primitiveId: agent-mode\n    copilot: {level: most}\n")
			},
			errPart: `unknown support level "most"`,
		},
		{
			name: "unknown provider",
			mutate: func(fsys fstest.MapFS) {
				fsys["config_paths.yaml"] = file("groups:\n  - provider: windsurf\n    paths: []\n")
			},
			errPart: `unknown provider "windsurf"`,
		},
		{
			name: "unknown field",
			mutate: func(fsys fstest.MapFS) {
				fsys["site.yaml"] = file("name: x\ncolour: blue\n")
			},
			errPart: "failed to parse site.yaml",
		},
		{
			name:    "missing section file",
			mutate:  func(fsys fstest.MapFS) { delete(fsys, "pages/demo/sections/first.md") },
			errPart: "failed to read section pages/demo/sections/first.md",
		},
		{
			name: "section without frontmatter",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/demo/sections/first.md"] = file("Just a body.\n")
			},
			errPart: "missing frontmatter",
		},
		{
			name: "section without title",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/demo/sections/first.md"] = file("---\nid: first\ndescription: d\n---\nBody\n")
			},
			errPart: "title is required in frontmatter",
		},
		{
			name:    "missing code sample",
			mutate:  func(fsys fstest.MapFS) { delete(fsys, "pages/demo/samples/config.yaml") },
			errPart: `failed to read code sample "config.yaml"`,
		},
		{
			name: "unknown complexity",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/demo/examples/minimal/example.yaml"] = file("id: minimal\ncomplexity: trivial\nfiles: []\n")
			},
			errPart: `unknown complexity "trivial"`,
		},
		{
			name: "invalid skill name",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/demo/examples/minimal/SKILL.md"] = file("---\nname: Minimal_Skill\ndescription: d\n---\n")
			},
			errPart: `skill name "Minimal_Skill"`,
		},
		{
			name: "skill without description",
			mutate: func(fsys fstest.MapFS) {
				fsys["pages/demo/examples/minimal/SKILL.md"] = file("---\nname: minimal\n---\n")
			},
			errPart: "description is required",
		},
		{
			name:    "missing example file",
			mutate:  func(fsys fstest.MapFS) { delete(fsys, "pages/demo/examples/minimal/SKILL.md") },
			errPart: "failed to read example file SKILL.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fixtureFS()
			tt.mutate(fsys)

			r, err := Load(context.Background(), fsys)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadSampleWithoutSamplesDir(t *testing.T) {
	fsys := fixtureFS()
	fsys["pages.yaml"] = file(strings.Replace(string(fsys["pages.yaml"].Data), "    samples: pages/demo/samples\n", "", 1))

	_, err := Load(context.Background(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no samples directory")
}

func TestLoadAssignsPartNumbersInOrder(t *testing.T) {
	fsys := fixtureFS()
	fsys["pages.yaml"] = file(`pages:
  - slug: a
    title: A
    mdFile: a.md
    sections: []
  - slug: b
    title: B
    mdFile: b.md
    sections: []
  - slug: c
    title: C
    mdFile: c.md
    partNumber: 2
    sections: []
`)

	r, err := Load(context.Background(), fsys)
	require.NoError(t, err)

	require.Len(t, r.Pages, 3)
	assert.Equal(t, 3, r.Pages[0].PartNumber)
	assert.Equal(t, 4, r.Pages[1].PartNumber)
	assert.Equal(t, 2, r.Pages[2].PartNumber)

	var order []string
	for _, p := range r.PagesByPart() {
		order = append(order, p.Slug)
	}
	assert.Equal(t, []string{"c", "a", "b"}, order)
	assert.Equal(t, "a", r.Pages[0].Slug, "PagesByPart must not reorder the registry")
}

func TestLoadEmbedded(t *testing.T) {
	r, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "agentconfig.org", r.Site.Name)
	assert.Len(t, r.Primitives, 11)
	for _, c := range Categories {
		assert.NotEmpty(t, r.PrimitivesIn(c), "category %s has no primitives", c)
	}
	assert.Len(t, r.Comparison, 11)
	assert.Len(t, r.ConfigPaths, len(Providers))

	skills, ok := r.Page("skills")
	require.True(t, ok)
	assert.Equal(t, "skills.md", skills.MDFile)
	assert.Equal(t, 3, skills.PartNumber)
	assert.Len(t, skills.Sections, 5)
	assert.Len(t, skills.Examples, 5)

	agents, ok := r.Page("agents")
	require.True(t, ok)
	assert.Equal(t, "agents.md", agents.MDFile)
	assert.Equal(t, 4, agents.PartNumber)
	assert.Len(t, agents.Sections, 8)

	for _, page := range r.Pages {
		for _, s := range page.Sections {
			assert.NotContains(t, s.Content, "{{%", "section %s/%s has unexpanded samples", page.Slug, s.ID)
			assert.NotEmpty(t, s.Content, "section %s/%s is empty", page.Slug, s.ID)
		}
		for _, e := range page.Examples {
			for _, f := range e.Files {
				assert.NotEmpty(t, f.Content, "example %s file %s is empty", e.ID, f.Path)
			}
		}
	}

	assert.NoError(t, r.Validate().Err(true), "embedded content must pass strict validation")
}

func TestLoadEmbeddedIsStable(t *testing.T) {
	first, err := LoadEmbedded(context.Background())
	require.NoError(t, err)
	second, err := LoadEmbedded(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRegistryLookups(t *testing.T) {
	r, err := Load(context.Background(), fixtureFS())
	require.NoError(t, err)

	p, ok := r.Primitive("guardrails")
	assert.True(t, ok)
	assert.Equal(t, CategorySafety, p.Category)

	_, ok = r.Primitive("nope")
	assert.False(t, ok)

	_, ok = r.Page("nope")
	assert.False(t, ok)

	assert.Empty(t, r.PrimitivesIn(CategoryInstructions))
}
