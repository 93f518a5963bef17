package content

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Registry file names, relative to the content root.
const (
	SiteFileName        = "site.yaml"
	PrimitivesFileName  = "primitives.yaml"
	ComparisonFileName  = "comparison.yaml"
	ConfigPathsFileName = "config_paths.yaml"
	PagesFileName       = "pages.yaml"
	ExampleFileName     = "example.yaml"
)

// firstPagePart is the full-content part number of the first page. Parts 1 and 2
// are the primitives and the provider comparison.
const firstPagePart = 3

// PrimitivesFile is the layout of primitives.yaml.
type PrimitivesFile struct {
	Primitives []Primitive `yaml:"primitives" json:"primitives"`
}

// ComparisonFile is the layout of comparison.yaml.
type ComparisonFile struct {
	Rows []ComparisonRow `yaml:"rows" json:"rows"`
}

// ConfigPathsFile is the layout of config_paths.yaml.
type ConfigPathsFile struct {
	Groups []ConfigPathGroup `yaml:"groups" json:"groups"`
}

// PageManifest is one page entry of pages.yaml. Sections and examples are
// paths relative to the content root, listed in display order.
type PageManifest struct {
	PageMeta        `yaml:",inline" json:",inline"`
	Sections        []string `yaml:"sections" json:"sections"`
	ExamplesHeading string   `yaml:"examplesHeading,omitempty" json:"examplesHeading,omitempty"`
	ExamplesIntro   string   `yaml:"examplesIntro,omitempty" json:"examplesIntro,omitempty"`
	Examples        []string `yaml:"examples,omitempty" json:"examples,omitempty"`
	Samples         string   `yaml:"samples,omitempty" json:"samples,omitempty"`
	Links           []Link   `yaml:"links,omitempty" json:"links,omitempty"`
}

// PagesFile is the layout of pages.yaml.
type PagesFile struct {
	Pages []PageManifest `yaml:"pages" json:"pages"`
}

// Load reads the whole registry from fsys. Any unreadable or malformed file
// aborts the load; the error names the file.
func Load(ctx context.Context, fsys fs.FS) (*Registry, error) {
	log := logger.G(ctx)
	r := &Registry{}

	if err := decodeYAML(fsys, SiteFileName, &r.Site); err != nil {
		return nil, err
	}

	var primitives PrimitivesFile
	if err := decodeYAML(fsys, PrimitivesFileName, &primitives); err != nil {
		return nil, err
	}
	r.Primitives = primitives.Primitives

	var comparison ComparisonFile
	if err := decodeYAML(fsys, ComparisonFileName, &comparison); err != nil {
		return nil, err
	}
	r.Comparison = comparison.Rows

	var configPaths ConfigPathsFile
	if err := decodeYAML(fsys, ConfigPathsFileName, &configPaths); err != nil {
		return nil, err
	}
	r.ConfigPaths = configPaths.Groups

	var pages PagesFile
	if err := decodeYAML(fsys, PagesFileName, &pages); err != nil {
		return nil, err
	}
	for i, manifest := range pages.Pages {
		page, err := loadPage(fsys, manifest)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load page %q", manifest.Slug)
		}
		if page.PartNumber == 0 {
			page.PartNumber = firstPagePart + i
		}
		r.Pages = append(r.Pages, page)
		log.WithField("page", page.Slug).
			WithField("sections", len(page.Sections)).
			WithField("examples", len(page.Examples)).
			Debug("loaded page")
	}

	log.WithField("primitives", len(r.Primitives)).
		WithField("comparison_rows", len(r.Comparison)).
		WithField("pages", len(r.Pages)).
		Debug("content registry loaded")

	return r, nil
}

// LoadEmbedded loads the registry compiled into the binary.
func LoadEmbedded(ctx context.Context) (*Registry, error) {
	return Load(ctx, Embedded())
}

func decodeYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return errors.Wrapf(err, "failed to parse %s", name)
	}
	return nil
}

func loadPage(fsys fs.FS, manifest PageManifest) (Page, error) {
	page := Page{
		PageMeta:        manifest.PageMeta,
		ExamplesHeading: manifest.ExamplesHeading,
		ExamplesIntro:   strings.TrimSpace(manifest.ExamplesIntro),
		Links:           manifest.Links,
	}
	page.Intro = strings.TrimSpace(page.Intro)

	for _, name := range manifest.Sections {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return Page{}, errors.Wrapf(err, "failed to read section %s", name)
		}
		section, err := parseSection(src)
		if err != nil {
			return Page{}, errors.Wrapf(err, "failed to parse section %s", name)
		}
		section.Content, err = expandSamples(fsys, manifest.Samples, name, section.Content)
		if err != nil {
			return Page{}, err
		}
		page.Sections = append(page.Sections, section)
	}

	for _, dir := range manifest.Examples {
		example, err := loadExample(fsys, dir)
		if err != nil {
			return Page{}, errors.Wrapf(err, "failed to load example %s", dir)
		}
		page.Examples = append(page.Examples, example)
	}

	return page, nil
}

func loadExample(fsys fs.FS, dir string) (SkillExample, error) {
	var example SkillExample
	if err := decodeYAML(fsys, path.Join(dir, ExampleFileName), &example); err != nil {
		return SkillExample{}, err
	}

	for i, file := range example.Files {
		src, err := fs.ReadFile(fsys, path.Join(dir, file.Path))
		if err != nil {
			return SkillExample{}, errors.Wrapf(err, "failed to read example file %s", file.Path)
		}
		if path.Base(file.Path) == skillFileName {
			if err := validateSkillFile(src); err != nil {
				return SkillExample{}, errors.Wrapf(err, "invalid %s", file.Path)
			}
		}
		example.Files[i].Content = strings.TrimRight(string(src), "\n")
	}

	return example, nil
}

// expandSamples resolves {{% sample "name" %}} calls in a section body against
// the page's samples directory.
func expandSamples(fsys fs.FS, samplesDir, name, body string) (string, error) {
	if !strings.Contains(body, "{{%") {
		return body, nil
	}

	funcs := template.FuncMap{
		"sample": func(sample string) (string, error) {
			if samplesDir == "" {
				return "", errors.Errorf("code sample %q referenced but the page declares no samples directory", sample)
			}
			src, err := fs.ReadFile(fsys, path.Join(samplesDir, sample))
			if err != nil {
				return "", errors.Wrapf(err, "failed to read code sample %q", sample)
			}
			return strings.TrimRight(string(src), "\n"), nil
		},
	}

	tmpl, err := template.New(name).Delims("{{%", "%}}").Funcs(funcs).Parse(body)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse section template %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, nil); err != nil {
		return "", errors.Wrapf(err, "failed to expand section %s", name)
	}
	return buf.String(), nil
}
