package content

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// FileSchema pairs a registry file name with the JSON Schema of its layout.
type FileSchema struct {
	File   string
	Schema *jsonschema.Schema
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// Schemas returns the schema of every registry file, in a fixed order.
func Schemas() []FileSchema {
	return []FileSchema{
		{File: SiteFileName, Schema: generateSchema[SiteMeta]()},
		{File: PrimitivesFileName, Schema: generateSchema[PrimitivesFile]()},
		{File: ComparisonFileName, Schema: generateSchema[ComparisonFile]()},
		{File: ConfigPathsFileName, Schema: generateSchema[ConfigPathsFile]()},
		{File: PagesFileName, Schema: generateSchema[PagesFile]()},
		{File: ExampleFileName, Schema: generateSchema[SkillExample]()},
	}
}

// SchemaFor returns the schema of one registry file.
func SchemaFor(file string) (*jsonschema.Schema, error) {
	for _, s := range Schemas() {
		if s.File == file {
			return s.Schema, nil
		}
	}
	return nil, errors.Errorf("no schema for %q", file)
}
