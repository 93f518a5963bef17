package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [file]",
	Short: "Print JSON Schemas for the registry files",
	Long: `Print the JSON Schema of a registry file (site.yaml, primitives.yaml, comparison.yaml,
config_paths.yaml, pages.yaml or example.yaml), or of all of them keyed by file name when no
file is given. Point your editor's YAML language server at these to validate content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := ""
		if len(args) == 1 {
			file = args[0]
		}
		return writeSchema(cmd.OutOrStdout(), file)
	},
}

func writeSchema(w io.Writer, file string) error {
	var v any
	if file == "" {
		all := make(map[string]any)
		for _, s := range content.Schemas() {
			all[s.File] = s.Schema
		}
		v = all
	} else {
		s, err := content.SchemaFor(file)
		if err != nil {
			return err
		}
		v = s
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode schema")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
