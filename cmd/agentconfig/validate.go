package main

import (
	"fmt"

	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the content registry",
	Long: `Load the content registry and check its referential integrity: duplicate ids and slugs,
missing names and comparison rows that reference unknown primitives. Dangling references are
warnings unless --strict is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		strict, _ := cmd.Flags().GetBool("strict")

		registry, err := loadRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		if err := validateRegistry(ctx, registry, strict || cfg.Strict); err != nil {
			return err
		}

		presenter.Success(fmt.Sprintf("Registry is valid: %d primitives, %d comparison rows, %d pages",
			len(registry.Primitives), len(registry.Comparison), len(registry.Pages)))
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Treat dangling references as errors")
}
