package main

import (
	"fmt"

	"github.com/jingkaihe/agentconfig/pkg/llmstxt"
	"github.com/spf13/cobra"
)

var llmstxtCmd = &cobra.Command{
	Use:   "llms.txt",
	Short: "Print the generated llms.txt",
	Long:  `Render the llms.txt table of contents from the content registry and print it without writing any files.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		registry, err := loadRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		renderer, err := llmstxt.RendererForDir(cfg.TemplatesDir)
		if err != nil {
			return err
		}

		toc, err := llmstxt.NewGenerator(registry).WithRenderer(renderer).TableOfContents()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), toc)
		return nil
	},
}
