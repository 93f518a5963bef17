package main

import (
	"fmt"

	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate llms.txt, llms-full.txt, page documents and HTML pages",
	Long: `Render every artifact from the content registry and write them to the public and html
directories. All documents are staged first and only moved into place once every one of them
has been written, so a failed run leaves the previous outputs untouched.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		prune, _ := cmd.Flags().GetBool("prune")

		out, err := generate(cmd.Context(), cfg, prune)
		if err != nil {
			return err
		}

		presenter.Section("Text artifacts")
		listArtifacts(artifact.NewStore(cfg.PublicDir), out.Text)
		presenter.Section("HTML pages")
		listArtifacts(artifact.NewStore(cfg.HTMLDir), out.HTML)
		presenter.Success(fmt.Sprintf("Generated %d documents", len(out.Text)+len(out.HTML)))
		return nil
	},
}

func init() {
	generateCmd.Flags().Bool("strict", false, "Fail on dangling registry references and lint problems")
	generateCmd.Flags().Bool("prune", false, "Remove previously generated files that are no longer produced")
	bindFlags(generateCmd.Flags(), map[string]string{"strict": "strict"})
}

func listArtifacts(store *artifact.Store, docs []artifact.Document) {
	for _, doc := range docs {
		presenter.Artifact(store.Path(doc.Name), doc.Size())
	}
}
