package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jingkaihe/agentconfig/pkg/markdown"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a section markdown file to HTML",
	Long: `Render markdown with the site's section renderer and print the HTML. Reads from the
given file, or from stdin when no file (or "-") is given. Fenced code blocks are split out
unless --inline is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inline, _ := cmd.Flags().GetBool("inline")

		src, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(src, inline))
		return nil
	},
}

func init() {
	renderCmd.Flags().Bool("inline", false, "Run only the inline pipeline without splitting fenced code")
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", args[0])
	}
	return string(data), nil
}

func renderMarkdown(src string, inline bool) string {
	if inline {
		return markdown.Render(src)
	}
	return markdown.RenderHTML(src)
}
