package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jingkaihe/agentconfig/pkg/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate the artifacts and serve them locally",
	Long: `Generate every artifact, then serve llms.txt, llms-full.txt and the page documents from
the public directory and the HTML pages from the html directory.

The server is available at http://127.0.0.1:8080 by default.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if _, err := generate(ctx, cfg, false); err != nil {
			return err
		}

		server, err := preview.NewServer(previewConfig())
		if err != nil {
			return err
		}
		return server.Start(ctx)
	},
}

func init() {
	previewCmd.Flags().String("host", "", "Host to bind the preview server to")
	previewCmd.Flags().Int("port", 0, "Port to bind the preview server to")
	bindFlags(previewCmd.Flags(), map[string]string{
		"host": "preview.host",
		"port": "preview.port",
	})
}

func previewConfig() *preview.ServerConfig {
	return &preview.ServerConfig{
		Host:      cfg.Preview.Host,
		Port:      cfg.Preview.Port,
		PublicDir: cfg.PublicDir,
		HTMLDir:   cfg.HTMLDir,
	}
}
