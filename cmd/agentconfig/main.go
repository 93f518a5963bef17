package main

import (
	"os"

	"github.com/jingkaihe/agentconfig/pkg/config"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cfg is loaded once per invocation by the root command's pre-run hook.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "agentconfig",
	Short: "Generate the agentconfig.org content artifacts",
	Long: `agentconfig renders the AI primitives registry into llms.txt, llms-full.txt,
per-page markdown documents and HTML pages, and checks that committed artifacts are up to date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return errors.Wrap(err, "invalid configuration")
		}
		cfg = loaded

		if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		presenter.SetQuiet(quiet)
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("content-dir", "", "Registry directory to load instead of the embedded content")
	flags.String("public-dir", config.DefaultPublicDir, "Output directory for text artifacts")
	flags.String("html-dir", config.DefaultHTMLDir, "Output directory for HTML pages")
	flags.String("templates-dir", "", "Directory of *.tmpl files overriding the built-in document templates")
	flags.String("profile", "", "Configuration profile to apply")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (text or json)")
	flags.BoolP("quiet", "q", false, "Suppress progress output")

	bindFlags(flags, map[string]string{
		"content-dir":   "content_dir",
		"public-dir":    "public_dir",
		"html-dir":      "html_dir",
		"templates-dir": "templates_dir",
		"profile":       "profile",
		"log-level":     "log_level",
		"log-format":    "log_format",
	})

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(llmstxtCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags binds each flag to its configuration key so flags take
// precedence over the environment and the config file.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func main() {
	if err := config.Init(viper.GetViper()); err != nil {
		presenter.Error(err, "Failed to load configuration")
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if !errors.As(err, &exit) {
			presenter.Error(err, "agentconfig")
		}
		os.Exit(1)
	}
}

// exitError signals a non-zero exit whose cause has already been reported.
type exitError struct {
	reason string
}

func (e exitError) Error() string {
	return e.reason
}
