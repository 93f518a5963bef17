package main

import (
	"context"
	"fmt"

	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/config"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that committed artifacts match the content registry",
	Long: `Regenerate every artifact in memory and compare it with the files on disk. Stale and
missing files are shown as unified diffs and orphaned files are listed. The command exits
non-zero when anything is out of date, which makes it suitable for CI.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reports, err := check(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if !printReports(reports) {
			return exitError{reason: "artifacts are out of date"}
		}
		presenter.Success("All artifacts are up to date")
		return nil
	},
}

// storeReport is the check result of one output directory.
type storeReport struct {
	Dir    string
	Report artifact.Report
}

func check(ctx context.Context, c config.Config) ([]storeReport, error) {
	out, err := render(ctx, c)
	if err != nil {
		return nil, err
	}

	publicReport, err := artifact.NewStore(c.PublicDir).Check(ctx, out.Text, c.OrphanPatterns)
	if err != nil {
		return nil, err
	}
	htmlReport, err := artifact.NewStore(c.HTMLDir).Check(ctx, out.HTML, htmlOrphanPatterns)
	if err != nil {
		return nil, err
	}

	return []storeReport{
		{Dir: c.PublicDir, Report: publicReport},
		{Dir: c.HTMLDir, Report: htmlReport},
	}, nil
}

// printReports shows every drift and orphan and reports whether all stores are clean.
func printReports(reports []storeReport) bool {
	clean := true
	for _, r := range reports {
		if r.Report.Clean() {
			continue
		}
		clean = false

		presenter.Section(r.Dir)
		for _, d := range r.Report.Drifts {
			presenter.Warning(fmt.Sprintf("%s is %s", d.Name, d.Status))
			presenter.Diff(d.Diff)
		}
		for _, name := range r.Report.Orphans {
			presenter.Warning(fmt.Sprintf("%s is not produced by the generator", name))
		}
	}
	return clean
}
