package artifact

import (
	"context"
	"os"
	"sort"

	udiff "github.com/aymanbagabas/go-udiff"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/pkg/errors"
)

// Status describes how a committed document compares to a freshly generated one.
type Status int

const (
	// StatusCurrent means the file on disk matches the generated content.
	StatusCurrent Status = iota
	// StatusStale means the file exists with different content.
	StatusStale
	// StatusMissing means the file does not exist.
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusStale:
		return "stale"
	case StatusMissing:
		return "missing"
	}
	return "current"
}

// Drift is a document whose committed copy differs from the generated one.
type Drift struct {
	Name   string
	Status Status
	Diff   string
}

// Report is the result of Check.
type Report struct {
	Drifts  []Drift
	Orphans []string
}

// Clean reports whether the output directory is up to date.
func (r Report) Clean() bool {
	return len(r.Drifts) == 0 && len(r.Orphans) == 0
}

// Check compares docs with the committed files without writing anything.
// Files matching orphanPatterns that are not among docs are reported as orphans.
func (s *Store) Check(ctx context.Context, docs []Document, orphanPatterns []string) (Report, error) {
	var report Report

	for _, doc := range docs {
		current, err := s.Read(doc.Name)
		switch {
		case os.IsNotExist(err):
			report.Drifts = append(report.Drifts, Drift{
				Name:   doc.Name,
				Status: StatusMissing,
				Diff:   udiff.Unified("/dev/null", "b/"+doc.Name, "", doc.Content),
			})
		case err != nil:
			return Report{}, errors.Wrapf(err, "failed to read %s", doc.Name)
		case current != doc.Content:
			report.Drifts = append(report.Drifts, Drift{
				Name:   doc.Name,
				Status: StatusStale,
				Diff:   udiff.Unified("a/"+doc.Name, "b/"+doc.Name, current, doc.Content),
			})
		}
	}

	orphans, err := s.Orphans(docs, orphanPatterns)
	if err != nil {
		return Report{}, err
	}
	report.Orphans = orphans

	logger.G(ctx).WithField("dir", s.dir).
		WithField("drifts", len(report.Drifts)).
		WithField("orphans", len(report.Orphans)).
		Debug("artifact check complete")

	return report, nil
}

// Orphans lists files under the store matching any of patterns that no
// document in docs produces. Names are slash-separated and sorted.
func (s *Store) Orphans(docs []Document, patterns []string) ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil, nil
	}

	produced := make(map[string]bool, len(docs))
	for _, doc := range docs {
		produced[doc.Name] = true
	}

	fsys := os.DirFS(s.dir)
	found := make(map[string]bool)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid orphan pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to match %q", pattern)
		}
		for _, m := range matches {
			if !produced[m] {
				found[m] = true
			}
		}
	}

	orphans := make([]string, 0, len(found))
	for name := range found {
		orphans = append(orphans, name)
	}
	sort.Strings(orphans)
	return orphans, nil
}

// Prune removes the named files from the store.
func (s *Store) Prune(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove %s", name)
		}
		logger.G(ctx).WithField("file", name).Info("removed orphaned artifact")
	}
	return nil
}
