// Package artifact commits generated documents to an output directory.
//
// A set of documents is written all-or-nothing at the staging level: every
// document is first written to a temporary file next to its target, and
// only when all of them are staged are they renamed into place. A failure
// while staging leaves the previous outputs untouched.
package artifact

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/pkg/errors"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Document is one generated text artifact. Name is a slash-separated path
// relative to the output directory.
type Document struct {
	Name    string
	Content string
}

// Size returns the content length in bytes.
func (d Document) Size() int {
	return len(d.Content)
}

// Store reads and writes documents under a single root directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the filesystem path of a document name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

type staged struct {
	temp   string
	target string
}

// WriteAll commits docs. Documents are staged to temporary files first; if
// any staging step fails all temporary files are removed and no target is
// modified.
func (s *Store) WriteAll(ctx context.Context, docs []Document) error {
	log := logger.G(ctx).WithField("dir", s.dir)

	if err := ValidateNames(docs); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", s.dir)
	}

	pending := make([]staged, 0, len(docs))
	cleanup := func() {
		for _, p := range pending {
			os.Remove(p.temp)
		}
	}

	for _, doc := range docs {
		p, err := s.stage(doc)
		if err != nil {
			cleanup()
			return err
		}
		pending = append(pending, p)
	}

	for i, p := range pending {
		if err := os.Rename(p.temp, p.target); err != nil {
			pending = pending[i:]
			cleanup()
			return errors.Wrapf(err, "failed to move %s into place", p.target)
		}
	}

	log.WithField("documents", len(docs)).Debug("artifacts committed")
	return nil
}

func (s *Store) stage(doc Document) (staged, error) {
	target := s.Path(doc.Name)

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return staged{}, errors.Wrapf(err, "failed to create directory for %s", doc.Name)
	}

	f, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return staged{}, errors.Wrapf(err, "failed to stage %s", doc.Name)
	}

	if _, err := f.WriteString(doc.Content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return staged{}, errors.Wrapf(err, "failed to write %s", doc.Name)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return staged{}, errors.Wrapf(err, "failed to write %s", doc.Name)
	}
	if err := os.Chmod(f.Name(), filePerm); err != nil {
		os.Remove(f.Name())
		return staged{}, errors.Wrapf(err, "failed to set permissions on %s", doc.Name)
	}

	return staged{temp: f.Name(), target: target}, nil
}

// ValidateNames rejects empty, absolute, escaping and duplicate document names.
func ValidateNames(docs []Document) error {
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		name := doc.Name
		switch {
		case name == "":
			return errors.New("document has an empty name")
		case path.IsAbs(name) || filepath.IsAbs(name):
			return errors.Errorf("document name %q must be relative", name)
		case path.Clean(name) != name || name == "." || name == ".." || strings.HasPrefix(name, "../"):
			return errors.Errorf("document name %q must be a clean path inside the output directory", name)
		case seen[name]:
			return errors.Errorf("duplicate document name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// Read returns the content currently committed for name.
func (s *Store) Read(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
