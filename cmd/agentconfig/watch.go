package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/jingkaihe/agentconfig/pkg/config"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate artifacts whenever the content registry changes",
	Long: `Generate every artifact, then watch the content directory (and the templates directory,
when set) and regenerate after each burst of changes. Requires --content-dir, since the
embedded registry cannot change while the binary runs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if cfg.ContentDir == "" {
			return errors.New("watch requires a content directory (--content-dir or content_dir)")
		}

		return runWatchMode(ctx, cfg)
	},
}

func init() {
	watchCmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period after the last change before regenerating")
	watchCmd.Flags().StringSlice("include", config.DefaultWatchInclude, "Glob patterns of files that trigger regeneration")
	bindFlags(watchCmd.Flags(), map[string]string{
		"debounce": "watch.debounce",
		"include":  "watch.include",
	})
}

// includeMatcher reports whether a path relative to a watched root should
// trigger regeneration.
type includeMatcher struct {
	globs []glob.Glob
}

func newIncludeMatcher(patterns []string) (*includeMatcher, error) {
	m := &includeMatcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid include pattern %q", pattern)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m *includeMatcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to the first root containing it.
func relativeTo(roots []string, path string) (string, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return rel, true
	}
	return "", false
}

func watchRoots(c config.Config) []string {
	roots := []string{filepath.Clean(c.ContentDir)}
	if c.TemplatesDir != "" {
		roots = append(roots, filepath.Clean(c.TemplatesDir))
	}
	return roots
}

func runWatchMode(ctx context.Context, c config.Config) error {
	log := logger.G(ctx)

	matcher, err := newIncludeMatcher(c.Watch.Include)
	if err != nil {
		return err
	}

	regenerate := func() {
		if _, err := generate(ctx, c, false); err != nil {
			presenter.Error(err, "Regeneration failed")
			log.WithError(err).Error("regeneration failed")
			return
		}
		presenter.Success("Artifacts regenerated")
	}

	regenerate()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	roots := watchRoots(c)
	for _, root := range roots {
		if err := addTree(ctx, watcher, root); err != nil {
			return err
		}
	}

	events := make(chan FileEvent)
	debounced := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debounced, c.Watch.Debounce)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addTree(ctx, watcher, event.Name); err != nil {
							log.WithError(err).WithField("directory", event.Name).Warn("failed to watch new directory")
						}
						continue
					}
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				rel, ok := relativeTo(roots, event.Name)
				if !ok || !matcher.Match(rel) {
					log.WithField("file", event.Name).Debug("ignoring change")
					continue
				}
				select {
				case events <- FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				log.WithError(err).Error("error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	presenter.Info(fmt.Sprintf("Watching %s for changes... Press Ctrl+C to stop", strings.Join(roots, ", ")))

	for {
		select {
		case event := <-debounced:
			presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
			log.WithFields(map[string]any{
				"file":      event.Path,
				"operation": event.Op.String(),
				"timestamp": event.Time,
			}).Debug("file change detected")
			regenerate()
		case <-ctx.Done():
			return nil
		}
	}
}

func addTree(ctx context.Context, watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "failed to walk %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		logger.G(ctx).WithField("directory", path).Debug("adding directory to watcher")
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// debounceFileEvents coalesces bursts of events: the last event of a burst
// is emitted once no new event has arrived for delay. Regeneration covers
// the whole registry, so events for different files share one timer.
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending FileEvent
	)

	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case event, ok := <-input:
			if !ok {
				stop()
				return
			}
			pending = event
			stop()
			timer = time.NewTimer(delay)
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case output <- pending:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			stop()
			return
		}
	}
}
