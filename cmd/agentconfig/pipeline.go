package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/config"
	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/jingkaihe/agentconfig/pkg/llmstxt"
	"github.com/jingkaihe/agentconfig/pkg/logger"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/jingkaihe/agentconfig/pkg/site"
	"github.com/pkg/errors"
)

// htmlOrphanPatterns selects stale pages in the html directory.
var htmlOrphanPatterns = []string{"**/*.html"}

// outputs is one complete rendering of the registry.
type outputs struct {
	Registry *content.Registry
	Text     []artifact.Document
	HTML     []artifact.Document
}

func loadRegistry(ctx context.Context, c config.Config) (*content.Registry, error) {
	if c.ContentDir == "" {
		return content.LoadEmbedded(ctx)
	}

	info, err := os.Stat(c.ContentDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open content directory %s", c.ContentDir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("content path %s is not a directory", c.ContentDir)
	}
	return content.Load(ctx, os.DirFS(c.ContentDir))
}

// validateRegistry reports dangling references as warnings, or fails on them
// in strict mode. Structural problems always fail.
func validateRegistry(ctx context.Context, registry *content.Registry, strict bool) error {
	result := registry.Validate()
	if !strict {
		for _, w := range result.WarningList() {
			presenter.Warning(w.Error())
			logger.G(ctx).WithError(w).Warn("content registry inconsistency")
		}
	}
	if err := result.Err(strict); err != nil {
		return errors.Wrap(err, "content registry is invalid")
	}
	return nil
}

// render loads, validates and renders everything without touching the
// output directories.
func render(ctx context.Context, c config.Config) (outputs, error) {
	registry, err := loadRegistry(ctx, c)
	if err != nil {
		return outputs{}, err
	}

	if err := validateRegistry(ctx, registry, c.Strict); err != nil {
		return outputs{}, err
	}

	renderer, err := llmstxt.RendererForDir(c.TemplatesDir)
	if err != nil {
		return outputs{}, err
	}

	text, err := llmstxt.NewGenerator(registry).WithRenderer(renderer).Documents(ctx)
	if err != nil {
		return outputs{}, err
	}

	if err := llmstxt.Lint(registry, text); err != nil {
		if c.Strict {
			return outputs{}, errors.Wrap(err, "generated documents failed lint")
		}
		if merr, ok := err.(*multierror.Error); ok {
			for _, e := range merr.Errors {
				presenter.Warning(e.Error())
			}
		}
		logger.G(ctx).WithError(err).Warn("generated documents failed lint")
	}

	builder, err := site.NewBuilder(registry)
	if err != nil {
		return outputs{}, err
	}
	html, err := builder.Documents(ctx)
	if err != nil {
		return outputs{}, err
	}

	return outputs{Registry: registry, Text: text, HTML: html}, nil
}

// generate renders and commits every artifact. With prune, files matching
// the orphan patterns that are no longer produced are removed.
func generate(ctx context.Context, c config.Config, prune bool) (outputs, error) {
	out, err := render(ctx, c)
	if err != nil {
		return outputs{}, err
	}

	publicStore := artifact.NewStore(c.PublicDir)
	htmlStore := artifact.NewStore(c.HTMLDir)

	if err := publicStore.WriteAll(ctx, out.Text); err != nil {
		return outputs{}, errors.Wrap(err, "failed to write text artifacts")
	}
	if err := htmlStore.WriteAll(ctx, out.HTML); err != nil {
		return outputs{}, errors.Wrap(err, "failed to write html pages")
	}

	if prune {
		if err := pruneOrphans(ctx, publicStore, out.Text, c.OrphanPatterns); err != nil {
			return outputs{}, err
		}
		if err := pruneOrphans(ctx, htmlStore, out.HTML, htmlOrphanPatterns); err != nil {
			return outputs{}, err
		}
	}

	logger.G(ctx).WithField("text", len(out.Text)).WithField("html", len(out.HTML)).Info("artifacts generated")
	return out, nil
}

func pruneOrphans(ctx context.Context, store *artifact.Store, docs []artifact.Document, patterns []string) error {
	orphans, err := store.Orphans(docs, patterns)
	if err != nil {
		return err
	}
	for _, name := range orphans {
		presenter.Info(fmt.Sprintf("Removing orphaned %s", store.Path(name)))
	}
	return store.Prune(ctx, orphans)
}
