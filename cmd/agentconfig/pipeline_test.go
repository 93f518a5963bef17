package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jingkaihe/agentconfig/pkg/artifact"
	"github.com/jingkaihe/agentconfig/pkg/config"
	"github.com/jingkaihe/agentconfig/pkg/content"
	"github.com/jingkaihe/agentconfig/pkg/presenter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	presenter.SetQuiet(true)
	t.Cleanup(func() { presenter.SetQuiet(false) })

	dir := t.TempDir()
	return config.Config{
		PublicDir:      filepath.Join(dir, "public"),
		HTMLDir:        filepath.Join(dir, "dist"),
		OrphanPatterns: config.DefaultOrphanPatterns,
		LogLevel:       config.DefaultLogLevel,
		LogFormat:      config.DefaultLogFormat,
		Preview:        config.PreviewConfig{Host: config.DefaultPreviewHost, Port: config.DefaultPreviewPort},
		Watch:          config.WatchConfig{Debounce: config.DefaultDebounce, Include: config.DefaultWatchInclude},
	}
}

// copyContent writes the embedded registry to a directory so tests can edit it.
func copyContent(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.CopyFS(dir, content.Embedded()))
	return dir
}

func appendFile(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func reportFor(t *testing.T, reports []storeReport, dir string) artifact.Report {
	t.Helper()
	for _, r := range reports {
		if r.Dir == dir {
			return r.Report
		}
	}
	t.Fatalf("no report for %s", dir)
	return artifact.Report{}
}

func TestGenerateThenCheckIsClean(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	out, err := generate(ctx, c, false)
	require.NoError(t, err)

	for _, name := range []string{"llms.txt", "llms-full.txt", "skills.md", "agents.md"} {
		assert.FileExists(t, filepath.Join(c.PublicDir, name))
	}
	assert.FileExists(t, filepath.Join(c.HTMLDir, "index.html"))
	for _, page := range out.Registry.Pages {
		assert.FileExists(t, filepath.Join(c.HTMLDir, page.Slug, "index.html"))
	}

	reports, err := check(ctx, c)
	require.NoError(t, err)
	for _, r := range reports {
		assert.True(t, r.Report.Clean(), "%s: %+v", r.Dir, r.Report)
	}
	assert.True(t, printReports(reports))
}

func TestCheckReportsStaleAndMissing(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	_, err := generate(ctx, c, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(c.PublicDir, "llms.txt"), []byte("# outdated\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(c.PublicDir, "agents.md")))

	reports, err := check(ctx, c)
	require.NoError(t, err)

	public := reportFor(t, reports, c.PublicDir)
	require.Len(t, public.Drifts, 2)

	assert.Equal(t, "llms.txt", public.Drifts[0].Name)
	assert.Equal(t, artifact.StatusStale, public.Drifts[0].Status)
	assert.Contains(t, public.Drifts[0].Diff, "--- a/llms.txt")
	assert.Contains(t, public.Drifts[0].Diff, "-# outdated")

	assert.Equal(t, "agents.md", public.Drifts[1].Name)
	assert.Equal(t, artifact.StatusMissing, public.Drifts[1].Status)

	assert.True(t, reportFor(t, reports, c.HTMLDir).Clean())
	assert.False(t, printReports(reports))
}

func TestGeneratePrunesOrphans(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	_, err := generate(ctx, c, false)
	require.NoError(t, err)

	oldPage := filepath.Join(c.PublicDir, "retired.md")
	oldHTML := filepath.Join(c.HTMLDir, "retired", "index.html")
	keep := filepath.Join(c.PublicDir, "robots.txt")
	require.NoError(t, os.WriteFile(oldPage, []byte("# Retired\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(oldHTML), 0o755))
	require.NoError(t, os.WriteFile(oldHTML, []byte("<h1>retired</h1>"), 0o644))
	require.NoError(t, os.WriteFile(keep, []byte("User-agent: *\n"), 0o644))

	reports, err := check(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"retired.md"}, reportFor(t, reports, c.PublicDir).Orphans)
	assert.Equal(t, []string{"retired/index.html"}, reportFor(t, reports, c.HTMLDir).Orphans)

	_, err = generate(ctx, c, true)
	require.NoError(t, err)
	assert.NoFileExists(t, oldPage)
	assert.NoFileExists(t, oldHTML)
	assert.FileExists(t, keep)
}

func TestGenerateFromContentDir(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.ContentDir = copyContent(t)

	out, err := generate(ctx, c, false)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Text)
}

func TestGenerateMissingContentDir(t *testing.T) {
	c := testConfig(t)
	c.ContentDir = filepath.Join(t.TempDir(), "absent")

	_, err := generate(context.Background(), c, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open content directory")
	assert.NoDirExists(t, c.PublicDir)
}

func TestDanglingReferenceIsWarningUnlessStrict(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.ContentDir = copyContent(t)
	appendFile(t, filepath.Join(c.ContentDir, content.ComparisonFileName),
		"\n  - primitiveId: ghost\n    primitiveName: Ghost Primitive\n")

	out, err := generate(ctx, c, false)
	require.NoError(t, err)
	full := out.Text[1]
	assert.Equal(t, "llms-full.txt", full.Name)
	assert.Contains(t, full.Content, "| Ghost Primitive |")

	c.Strict = true
	c.PublicDir = filepath.Join(t.TempDir(), "strict")
	_, err = generate(ctx, c, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `comparison row "ghost" (Ghost Primitive) references no known primitive`)
	assert.NoDirExists(t, c.PublicDir)
}

func TestGenerateWithTemplateOverride(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.TemplatesDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(c.TemplatesDir, "toc.tmpl"), []byte("# {{ .Site.Name }}\n\nCustom index.\n"), 0o644))

	_, err := generate(ctx, c, false)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(c.PublicDir, "llms.txt"))
	require.NoError(t, err)
	assert.Equal(t, "# agentconfig.org\n\nCustom index.\n", string(data))
}

func TestGenerateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	_, err := generate(ctx, c, false)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(c.PublicDir, "llms-full.txt"))
	require.NoError(t, err)

	_, err = generate(ctx, c, false)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(c.PublicDir, "llms-full.txt"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	entries, err := os.ReadDir(c.PublicDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
}
