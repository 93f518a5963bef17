package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	config, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "", config.ContentDir)
	assert.Equal(t, DefaultPublicDir, config.PublicDir)
	assert.Equal(t, DefaultHTMLDir, config.HTMLDir)
	assert.False(t, config.Strict)
	assert.Equal(t, DefaultOrphanPatterns, config.OrphanPatterns)
	assert.Equal(t, DefaultLogLevel, config.LogLevel)
	assert.Equal(t, DefaultLogFormat, config.LogFormat)
	assert.Equal(t, PreviewConfig{Host: DefaultPreviewHost, Port: DefaultPreviewPort}, config.Preview)
	assert.Equal(t, DefaultDebounce, config.Watch.Debounce)
	assert.Equal(t, DefaultWatchInclude, config.Watch.Include)
}

func TestLoadFromFile(t *testing.T) {
	v := newViper(t, `
public_dir: out/public
strict: true
preview:
  port: 9000
watch:
  debounce: 1s
`)
	config, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "out/public", config.PublicDir)
	assert.True(t, config.Strict)
	assert.Equal(t, 9000, config.Preview.Port)
	assert.Equal(t, DefaultPreviewHost, config.Preview.Host)
	assert.Equal(t, time.Second, config.Watch.Debounce)
}

func TestLoadProfile(t *testing.T) {
	yaml := `
public_dir: site/public
profile: ci
profiles:
  default:
    public_dir: ignored
  ci:
    public_dir: build/public
    strict: true
    log_level: debug
    watch:
      debounce: 2s
    preview:
      port: "9090"
`
	t.Run("active profile overrides base values", func(t *testing.T) {
		config, err := Load(newViper(t, yaml))
		require.NoError(t, err)

		assert.Equal(t, "build/public", config.PublicDir)
		assert.True(t, config.Strict)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, 2*time.Second, config.Watch.Debounce)
		assert.Equal(t, 9090, config.Preview.Port)
		assert.Equal(t, DefaultPreviewHost, config.Preview.Host)
		assert.Equal(t, DefaultHTMLDir, config.HTMLDir)
		assert.NotContains(t, config.Profiles, "default")
	})

	t.Run("default profile means none", func(t *testing.T) {
		v := newViper(t, yaml)
		v.Set("profile", "default")

		config, err := Load(v)
		require.NoError(t, err)
		assert.Equal(t, "site/public", config.PublicDir)
		assert.False(t, config.Strict)
	})

	t.Run("unknown profile", func(t *testing.T) {
		v := newViper(t, yaml)
		v.Set("profile", "staging")

		_, err := Load(v)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `profile "staging" is not defined`)
	})
}

func TestInitReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AGENTCONFIG_PUBLIC_DIR", "env/public")
	t.Setenv("AGENTCONFIG_PREVIEW_PORT", "7070")

	v := viper.New()
	require.NoError(t, Init(v))

	config, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "env/public", config.PublicDir)
	assert.Equal(t, 7070, config.Preview.Port)
}

func TestInitReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".agentconfig.yaml"), []byte("html_dir: www\n"), 0o644))

	v := viper.New()
	require.NoError(t, Init(v))

	config, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "www", config.HTMLDir)
}

func TestInitMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".agentconfig.yaml"), []byte("html_dir: [\n"), 0o644))

	err := Init(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			PublicDir:      DefaultPublicDir,
			HTMLDir:        DefaultHTMLDir,
			LogFormat:      "json",
			OrphanPatterns: DefaultOrphanPatterns,
			Preview:        PreviewConfig{Host: DefaultPreviewHost, Port: DefaultPreviewPort},
			Watch:          WatchConfig{Debounce: DefaultDebounce, Include: DefaultWatchInclude},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"empty public dir", func(c *Config) { c.PublicDir = " " }, "public_dir must not be empty"},
		{"empty html dir", func(c *Config) { c.HTMLDir = "" }, "html_dir must not be empty"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, `log_format must be text or json, got "xml"`},
		{"empty host", func(c *Config) { c.Preview.Host = "" }, "preview.host must not be empty"},
		{"port too high", func(c *Config) { c.Preview.Port = 70000 }, "preview.port must be between 1 and 65535, got 70000"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = 0 }, "watch.debounce must be positive"},
		{"bad orphan pattern", func(c *Config) { c.OrphanPatterns = []string{"[.md"} }, `invalid orphan pattern "[.md"`},
		{"bad watch pattern", func(c *Config) { c.Watch.Include = []string{"[a"} }, `invalid watch include pattern "[a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		c := valid()
		c.PublicDir = ""
		c.Preview.Port = 0
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 errors occurred")
	})
}
