// Package config loads agentconfig settings from flags, AGENTCONFIG_*
// environment variables and .agentconfig.yaml through viper.
package config

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. AGENTCONFIG_PUBLIC_DIR.
	EnvPrefix = "AGENTCONFIG"
	// FileName is the config file name searched in . and $HOME/.agentconfig.
	FileName = ".agentconfig"
)

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// WatchConfig configures regeneration on content changes.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Include  []string      `mapstructure:"include"`
}

// ProfileConfig is a named set of overrides applied on top of the base config.
type ProfileConfig map[string]any

// Config holds every setting the commands read.
type Config struct {
	// ContentDir is a registry working copy; empty means the embedded registry.
	ContentDir     string        `mapstructure:"content_dir"`
	PublicDir      string        `mapstructure:"public_dir"`
	HTMLDir        string        `mapstructure:"html_dir"`
	TemplatesDir   string        `mapstructure:"templates_dir"`
	Strict         bool          `mapstructure:"strict"`
	OrphanPatterns []string      `mapstructure:"orphan_patterns"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	Preview        PreviewConfig `mapstructure:"preview"`
	Watch          WatchConfig   `mapstructure:"watch"`

	Profile  string                   `mapstructure:"profile"`
	Profiles map[string]ProfileConfig `mapstructure:"profiles"`
}

// Defaults
const (
	DefaultPublicDir   = "site/public"
	DefaultHTMLDir     = "site/dist"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultPreviewHost = "127.0.0.1"
	DefaultPreviewPort = 8080
	DefaultDebounce    = 300 * time.Millisecond
)

var (
	DefaultOrphanPatterns = []string{"*.md", "llms*.txt"}
	DefaultWatchInclude   = []string{"**.yaml", "**.md", "**.txt", "**.tmpl", "**.sh"}
)

// SetDefaults registers every key with its default so environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("content_dir", "")
	v.SetDefault("public_dir", DefaultPublicDir)
	v.SetDefault("html_dir", DefaultHTMLDir)
	v.SetDefault("templates_dir", "")
	v.SetDefault("strict", false)
	v.SetDefault("orphan_patterns", DefaultOrphanPatterns)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("preview.host", DefaultPreviewHost)
	v.SetDefault("preview.port", DefaultPreviewPort)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("watch.include", DefaultWatchInclude)
	v.SetDefault("profile", "")
}

// Init wires environment variables and the config file search path into v.
// A missing config file is not an error.
func Init(v *viper.Viper) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.agentconfig")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load decodes v into a Config, applies the active profile and validates the result.
func Load(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if config.Profiles != nil {
		delete(config.Profiles, "default")
	}

	if name := activeProfile(config.Profile); name != "" {
		profile, ok := config.Profiles[name]
		if !ok {
			return config, errors.Errorf("profile %q is not defined", name)
		}
		if err := applyProfile(&config, profile); err != nil {
			return config, err
		}
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func activeProfile(profile string) string {
	if profile == "default" {
		return ""
	}
	return profile
}

func applyProfile(config *Config, profile ProfileConfig) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           config,
		WeaklyTypedInput: true,
		ZeroFields:       false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(map[string]any(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.PublicDir) == "" {
		result = multierror.Append(result, errors.New("public_dir must not be empty"))
	}
	if strings.TrimSpace(c.HTMLDir) == "" {
		result = multierror.Append(result, errors.New("html_dir must not be empty"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		result = multierror.Append(result, errors.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if strings.TrimSpace(c.Preview.Host) == "" {
		result = multierror.Append(result, errors.New("preview.host must not be empty"))
	}
	if c.Preview.Port < 1 || c.Preview.Port > 65535 {
		result = multierror.Append(result, errors.Errorf("preview.port must be between 1 and 65535, got %d", c.Preview.Port))
	}
	if c.Watch.Debounce <= 0 {
		result = multierror.Append(result, errors.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce))
	}
	for _, pattern := range c.OrphanPatterns {
		if !doublestar.ValidatePattern(pattern) {
			result = multierror.Append(result, errors.Errorf("invalid orphan pattern %q", pattern))
		}
	}
	for _, pattern := range c.Watch.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid watch include pattern %q", pattern))
		}
	}

	return result.ErrorOrNil()
}
