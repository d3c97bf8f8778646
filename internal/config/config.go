// Package config loads mdinclude settings.
//
// Priority, highest first: environment variables (MDINCLUDE_*, plus GH_TOKEN
// and GT_TOKEN for provider tokens), the config file (mdinclude.yaml in the
// working directory or ~/.config/mdinclude, or an explicit path), defaults.
// A .env file in the working directory is loaded into the environment first.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ezerfernandes/mdinclude/internal/logging"
	"github.com/ezerfernandes/mdinclude/internal/remote"
)

const (
	configName = "mdinclude"
	envPrefix  = "MDINCLUDE"
	dotEnvFile = ".env"
)

// Config holds every setting of an mdinclude run.
type Config struct {
	// GitHubToken authenticates requests to raw.githubusercontent.com.
	GitHubToken string `mapstructure:"github_token"`
	// GiteaToken enables the Gitea raw API rewrite.
	GiteaToken string `mapstructure:"gitea_token"`

	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`

	// Jobs is the number of directives resolved concurrently per document.
	Jobs int `mapstructure:"jobs"`

	// Include lists the glob patterns selecting files when a directory is
	// rendered, matched against slash-separated paths relative to it.
	Include []string `mapstructure:"include"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: remote.DefaultUserAgent,
		Jobs:      1,
		Include:   []string{"**.md"},
		Log: LogConfig{
			Level:  "warn",
			Format: logging.FormatText,
		},
	}
}

// Load reads the configuration. An empty path searches the default
// locations; a missing config file is not an error unless path was given.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("github_token", envPrefix+"_GITHUB_TOKEN", "GH_TOKEN")
	_ = v.BindEnv("gitea_token", envPrefix+"_GITEA_TOKEN", "GT_TOKEN")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("github_token", "")
	v.SetDefault("gitea_token", "")
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("include", defaults.Include)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
}

// Validate reports the first invalid setting of cfg.
func Validate(cfg *Config) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	switch strings.ToLower(cfg.Log.Format) {
	case logging.FormatText, logging.FormatJSON, logging.FormatPretty:
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	if len(cfg.Include) == 0 {
		return errors.New("include needs at least one pattern")
	}

	if _, err := CompileGlobs(cfg.Include); err != nil {
		return err
	}

	return nil
}

// CompileGlobs compiles slash-separated glob patterns.
func CompileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

// Providers returns the remote canonicalizers for the configured tokens.
func (c *Config) Providers() []remote.Canonicalizer {
	return remote.Providers(c.GitHubToken, c.GiteaToken)
}
