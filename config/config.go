// Package config provides configuration loading for vnscrape using TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Target page settings
type Target struct {
	URL         string `toml:"url" yaml:"url"`
	Landmark    string `toml:"landmark" yaml:"landmark"` // CSS selector that marks the initial render as done
	WaitSeconds int    `toml:"waitSeconds" yaml:"waitSeconds"`
}

// Scroll settings for triggering lazy loading
type Scroll struct {
	Times        int `toml:"times" yaml:"times"`
	DelaySeconds int `toml:"delaySeconds" yaml:"delaySeconds"`
}

// Selectors used to find cards and their fields, in priority order
type Selectors struct {
	Articles []string `toml:"articles" yaml:"articles"`
	Title    []string `toml:"title" yaml:"title"`
	Time     []string `toml:"time" yaml:"time"`
}

// Browser launch settings
type Browser struct {
	ChromePath string `toml:"chromePath" yaml:"chromePath"`
	UserAgent  string `toml:"userAgent" yaml:"userAgent"`
	Language   string `toml:"language" yaml:"language"`
	Headless   bool   `toml:"headless" yaml:"headless"`
}

// Output settings
type Output struct {
	Path   string `toml:"path" yaml:"path"`
	Format string `toml:"format" yaml:"format"` // "csv" or "yaml"
}

// Feed fallback settings
type Feed struct {
	URL string `toml:"url" yaml:"url"` // empty disables the fallback
}

// Archive settings
type Archive struct {
	Driver string `toml:"driver" yaml:"driver"` // "sqlite3" or "postgres"
	DSN    string `toml:"dsn" yaml:"dsn"`       // empty disables the archive
}

// Config is the main configuration struct
type Config struct {
	Target    Target    `toml:"target" yaml:"target"`
	Scroll    Scroll    `toml:"scroll" yaml:"scroll"`
	Selectors Selectors `toml:"selectors" yaml:"selectors"`
	Browser   Browser   `toml:"browser" yaml:"browser"`
	Output    Output    `toml:"output" yaml:"output"`
	Feed      Feed      `toml:"feed" yaml:"feed"`
	Archive   Archive   `toml:"archive" yaml:"archive"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Target: Target{
			URL:         "https://vnexpress.net/thoi-su",
			Landmark:    ".width_common",
			WaitSeconds: 20,
		},
		Scroll: Scroll{
			Times:        3,
			DelaySeconds: 2,
		},
		Selectors: Selectors{
			Articles: []string{".item-news", ".width_common article"},
			Title:    []string{"h3.title-news a", "h2.title-news a", "p.title-news a"},
			Time:     []string{".time-public", ".time", ".date"},
		},
		Browser: Browser{
			Language: "vi",
		},
		Output: Output{
			Path:   "vnexpress_articles.csv",
			Format: "csv",
		},
		Archive: Archive{
			Driver: "sqlite3",
		},
	}
}

// WaitTimeout returns the landmark wait as a duration.
func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.Target.WaitSeconds) * time.Second
}

// ScrollDelay returns the pause after each scroll as a duration.
func (c *Config) ScrollDelay() time.Duration {
	return time.Duration(c.Scroll.DelaySeconds) * time.Second
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vnscrape"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// An empty path means the default location, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = p
	}

	var (
		userCfg *Config
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		userCfg, err = loadFromYAML(path)
	default:
		userCfg, err = loadFromTOML(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// loadFromYAML loads a YAML config file and returns the config.
func loadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	// Target
	mergeString(&result.Target.URL, user.Target.URL)
	mergeString(&result.Target.Landmark, user.Target.Landmark)
	mergeInt(&result.Target.WaitSeconds, user.Target.WaitSeconds)

	// Scroll
	mergeInt(&result.Scroll.Times, user.Scroll.Times)
	mergeInt(&result.Scroll.DelaySeconds, user.Scroll.DelaySeconds)

	// Selectors - a list replaces the default list wholesale
	mergeList(&result.Selectors.Articles, user.Selectors.Articles)
	mergeList(&result.Selectors.Title, user.Selectors.Title)
	mergeList(&result.Selectors.Time, user.Selectors.Time)

	// Browser
	mergeString(&result.Browser.ChromePath, user.Browser.ChromePath)
	mergeString(&result.Browser.UserAgent, user.Browser.UserAgent)
	mergeString(&result.Browser.Language, user.Browser.Language)
	if user.Browser.Headless {
		result.Browser.Headless = true
	}

	// Output
	mergeString(&result.Output.Path, user.Output.Path)
	mergeString(&result.Output.Format, user.Output.Format)

	// Feed
	mergeString(&result.Feed.URL, user.Feed.URL)

	// Archive
	mergeString(&result.Archive.Driver, user.Archive.Driver)
	mergeString(&result.Archive.DSN, user.Archive.DSN)

	return &result
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeInt(dst *int, src int) {
	if src > 0 {
		*dst = src
	}
}

func mergeList(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# vnscrape configuration
# Save to ~/.config/vnscrape/config.toml and customize
# Only include settings you want to change from defaults

# Page to scrape
[target]
url = "https://vnexpress.net/thoi-su"
landmark = ".width_common"    # Wait for this element before scrolling
waitSeconds = 20              # Give up waiting after this long and carry on

# Lazy loading
[scroll]
times = 3                     # Scroll-to-bottom steps
delaySeconds = 2              # Pause after each step

# CSS selectors, tried in order
[selectors]
articles = [".item-news", ".width_common article"]
title = ["h3.title-news a", "h2.title-news a", "p.title-news a"]
time = [".time-public", ".time", ".date"]

# Chrome settings
[browser]
chromePath = ""               # Path to Chrome/Chromium (empty = auto-detect)
userAgent = ""                # Empty keeps Chrome's own user agent
language = "vi"
headless = false

# Output file, replaced on every run
[output]
path = "vnexpress_articles.csv"
format = "csv"                # "csv" or "yaml"

# RSS fallback when the page yields nothing (empty = disabled)
[feed]
url = ""

# Run archive (empty dsn = disabled)
[archive]
driver = "sqlite3"            # "sqlite3" or "postgres"
dsn = ""
`
}

// FormatError formats a config loading error for user display.
func FormatError(err error) string {
	return fmt.Sprintf("Configuration error:\n\n%s", err.Error())
}
