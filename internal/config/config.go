// Package config handles the tool's global configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of $XDG_CONFIG_HOME/doi2bib/config.yml. All
// fields are optional; zero values fall back to built-in defaults.
type Config struct {
	Mailto               string `yaml:"mailto,omitempty"`
	UnpaywallEmail       string `yaml:"unpaywall_email,omitempty"`
	DefaultFormat        string `yaml:"default_format,omitempty"`
	CacheTTLDays         int    `yaml:"cache_ttl_days,omitempty"`
	CacheDisabled        bool   `yaml:"cache_disabled,omitempty"`
	JournalAbbreviations string `yaml:"journal_abbreviations,omitempty"`
	ZoteroURL            string `yaml:"zotero_url,omitempty"`
	Rows                 int    `yaml:"rows,omitempty"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "doi2bib"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// DefaultFormatName is used when default_format is unset.
	DefaultFormatName = "bibtex"
	// DefaultCacheTTLDays is used when cache_ttl_days is unset.
	DefaultCacheTTLDays = 30
	// DefaultRows is the search result count when rows is unset.
	DefaultRows = 10
)

// cache holds the loaded config between accessor calls.
var cache *Config

// Path returns the config file location. XDG_CONFIG_HOME is respected,
// falling back to ~/.config.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the config file, caching the result. A missing file yields an
// empty config, not an error.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cache = &Config{}
			return cache, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.JournalAbbreviations != "" {
		cfg.JournalAbbreviations = ExpandTilde(cfg.JournalAbbreviations)
	}

	cache = &cfg
	return cache, nil
}

// Reset clears the cached config. Useful for testing.
func Reset() {
	cache = nil
}

// Save writes cfg to the config file, creating the directory if needed,
// and refreshes the cache.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	copy := *c
	cache = &copy
	return nil
}

// ExpandTilde expands a leading ~ to the user's home directory. Paths
// without one come back unchanged.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// envOr returns the environment value when set, else the file value.
func envOr(envKey, fileValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return fileValue
}

// Mailto returns the contact address sent to CrossRef for polite-pool
// access. DOI2BIB_MAILTO overrides the file.
func Mailto() string {
	cfg, _ := Load()
	return envOr("DOI2BIB_MAILTO", cfg.Mailto)
}

// UnpaywallAddress returns the email registered with Unpaywall, falling
// back to the CrossRef mailto. DOI2BIB_UNPAYWALL_EMAIL overrides both.
func UnpaywallAddress() string {
	cfg, _ := Load()
	if v := envOr("DOI2BIB_UNPAYWALL_EMAIL", cfg.UnpaywallEmail); v != "" {
		return v
	}
	return Mailto()
}

// OutputFormat returns the default citation format. DOI2BIB_FORMAT
// overrides the file; unset means bibtex.
func OutputFormat() string {
	cfg, _ := Load()
	if v := envOr("DOI2BIB_FORMAT", cfg.DefaultFormat); v != "" {
		return v
	}
	return DefaultFormatName
}

// CacheTTL returns the response cache lifetime.
func CacheTTL() time.Duration {
	cfg, _ := Load()
	days := cfg.CacheTTLDays
	if days <= 0 {
		days = DefaultCacheTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CacheEnabled reports whether the response cache should be consulted.
func CacheEnabled() bool {
	cfg, _ := Load()
	return !cfg.CacheDisabled
}

// AbbreviationsPath returns the configured journal abbreviation table
// path, or "" for the embedded default table.
func AbbreviationsPath() string {
	cfg, _ := Load()
	return cfg.JournalAbbreviations
}

// ZoteroEndpoint returns the configured reference-manager import URL, or
// "" for the connector default.
func ZoteroEndpoint() string {
	cfg, _ := Load()
	return envOr("DOI2BIB_ZOTERO_URL", cfg.ZoteroURL)
}

// SearchRows returns how many search results to request.
func SearchRows() int {
	cfg, _ := Load()
	if cfg.Rows <= 0 {
		return DefaultRows
	}
	return cfg.Rows
}

// DefaultCachePath returns the response cache database location under
// XDG_CACHE_HOME, falling back to ~/.cache.
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, ConfigDir, "crossref.db")
}

// keys maps config key names, as used by `config get` and `config set`,
// onto Config fields.
var keys = map[string]struct {
	get func(*Config) string
	set func(*Config, string) error
}{
	"mailto": {
		get: func(c *Config) string { return c.Mailto },
		set: func(c *Config, v string) error { c.Mailto = v; return nil },
	},
	"unpaywall_email": {
		get: func(c *Config) string { return c.UnpaywallEmail },
		set: func(c *Config, v string) error { c.UnpaywallEmail = v; return nil },
	},
	"default_format": {
		get: func(c *Config) string { return c.DefaultFormat },
		set: func(c *Config, v string) error {
			switch v {
			case "bibtex", "ris", "csl":
				c.DefaultFormat = v
				return nil
			}
			return fmt.Errorf("invalid default_format %q (valid: bibtex, ris, csl)", v)
		},
	},
	"cache_ttl_days": {
		get: func(c *Config) string { return strconv.Itoa(c.CacheTTLDays) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid cache_ttl_days %q (want a non-negative integer)", v)
			}
			c.CacheTTLDays = n
			return nil
		},
	},
	"cache_disabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.CacheDisabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid cache_disabled %q (want true or false)", v)
			}
			c.CacheDisabled = b
			return nil
		},
	},
	"journal_abbreviations": {
		get: func(c *Config) string { return c.JournalAbbreviations },
		set: func(c *Config, v string) error { c.JournalAbbreviations = v; return nil },
	},
	"zotero_url": {
		get: func(c *Config) string { return c.ZoteroURL },
		set: func(c *Config, v string) error { c.ZoteroURL = v; return nil },
	},
	"rows": {
		get: func(c *Config) string { return strconv.Itoa(c.Rows) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid rows %q (want a positive integer)", v)
			}
			c.Rows = n
			return nil
		},
	},
}

// Keys returns the recognized config key names, sorted.
func Keys() []string {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the stringified value of a config key.
func (c *Config) Get(key string) (string, error) {
	entry, ok := keys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
	return entry.get(c), nil
}

// Set parses and assigns a config key. The caller saves.
func (c *Config) Set(key, value string) error {
	entry, ok := keys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
	return entry.set(c, value)
}
