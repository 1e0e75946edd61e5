package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// useTempConfig points the config path at a fresh directory and clears the
// cache and the override env vars.
func useTempConfig(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("DOI2BIB_MAILTO", "")
	t.Setenv("DOI2BIB_UNPAYWALL_EMAIL", "")
	t.Setenv("DOI2BIB_FORMAT", "")
	t.Setenv("DOI2BIB_ZOTERO_URL", "")
	Reset()
	t.Cleanup(Reset)
	return tmp
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	confDir := filepath.Join(dir, ConfigDir)
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(confDir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPath_RespectsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	want := "/custom/config/doi2bib/config.yml"
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestPath_FallsBackToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	want := filepath.Join(home, ".config", "doi2bib", "config.yml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mailto != "" || cfg.CacheTTLDays != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoad_ReadsYAML(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, strings.Join([]string{
		"mailto: lab@example.org",
		"default_format: ris",
		"cache_ttl_days: 7",
		"cache_disabled: true",
		"rows: 5",
	}, "\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mailto != "lab@example.org" {
		t.Errorf("Mailto = %q", cfg.Mailto)
	}
	if cfg.DefaultFormat != "ris" {
		t.Errorf("DefaultFormat = %q", cfg.DefaultFormat)
	}
	if cfg.CacheTTLDays != 7 {
		t.Errorf("CacheTTLDays = %d", cfg.CacheTTLDays)
	}
	if !cfg.CacheDisabled {
		t.Error("CacheDisabled = false, want true")
	}
	if cfg.Rows != 5 {
		t.Errorf("Rows = %d", cfg.Rows)
	}
}

func TestLoad_ExpandsAbbreviationTablePath(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, "journal_abbreviations: ~/tables/journals.json\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}
	want := filepath.Join(home, "tables", "journals.json")
	if cfg.JournalAbbreviations != want {
		t.Errorf("JournalAbbreviations = %q, want %q", cfg.JournalAbbreviations, want)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, "mailto: [unclosed\n")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoad_CachesUntilReset(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, "mailto: first@example.org\n")

	cfg, _ := Load()
	if cfg.Mailto != "first@example.org" {
		t.Fatalf("Mailto = %q", cfg.Mailto)
	}

	writeConfig(t, tmp, "mailto: second@example.org\n")
	cfg, _ = Load()
	if cfg.Mailto != "first@example.org" {
		t.Errorf("cached Mailto = %q, want first@example.org", cfg.Mailto)
	}

	Reset()
	cfg, _ = Load()
	if cfg.Mailto != "second@example.org" {
		t.Errorf("reloaded Mailto = %q, want second@example.org", cfg.Mailto)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	useTempConfig(t)

	cfg := &Config{Mailto: "lab@example.org", CacheTTLDays: 14, Rows: 3}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	Reset()
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Mailto != "lab@example.org" || loaded.CacheTTLDays != 14 || loaded.Rows != 3 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestMailto_EnvOverridesFile(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, "mailto: file@example.org\n")

	t.Setenv("DOI2BIB_MAILTO", "env@example.org")
	if got := Mailto(); got != "env@example.org" {
		t.Errorf("Mailto() = %q, want env@example.org", got)
	}

	t.Setenv("DOI2BIB_MAILTO", "")
	if got := Mailto(); got != "file@example.org" {
		t.Errorf("Mailto() = %q, want file@example.org", got)
	}
}

func TestUnpaywallAddress_FallsBackToMailto(t *testing.T) {
	tmp := useTempConfig(t)
	writeConfig(t, tmp, "mailto: shared@example.org\n")

	if got := UnpaywallAddress(); got != "shared@example.org" {
		t.Errorf("UnpaywallAddress() = %q, want shared@example.org", got)
	}

	Reset()
	writeConfig(t, tmp, "mailto: shared@example.org\nunpaywall_email: oa@example.org\n")
	if got := UnpaywallAddress(); got != "oa@example.org" {
		t.Errorf("UnpaywallAddress() = %q, want oa@example.org", got)
	}
}

func TestAccessorDefaults(t *testing.T) {
	useTempConfig(t)

	if got := OutputFormat(); got != "bibtex" {
		t.Errorf("OutputFormat() = %q, want bibtex", got)
	}
	if got := CacheTTL(); got != 30*24*time.Hour {
		t.Errorf("CacheTTL() = %v, want 720h", got)
	}
	if !CacheEnabled() {
		t.Error("CacheEnabled() = false, want true")
	}
	if got := SearchRows(); got != 10 {
		t.Errorf("SearchRows() = %d, want 10", got)
	}
	if got := ZoteroEndpoint(); got != "" {
		t.Errorf("ZoteroEndpoint() = %q, want empty", got)
	}
}

func TestGetSet(t *testing.T) {
	cfg := &Config{}

	if err := cfg.Set("mailto", "lab@example.org"); err != nil {
		t.Fatalf("Set(mailto) error = %v", err)
	}
	if got, _ := cfg.Get("mailto"); got != "lab@example.org" {
		t.Errorf("Get(mailto) = %q", got)
	}

	if err := cfg.Set("cache_ttl_days", "45"); err != nil {
		t.Fatalf("Set(cache_ttl_days) error = %v", err)
	}
	if cfg.CacheTTLDays != 45 {
		t.Errorf("CacheTTLDays = %d, want 45", cfg.CacheTTLDays)
	}

	if err := cfg.Set("cache_disabled", "true"); err != nil {
		t.Fatalf("Set(cache_disabled) error = %v", err)
	}
	if !cfg.CacheDisabled {
		t.Error("CacheDisabled = false, want true")
	}
}

func TestSet_Invalid(t *testing.T) {
	cfg := &Config{}

	tests := []struct {
		key   string
		value string
	}{
		{"default_format", "endnote"},
		{"cache_ttl_days", "soon"},
		{"cache_ttl_days", "-1"},
		{"cache_disabled", "perhaps"},
		{"rows", "0"},
		{"nonsense_key", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestKeys_CoversAllFields(t *testing.T) {
	got := Keys()
	want := []string{
		"cache_disabled", "cache_ttl_days", "default_format",
		"journal_abbreviations", "mailto", "rows", "unpaywall_email", "zotero_url",
	}
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefaultCachePath_RespectsXDGCacheHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	want := "/custom/cache/doi2bib/crossref.db"
	if got := DefaultCachePath(); got != want {
		t.Errorf("DefaultCachePath() = %q, want %q", got, want)
	}
}
