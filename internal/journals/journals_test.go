package journals

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve(t *testing.T) {
	r := NewResolver(Defaults())

	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{
			name:  "abbreviation at start",
			text:  "Nature 171, 737 (1953)",
			want:  "Nature",
			found: true,
		},
		{
			name:  "abbreviation at end of string",
			text:  "published in nature",
			want:  "Nature",
			found: true,
		},
		{
			name:  "dotted abbreviation followed by volume",
			text:  "phys. rev. 47, 777 (1935)",
			want:  "Physical Review",
			found: true,
		},
		{
			name:  "longest abbreviation wins",
			text:  "Phys. Rev. Lett. 116, 061102 (2016)",
			want:  "Physical Review Letters",
			found: true,
		},
		{
			name:  "case insensitive",
			text:  "J. AM. CHEM. SOC. 131, 6356",
			want:  "Journal of the American Chemical Society",
			found: true,
		},
		{
			name:  "substring inside a word rejected",
			text:  "excellent results were obtained",
			found: false,
		},
		{
			name:  "substring at word tail rejected",
			text:  "the freelancet collective",
			found: false,
		},
		{
			name:  "no known journal",
			text:  "Journal of Irreproducible Results 1, 1 (1999)",
			found: false,
		},
		{
			name:  "empty text",
			text:  "",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := r.Resolve(tt.text)
			if found != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if got != tt.want && tt.found {
				t.Errorf("Resolve(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveLongestWinsWhenBothPresent(t *testing.T) {
	// "phys. rev." is a prefix of "phys. rev. lett."; with both boundary
	// matching, the longer one must be chosen.
	r := NewResolver(map[string]string{
		"phys. rev.":       "Physical Review",
		"phys. rev. lett.": "Physical Review Letters",
	})

	got, found := r.Resolve("see phys. rev. lett. 12, 34 (1960)")
	if !found {
		t.Fatal("expected a match")
	}
	if got != "Physical Review Letters" {
		t.Errorf("Resolve = %q, want %q", got, "Physical Review Letters")
	}
}

func TestResolverCopiesTable(t *testing.T) {
	table := map[string]string{"nature": "Nature"}
	r := NewResolver(table)

	// Mutating the source map must not change resolution.
	table["nature"] = "Changed"
	delete(table, "nature")

	got, found := r.Resolve("nature 1, 1 (2000)")
	if !found || got != "Nature" {
		t.Errorf("Resolve = %q, %v; want %q, true", got, found, "Nature")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal_abbreviations.json")

	content := `{
		"abbreviations": {
			"_comment": "test table",
			"phil. mag.": "Philosophical Magazine",
			"nature": "Nature"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(table) != 2 {
		t.Errorf("got %d entries, want 2 (comment key skipped)", len(table))
	}
	if table["phil. mag."] != "Philosophical Magazine" {
		t.Errorf("phil. mag. = %q, want Philosophical Magazine", table["phil. mag."])
	}
	if _, ok := table["_comment"]; ok {
		t.Error("comment key should be skipped")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("falls back to embedded table", func(t *testing.T) {
		r := LoadOrDefault(filepath.Join(t.TempDir(), "nope.json"), "")
		if r.Source() != "embedded" {
			t.Errorf("Source = %q, want embedded", r.Source())
		}
		if r.Len() != len(Defaults()) {
			t.Errorf("Len = %d, want %d", r.Len(), len(Defaults()))
		}
		if _, found := r.Resolve("phys. rev. lett. 1, 2 (1990)"); !found {
			t.Error("embedded table should resolve phys. rev. lett.")
		}
	})

	t.Run("prefers first loadable file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "table.json")
		content := `{"abbreviations": {"phil. mag.": "Philosophical Magazine"}}`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		r := LoadOrDefault(filepath.Join(dir, "missing.json"), path)
		if r.Source() != path {
			t.Errorf("Source = %q, want %q", r.Source(), path)
		}
		got, found := r.Resolve("Phil. Mag. 4, 511 (1959)")
		if !found || got != "Philosophical Magazine" {
			t.Errorf("Resolve = %q, %v; want Philosophical Magazine, true", got, found)
		}
	})
}
