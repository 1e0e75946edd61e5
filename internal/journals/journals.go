// Package journals maps abbreviated journal names to canonical full names.
package journals

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Resolver looks up journal abbreviations in free text. The table is fixed at
// construction; a Resolver is safe for concurrent use.
type Resolver struct {
	table  map[string]string
	abbrs  []string // abbreviation keys, longest first
	source string
}

// Defaults returns the embedded minimal abbreviation table, used when no
// external table can be loaded.
func Defaults() map[string]string {
	return map[string]string{
		"nature":                 "Nature",
		"science":                "Science",
		"pnas":                   "Proceedings of the National Academy of Sciences",
		"phys. rev.":             "Physical Review",
		"phys. rev. lett.":       "Physical Review Letters",
		"j. am. chem. soc.":      "Journal of the American Chemical Society",
		"n. engl. j. med.":       "New England Journal of Medicine",
		"lancet":                 "The Lancet",
		"cell":                   "Cell",
		"proc. natl. acad. sci.": "Proceedings of the National Academy of Sciences",
	}
}

// NewResolver builds a Resolver over a copy of the given table. Keys are
// lowercased; later mutation of the caller's map does not affect the Resolver.
func NewResolver(table map[string]string) *Resolver {
	r := &Resolver{
		table:  make(map[string]string, len(table)),
		source: "table",
	}
	for abbr, full := range table {
		key := strings.ToLower(strings.TrimSpace(abbr))
		if key == "" || full == "" {
			continue
		}
		r.table[key] = full
	}
	r.abbrs = make([]string, 0, len(r.table))
	for key := range r.table {
		r.abbrs = append(r.abbrs, key)
	}
	// Longest abbreviation first so the most specific boundary match wins.
	sort.Slice(r.abbrs, func(i, j int) bool {
		if len(r.abbrs[i]) != len(r.abbrs[j]) {
			return len(r.abbrs[i]) > len(r.abbrs[j])
		}
		return r.abbrs[i] < r.abbrs[j]
	})
	return r
}

// tableFile is the on-disk shape of an abbreviation table. Keys beginning
// with "_" are comments and are skipped.
type tableFile struct {
	Abbreviations map[string]string `json:"abbreviations"`
}

// LoadFile reads an abbreviation table from a JSON file.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading abbreviation table: %w", err)
	}

	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing abbreviation table %s: %w", path, err)
	}

	table := make(map[string]string, len(tf.Abbreviations))
	for abbr, full := range tf.Abbreviations {
		if strings.HasPrefix(abbr, "_") {
			continue
		}
		table[abbr] = full
	}
	return table, nil
}

// LoadOrDefault builds a Resolver from the first path that loads, falling
// back to the embedded Defaults table when every path fails. A failed load is
// never an error; the resolver must always function.
func LoadOrDefault(paths ...string) *Resolver {
	for _, path := range paths {
		if path == "" {
			continue
		}
		table, err := LoadFile(path)
		if err != nil {
			continue
		}
		r := NewResolver(table)
		r.source = path
		return r
	}
	r := NewResolver(Defaults())
	r.source = "embedded"
	return r
}

// Source reports where the table came from: a file path, "embedded", or
// "table" for directly constructed resolvers.
func (r *Resolver) Source() string { return r.source }

// Len returns the number of abbreviations in the table.
func (r *Resolver) Len() int { return len(r.table) }

// Resolve searches text for a known abbreviation and returns its canonical
// full name. Abbreviations match only at word boundaries: preceded by
// start-of-string, whitespace or punctuation, and followed by whitespace,
// punctuation, a digit, or end-of-string. Among all boundary matches the
// longest abbreviation wins.
func (r *Resolver) Resolve(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, abbr := range r.abbrs {
		if matchesAt(lower, abbr) {
			return r.table[abbr], true
		}
	}
	return "", false
}

// matchesAt reports whether abbr occurs in lower at a position with valid
// boundaries on both sides.
func matchesAt(lower, abbr string) bool {
	for start := 0; ; {
		i := strings.Index(lower[start:], abbr)
		if i < 0 {
			return false
		}
		pos := start + i
		end := pos + len(abbr)
		if boundaryBefore(lower, pos) && boundaryAfter(lower, end) {
			return true
		}
		start = pos + 1
	}
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	ch, _ := utf8.DecodeLastRuneInString(s[:pos])
	return unicode.IsSpace(ch) || unicode.IsPunct(ch)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	ch, _ := utf8.DecodeRuneInString(s[end:])
	return unicode.IsSpace(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}
