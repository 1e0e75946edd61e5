package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/biterik/doi2bib/internal/reference"
)

// BibIndex records which entries a .bib file already holds, so appends can
// skip duplicates. A DOI match is the primary identity; the citation key is
// the fallback for entries without one.
type BibIndex struct {
	keys map[string]bool
	dois map[string]bool
}

// LoadBibIndex parses the bibliography at path and indexes its entries.
// A missing file is an empty bibliography, not an error.
func LoadBibIndex(path string) (*BibIndex, error) {
	ix := &BibIndex{keys: make(map[string]bool), dois: make(map[string]bool)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ix, nil
		}
		return nil, fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	bib, err := bibtex.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, entry := range bib.Entries {
		ix.keys[entry.CiteName] = true
		for name, value := range entry.Fields {
			if strings.EqualFold(name, "doi") {
				if doi := foldDOI(value.String()); doi != "" {
					ix.dois[doi] = true
				}
			}
		}
	}
	return ix, nil
}

// Contains reports whether an entry for this record is already indexed.
func (ix *BibIndex) Contains(rec reference.Record) bool {
	if doi := foldDOI(rec.DOI); doi != "" && ix.dois[doi] {
		return true
	}
	return ix.keys[CitationKey(rec)]
}

// Add indexes a record about to be appended, so a record repeated in one
// run is only written once.
func (ix *BibIndex) Add(rec reference.Record) {
	if doi := foldDOI(rec.DOI); doi != "" {
		ix.dois[doi] = true
	}
	ix.keys[CitationKey(rec)] = true
}

// foldDOI canonicalizes a DOI for comparison. DOIs are case-insensitive
// and show up in files both bare and as resolver URLs.
func foldDOI(doi string) string {
	doi = strings.ToLower(strings.TrimSpace(doi))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(doi, prefix) {
			return strings.TrimPrefix(doi, prefix)
		}
	}
	return doi
}

// AppendToBibFile adds rendered entries to the end of a .bib file, creating
// it when absent. A non-empty file gets a separating blank line first.
func AppendToBibFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening bibliography: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > 0 {
		content = "\n" + content
	}
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("appending to %s: %w", path, err)
	}
	return nil
}
