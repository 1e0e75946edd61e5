// Package reference defines the core domain types for bibliographic metadata.
package reference

// Record is the canonical metadata record for a published work, as fetched
// from the metadata API. Every field is optional; converters omit what is
// absent rather than failing.
type Record struct {
	// Classification
	Type string `json:"type"` // CrossRef work type, e.g. "journal-article"

	// Core metadata
	Title   string   `json:"title"`
	Authors []Author `json:"authors,omitempty"`
	Editors []Author `json:"editors,omitempty"`

	// Container (journal or book the work appeared in)
	ContainerTitle string `json:"container_title,omitempty"`
	Volume         string `json:"volume,omitempty"`
	Issue          string `json:"issue,omitempty"`
	Pages          string `json:"pages,omitempty"` // page range as published, e.g. "511-520"

	// Publication Date
	Published Date `json:"published"`

	// Identifiers
	DOI  string `json:"doi,omitempty"`
	URL  string `json:"url,omitempty"`
	ISSN string `json:"issn,omitempty"`
	ISBN string `json:"isbn,omitempty"`

	// Extras
	Publisher string   `json:"publisher,omitempty"`
	Abstract  string   `json:"abstract,omitempty"` // may carry JATS/HTML markup
	Language  string   `json:"language,omitempty"`
	Subjects  []string `json:"subjects,omitempty"`
}

// Date represents a publication date with optional month and day.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}

// EffectiveType returns the record's type, defaulting to "journal-article"
// when the metadata source supplied none.
func (r *Record) EffectiveType() string {
	if r.Type == "" {
		return "journal-article"
	}
	return r.Type
}
