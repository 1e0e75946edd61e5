package export

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/biterik/doi2bib/internal/reference"
)

// cslTypes maps CrossRef work types to CSL item types.
var cslTypes = map[string]string{
	"journal-article":     "article-journal",
	"proceedings-article": "paper-conference",
	"book-chapter":        "chapter",
	"book":                "book",
	"edited-book":         "book",
	"monograph":           "book",
	"report":              "report",
	"dissertation":        "thesis",
	"dataset":             "dataset",
	"posted-content":      "article",
	"reference-entry":     "entry",
}

// CSLName is a structured CSL-JSON contributor name.
type CSLName struct {
	Family string `json:"family,omitempty"`
	Given  string `json:"given,omitempty"`
}

// CSLDate holds a CSL-JSON date as nested date-parts.
type CSLDate struct {
	DateParts [][]int `json:"date-parts"`
}

// CSLItem is a single CSL-JSON bibliography item. Field tags follow the
// CSL-JSON schema, including its capitalized DOI/URL/ISSN/ISBN variables.
type CSLItem struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Title          string    `json:"title,omitempty"`
	Author         []CSLName `json:"author,omitempty"`
	Editor         []CSLName `json:"editor,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty"`
	Volume         string    `json:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty"`
	Page           string    `json:"page,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty"`
	DOI            string    `json:"DOI,omitempty"`
	URL            string    `json:"URL,omitempty"`
	ISSN           string    `json:"ISSN,omitempty"`
	ISBN           string    `json:"ISBN,omitempty"`
	Publisher      string    `json:"publisher,omitempty"`
	Abstract       string    `json:"abstract,omitempty"`
	Language       string    `json:"language,omitempty"`
	Keyword        string    `json:"keyword,omitempty"`
}

func cslNames(authors []reference.Author) []CSLName {
	if len(authors) == 0 {
		return nil
	}
	names := make([]CSLName, 0, len(authors))
	for _, a := range authors {
		names = append(names, CSLName{Family: a.Family, Given: a.Given})
	}
	return names
}

// NewCSLItem builds the structured CSL item for a record. The item id is
// the BibTeX citation key, so both formats name an entry the same way.
func NewCSLItem(rec reference.Record) CSLItem {
	itemType, ok := cslTypes[rec.EffectiveType()]
	if !ok {
		itemType = "article-journal"
	}

	item := CSLItem{
		ID:             CitationKey(rec),
		Type:           itemType,
		Title:          stripTags(rec.Title),
		Author:         cslNames(rec.Authors),
		Editor:         cslNames(rec.Editors),
		ContainerTitle: rec.ContainerTitle,
		Volume:         rec.Volume,
		Issue:          rec.Issue,
		Page:           rec.Pages,
		DOI:            rec.DOI,
		URL:            rec.URL,
		ISSN:           rec.ISSN,
		ISBN:           rec.ISBN,
		Publisher:      rec.Publisher,
		Abstract:       stripTags(rec.Abstract),
		Language:       rec.Language,
		Keyword:        strings.Join(rec.Subjects, ", "),
	}

	if y := rec.Published.Year; y != 0 {
		parts := []int{y}
		if m := rec.Published.Month; m >= 1 && m <= 12 {
			parts = append(parts, m)
			if d := rec.Published.Day; d > 0 {
				parts = append(parts, d)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}

	return item
}

// ToCSLJSON converts a record to an indented CSL-JSON object. HTML
// escaping is disabled so DOIs and URLs survive verbatim.
func ToCSLJSON(rec reference.Record) (string, error) {
	return encodeCSL(NewCSLItem(rec))
}

// ToCSLJSONList converts several records to one CSL-JSON array, the shape
// reference managers exchange bibliography files in.
func ToCSLJSONList(recs []reference.Record) (string, error) {
	items := make([]CSLItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, NewCSLItem(rec))
	}
	return encodeCSL(items)
}

func encodeCSL(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
