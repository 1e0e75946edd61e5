// Package export renders metadata records into citation formats.
//
// Each format is an independent, pure projection of a reference.Record.
// Missing fields are omitted, never an error; an unrecognized work type
// falls back to the format's most generic entry type.
package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/biterik/doi2bib/internal/latex"
	"github.com/biterik/doi2bib/internal/reference"
)

// bibtexTypes maps CrossRef work types to BibTeX entry types.
var bibtexTypes = map[string]string{
	"journal-article":     "article",
	"proceedings-article": "inproceedings",
	"book-chapter":        "incollection",
	"book":                "book",
	"edited-book":         "book",
	"monograph":           "book",
	"report":              "techreport",
	"dissertation":        "phdthesis",
	"dataset":             "misc",
	"posted-content":      "misc",
	"reference-entry":     "misc",
}

// monthNames are the standard unbraced BibTeX month macros.
var monthNames = [...]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	nonKeyPattern  = regexp.MustCompile(`[^a-z]`)
)

// stripTags removes embedded JATS/HTML markup, as found in CrossRef
// abstracts.
func stripTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// CitationKey derives the entry key from the first author's family name,
// lowercased and reduced to a-z, followed by the publication year. A missing
// family name yields "unknown", a missing year "nd". Keys are deliberately
// not unique; colliding entries are the caller's concern.
func CitationKey(rec reference.Record) string {
	author := "unknown"
	if len(rec.Authors) > 0 && rec.Authors[0].Family != "" {
		author = nonKeyPattern.ReplaceAllString(strings.ToLower(rec.Authors[0].Family), "")
	}

	year := "nd"
	if rec.Published.Year != 0 {
		year = strconv.Itoa(rec.Published.Year)
	}

	return author + year
}

// bibtexEntryType returns the BibTeX entry type for a record.
func bibtexEntryType(rec reference.Record) string {
	if t, ok := bibtexTypes[rec.EffectiveType()]; ok {
		return t
	}
	return "article"
}

// bibField is one rendered field. The value carries its final form,
// including braces, so that month macros can stay unbraced.
type bibField struct {
	name  string
	value string
}

// ToBibTeX converts a record to a BibTeX entry. Fields appear in a fixed
// order and only when non-empty; the container title becomes journal for
// articles and booktitle for incollection/inproceedings entries.
func ToBibTeX(rec reference.Record) string {
	entryType := bibtexEntryType(rec)

	var fields []bibField
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, bibField{name: name, value: value})
		}
	}
	braced := func(s string) string {
		if s == "" {
			return ""
		}
		return "{" + s + "}"
	}

	add("author", braced(latex.Escape(reference.JoinNames(rec.Authors))))
	add("title", braced(latex.Escape(rec.Title)))
	if rec.ContainerTitle != "" {
		switch entryType {
		case "article":
			add("journal", braced(latex.Escape(rec.ContainerTitle)))
		case "incollection", "inproceedings":
			add("booktitle", braced(latex.Escape(rec.ContainerTitle)))
		}
	}
	if rec.Published.Year != 0 {
		add("year", braced(strconv.Itoa(rec.Published.Year)))
	}
	if m := rec.Published.Month; m >= 1 && m <= 12 {
		add("month", monthNames[m-1])
	}
	add("volume", braced(rec.Volume))
	add("number", braced(rec.Issue))
	if rec.Pages != "" {
		add("pages", braced(strings.ReplaceAll(rec.Pages, "-", "--")))
	}
	add("publisher", braced(latex.Escape(rec.Publisher)))
	add("editor", braced(latex.Escape(reference.JoinNames(rec.Editors))))
	add("doi", braced(rec.DOI))
	add("url", braced(rec.URL))
	add("issn", braced(rec.ISSN))
	add("isbn", braced(rec.ISBN))
	if rec.Abstract != "" {
		add("abstract", braced(latex.Escape(stripTags(rec.Abstract))))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", entryType, CitationKey(rec))
	for i, f := range fields {
		comma := ","
		if i == len(fields)-1 {
			comma = ""
		}
		fmt.Fprintf(&b, "  %s = %s%s\n", f.name, f.value, comma)
	}
	b.WriteString("}")

	return b.String()
}
