package export

import (
	"fmt"
	"strings"

	"github.com/biterik/doi2bib/internal/reference"
)

// risTypes maps CrossRef work types to RIS reference types.
var risTypes = map[string]string{
	"journal-article":     "JOUR",
	"proceedings-article": "CONF",
	"book-chapter":        "CHAP",
	"book":                "BOOK",
	"edited-book":         "EDBOOK",
	"monograph":           "BOOK",
	"report":              "RPRT",
	"dissertation":        "THES",
	"dataset":             "DATA",
	"posted-content":      "GEN",
	"reference-entry":     "GEN",
}

// pageSeparators are the dash variants found in CrossRef page ranges.
var pageSeparators = []string{"-", "–", "—"}

// splitPages splits a page range into first and last page. A bare page
// number comes back with an empty last page.
func splitPages(pages string) (first, last string) {
	for _, sep := range pageSeparators {
		if strings.Contains(pages, sep) {
			parts := strings.SplitN(pages, sep, 2)
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(pages), ""
}

// risValue flattens a value onto a single line; RIS is line-oriented and
// a stray newline would start a bogus tag.
func risValue(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// ToRIS converts a record to an RIS reference. The output ends with the
// ER terminator line.
func ToRIS(rec reference.Record) string {
	var b strings.Builder

	tag := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s  - %s\n", name, risValue(value))
	}

	risType, ok := risTypes[rec.EffectiveType()]
	if !ok {
		risType = "JOUR"
	}
	tag("TY", risType)

	tag("TI", stripTags(rec.Title))
	for _, a := range rec.Authors {
		tag("AU", a.DisplayName())
	}
	for _, e := range rec.Editors {
		tag("ED", e.DisplayName())
	}

	if rec.Published.Year != 0 {
		tag("PY", fmt.Sprintf("%d", rec.Published.Year))
		if m := rec.Published.Month; m >= 1 && m <= 12 {
			date := fmt.Sprintf("%04d/%02d", rec.Published.Year, m)
			if rec.Published.Day > 0 {
				date += fmt.Sprintf("/%02d", rec.Published.Day)
			}
			tag("DA", date)
		}
	}

	if risType == "JOUR" {
		tag("JO", rec.ContainerTitle)
	} else {
		tag("T2", rec.ContainerTitle)
	}
	tag("VL", rec.Volume)
	tag("IS", rec.Issue)
	if rec.Pages != "" {
		first, last := splitPages(rec.Pages)
		tag("SP", first)
		tag("EP", last)
	}

	tag("DO", rec.DOI)
	tag("UR", rec.URL)
	tag("PB", rec.Publisher)
	if rec.ISSN != "" {
		tag("SN", rec.ISSN)
	} else {
		tag("SN", rec.ISBN)
	}
	tag("AB", stripTags(rec.Abstract))
	tag("LA", rec.Language)
	for _, kw := range rec.Subjects {
		tag("KW", kw)
	}

	b.WriteString("ER  -\n")
	return b.String()
}
