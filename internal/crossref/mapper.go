package crossref

import (
	"github.com/biterik/doi2bib/internal/reference"
)

// first unwraps a list-of-one wire field.
func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contributors(list []Contributor) []reference.Author {
	if len(list) == 0 {
		return nil
	}
	authors := make([]reference.Author, 0, len(list))
	for _, c := range list {
		authors = append(authors, reference.Author{
			Given:  c.Given,
			Family: c.Family,
			ORCID:  c.ORCID,
		})
	}
	return authors
}

// resolveDate picks the publication date for a work. The year walks
// published-print, published-online, issued, created and takes the first
// non-empty value; month and day walk the same order without created,
// accept only months 1-12, and the day always comes from the same source
// as the month. The two walks are independent.
func (w *Work) resolveDate() reference.Date {
	var date reference.Date

	for _, src := range []*PartialDate{w.PublishedPrint, w.PublishedOnline, w.Issued, w.Created} {
		if p := src.parts(); len(p) > 0 && p[0] != 0 {
			date.Year = p[0]
			break
		}
	}

	for _, src := range []*PartialDate{w.PublishedPrint, w.PublishedOnline, w.Issued} {
		p := src.parts()
		if len(p) > 1 && p[1] >= 1 && p[1] <= 12 {
			date.Month = p[1]
			if len(p) > 2 && p[2] > 0 {
				date.Day = p[2]
			}
			break
		}
	}

	return date
}

// Record maps the wire work onto the internal record: list-of-one fields
// are unwrapped, contributors copied, and the date resolved per the
// source priority above. The abstract is kept raw; markup stripping is
// the exporters' concern.
func (w *Work) Record() reference.Record {
	return reference.Record{
		Type:           w.Type,
		Title:          first(w.Title),
		Authors:        contributors(w.Author),
		Editors:        contributors(w.Editor),
		ContainerTitle: first(w.ContainerTitle),
		Volume:         w.Volume,
		Issue:          w.Issue,
		Pages:          w.Page,
		Published:      w.resolveDate(),
		DOI:            w.DOI,
		URL:            w.URL,
		ISSN:           first(w.ISSN),
		ISBN:           first(w.ISBN),
		Publisher:      w.Publisher,
		Abstract:       w.Abstract,
		Language:       w.Language,
		Subjects:       w.Subject,
	}
}
