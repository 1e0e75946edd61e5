// Package format renders one-line, human-readable summaries of records
// for interactive pick lists and verbose listings.
package format

import (
	"fmt"
	"strings"

	"github.com/biterik/doi2bib/internal/reference"
)

const (
	shortTitleLimit = 60
	longTitleLimit  = 80
)

// truncate shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// initialName renders "G. Family" from the first rune of the given name.
func initialName(a reference.Author) string {
	if a.Given == "" {
		return a.Family
	}
	return string([]rune(a.Given)[0]) + ". " + a.Family
}

// fullName renders "Given Family".
func fullName(a reference.Author) string {
	if a.Given == "" {
		return a.Family
	}
	return a.Given + " " + a.Family
}

// authorList joins up to max rendered names, closing with "et al." when
// authors remain beyond the cut.
func authorList(authors []reference.Author, max int, render func(reference.Author) string) string {
	names := make([]string, 0, max+1)
	for i, a := range authors {
		if i == max {
			break
		}
		names = append(names, render(a))
	}
	if len(authors) > max {
		names = append(names, "et al.")
	}
	return strings.Join(names, ", ")
}

// Short renders an indexed summary line: up to two initialed authors,
// year, quoted title and container. Missing pieces are skipped.
func Short(index int, rec reference.Record) string {
	parts := []string{fmt.Sprintf("[%d]", index)}

	if len(rec.Authors) > 0 {
		parts = append(parts, authorList(rec.Authors, 2, initialName))
	}
	if rec.Published.Year != 0 {
		parts = append(parts, fmt.Sprintf("(%d)", rec.Published.Year))
	}
	if rec.Title != "" {
		parts = append(parts, `"`+truncate(rec.Title, shortTitleLimit)+`"`)
	}
	if rec.ContainerTitle != "" {
		parts = append(parts, rec.ContainerTitle)
	}

	return strings.Join(parts, " ")
}

// Long renders a fuller summary line: up to three authors with complete
// given names, a longer title window, and volume/page details.
func Long(rec reference.Record) string {
	var parts []string

	if len(rec.Authors) > 0 {
		parts = append(parts, authorList(rec.Authors, 3, fullName))
	}
	if rec.Published.Year != 0 {
		parts = append(parts, fmt.Sprintf("(%d)", rec.Published.Year))
	}
	if rec.Title != "" {
		parts = append(parts, `"`+truncate(rec.Title, longTitleLimit)+`"`)
	}
	if rec.ContainerTitle != "" {
		parts = append(parts, rec.ContainerTitle)
	}

	var volPage []string
	if rec.Volume != "" {
		volPage = append(volPage, "vol. "+rec.Volume)
	}
	if rec.Pages != "" {
		volPage = append(volPage, "p. "+rec.Pages)
	}
	if len(volPage) > 0 {
		parts = append(parts, strings.Join(volPage, ", "))
	}

	return strings.Join(parts, " ")
}
