// Package cite parses free-text citation strings into typed fragments.
//
// Parsing is a best-effort, strictly ordered cascade of pattern rules. A rule
// that does not match leaves its field empty; parsing itself never fails. The
// original input is always retained for full-text fallback search.
package cite

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/biterik/doi2bib/internal/journals"
)

// Parsed holds the fragments extracted from a citation string. Absent
// fragments are empty. Query always equals the trimmed input.
type Parsed struct {
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`
	Title   string `json:"title,omitempty"`
	Journal string `json:"journal,omitempty"`
	Volume  string `json:"volume,omitempty"`
	Page    string `json:"page,omitempty"`
	Query   string `json:"query"`
}

// Parser runs the extraction cascade using a journal resolver for
// abbreviation lookup.
type Parser struct {
	resolver *journals.Resolver
}

// NewParser returns a Parser backed by the given resolver.
func NewParser(r *journals.Resolver) *Parser {
	return &Parser{resolver: r}
}

// step is one stage of the cascade: it receives the working text and the
// result so far, and returns the (possibly shrunk) working text and the
// updated result. Only the author step shrinks the text; every later step
// sees text with the matched author prefix removed.
type step func(text string, res Parsed) (string, Parsed)

// Parse decomposes a free-text citation into typed fragments.
func (p *Parser) Parse(text string) Parsed {
	res := Parsed{Query: strings.TrimSpace(text)}
	if res.Query == "" {
		return res
	}

	working := res.Query
	for _, s := range []step{
		extractYear,
		extractVolumePage,
		extractAuthors,
		p.resolveJournal,
		extractCapsJournal,
		extractTitle,
	} {
		working, res = s(working, res)
	}
	return res
}

var (
	yearParenPattern = regexp.MustCompile(`\((\d{4})\)`)
	yearBarePattern  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// extractYear finds the publication year: a parenthesized 4-digit number
// first, then any bare token in 1900-2099.
func extractYear(text string, res Parsed) (string, Parsed) {
	for _, pat := range []*regexp.Regexp{yearParenPattern, yearBarePattern} {
		if m := pat.FindStringSubmatch(text); m != nil {
			res.Year = m[1]
			break
		}
	}
	return text, res
}

// volPagePatterns match "volume, page" in the common journal citation
// shapes. Each captures volume then page; a pattern either yields both or
// does not match.
var volPagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s*,\s*(\d+(?:[-–]\d+)?)\b`),              // 4, 511 or 4, 511-520
	regexp.MustCompile(`\b(\d+)\s*:\s*(\d+(?:[-–]\d+)?)\b`),              // 4:511
	regexp.MustCompile(`(?i)vol\.?\s*(\d+)\s*,?\s*(?:p\.?|pp\.?)?\s*(\d+(?:[-–]\d+)?)`), // vol. 4, pp. 511
	regexp.MustCompile(`\b(\d+)\s*\(\d+\)\s*[:,]?\s*(\d+(?:[-–]\d+)?)`),  // 4(2): 511
}

func extractVolumePage(text string, res Parsed) (string, Parsed) {
	for _, pat := range volPagePatterns {
		if m := pat.FindStringSubmatch(text); m != nil {
			res.Volume = m[1]
			res.Page = m[2]
			break
		}
	}
	return text, res
}

// authorPatterns are tried in order against the start of the text. The
// matched prefix is consumed so that journal and title extraction work on
// what follows the author list.
var authorPatterns = []*regexp.Regexp{
	// G. Thomas and M. J. Whelan
	regexp.MustCompile(`^([A-Z]\.\s*(?:[A-Z]\.\s*)?[A-Za-z]+(?:\s+(?:and|&)\s+[A-Z]\.\s*(?:[A-Z]\.\s*)?[A-Za-z]+)*)`),
	// Thomas, G., Whelan, M. J.
	regexp.MustCompile(`^([A-Za-z]+,?\s*[A-Z]\.(?:\s*[A-Z]\.)?(?:\s*(?:,|and|&)\s*[A-Za-z]+,?\s*[A-Z]\.(?:\s*[A-Z]\.)?)*)`),
	// Thomas G and Whelan M
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z]\b(?:\s*(?:,|and|&)\s*[A-Z][a-z]+\s+[A-Z]\b)*)`),
	// Thomas GT, Whelan MJ
	regexp.MustCompile(`^([A-Z][a-z]+\s+[A-Z]{1,2}\b(?:\s*(?:,|and|&)\s*[A-Z][a-z]+\s+[A-Z]{1,2}\b)*)`),
	// Thomas et al.
	regexp.MustCompile(`^([A-Za-z]+\s+et\s+al\.?)`),
}

func extractAuthors(text string, res Parsed) (string, Parsed) {
	for _, pat := range authorPatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		res.Authors = strings.TrimSpace(m[1])
		remaining := strings.TrimSpace(text[len(m[0]):])
		remaining = strings.TrimSpace(strings.TrimPrefix(remaining, ","))
		return remaining, res
	}
	return text, res
}

func (p *Parser) resolveJournal(text string, res Parsed) (string, Parsed) {
	if name, ok := p.resolver.Resolve(text); ok {
		res.Journal = name
	}
	return text, res
}

var capsJournalPattern = regexp.MustCompile(`^([A-Z][A-Z\s]+[A-Z])\b`)

// extractCapsJournal handles journals printed in full capitals, e.g.
// "PHYSICAL REVIEW MATERIALS 5, 083603 (2021)". Only consulted when the
// abbreviation table found nothing.
func extractCapsJournal(text string, res Parsed) (string, Parsed) {
	if res.Journal != "" {
		return text, res
	}
	m := capsJournalPattern.FindStringSubmatch(text)
	if m == nil {
		return text, res
	}
	candidate := strings.TrimSpace(m[1])
	if len(candidate) > 5 && strings.Contains(candidate, " ") {
		res.Journal = cases.Title(language.English).String(candidate)
	}
	return text, res
}

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]+)"`),
	regexp.MustCompile(`'([^']+)'`),
	regexp.MustCompile(`(?:^|,\s*)([A-Z][^,]+(?:\.\s*[IVX]+\.)?[^,]*?)(?:,\s*(?:[A-Z]|$)|$)`),
}

// extractTitle assigns the whole input as the title when no structure was
// recognized at all; otherwise it looks for a quoted string or a capitalized
// clause in the remaining text. A clause candidate must be longer than 20
// characters and not purely numeric.
func extractTitle(text string, res Parsed) (string, Parsed) {
	if res.Authors == "" && res.Journal == "" && res.Volume == "" {
		res.Title = res.Query
		return text, res
	}

	for _, pat := range titlePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) > 20 && !isAllDigits(strings.ReplaceAll(candidate, " ", "")) {
			res.Title = candidate
			break
		}
	}
	return text, res
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
