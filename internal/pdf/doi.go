// Package pdf pulls bibliographic identifiers out of article PDFs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiScanPages bounds how far into a document we look for a DOI. Journal
// PDFs carry it on the first page, preprints occasionally later.
const doiScanPages = 3

var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI scans the opening pages of the PDF at path and returns the
// first plausible DOI it finds. An empty string means no DOI was present;
// that is not an error.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > doiScanPages {
		pages = doiScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A malformed page should not abort the scan.
			continue
		}
		if doi := findDOI(text); doi != "" {
			return doi, nil
		}
	}
	return "", nil
}

// ExtractTitle guesses the article title from the first page: the first
// substantial line that does not look like a running header. Best effort;
// returns "" when nothing qualifies.
func ExtractTitle(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", nil
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !headerLine(line) {
			return line, nil
		}
	}
	return "", nil
}

// findDOI returns the first plausible DOI in text, with the punctuation
// that typically trails an inline citation trimmed off.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		doi := strings.TrimRight(match, ".,;:)")
		if plausibleDOI(doi) {
			return doi
		}
	}
	return ""
}

// plausibleDOI weeds out regex matches that cannot be real DOIs, such as
// bare prefixes or fragments clipped mid-suffix.
func plausibleDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash > 0 && slash < len(doi)-1
}

// headerLine reports whether a line looks like journal front-matter
// rather than a title.
func headerLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "copyright"):
		return true
	case strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
