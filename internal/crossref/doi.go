package crossref

import (
	"regexp"
	"strings"
)

var (
	doiURLPrefix    = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)
	doiSchemePrefix = regexp.MustCompile(`(?i)^doi:`)
)

// CleanDOI normalizes user-supplied DOI input: surrounding whitespace,
// resolver URL prefixes and the doi: scheme are stripped, leaving the
// bare registered identifier.
func CleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = doiURLPrefix.ReplaceAllString(doi, "")
	doi = doiSchemePrefix.ReplaceAllString(doi, "")
	return doi
}
