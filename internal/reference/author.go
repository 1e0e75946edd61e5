package reference

import "strings"

// Author represents a contributor (author or editor) with optional ORCID.
type Author struct {
	Given  string `json:"given,omitempty"`  // Given name(s), e.g. "Mary Jane"
	Family string `json:"family,omitempty"` // Family name, e.g. "Whelan"
	ORCID  string `json:"orcid,omitempty"`  // ORCID identifier (without URL prefix)
}

// DisplayName renders the author as "Family, Given". If only one half is
// known, that half is returned alone.
func (a Author) DisplayName() string {
	switch {
	case a.Family != "" && a.Given != "":
		return a.Family + ", " + a.Given
	case a.Family != "":
		return a.Family
	default:
		return a.Given
	}
}

// JoinNames renders a contributor list in citation style: each person as
// "Family, Given", joined with " and ". Persons with neither name set are
// skipped.
func JoinNames(people []Author) string {
	var names []string
	for _, p := range people {
		if name := p.DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " and ")
}
