package crossref

// Work is a CrossRef work as carried in the works API message envelope.
// Titles, container titles and serial numbers arrive as lists even when
// they hold a single value; the mapper takes the first element.
type Work struct {
	DOI            string        `json:"DOI"`
	Type           string        `json:"type"`
	Title          []string      `json:"title"`
	Subtitle       []string      `json:"subtitle"`
	Author         []Contributor `json:"author"`
	Editor         []Contributor `json:"editor"`
	ContainerTitle []string      `json:"container-title"`
	Volume         string        `json:"volume"`
	Issue          string        `json:"issue"`
	Page           string        `json:"page"`
	Publisher      string        `json:"publisher"`
	Abstract       string        `json:"abstract"`
	Language       string        `json:"language"`
	Subject        []string      `json:"subject"`
	ISSN           []string      `json:"ISSN"`
	ISBN           []string      `json:"ISBN"`
	URL            string        `json:"URL"`

	PublishedPrint  *PartialDate `json:"published-print"`
	PublishedOnline *PartialDate `json:"published-online"`
	Issued          *PartialDate `json:"issued"`
	Created         *PartialDate `json:"created"`
}

// Contributor is a CrossRef author or editor.
type Contributor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	ORCID  string `json:"ORCID"`
}

// PartialDate is a CrossRef date of year, year-month or year-month-day
// granularity, wire-encoded as nested date-parts arrays.
type PartialDate struct {
	DateParts [][]int `json:"date-parts"`
}

// parts returns the first date-parts tuple, or nil.
func (d *PartialDate) parts() []int {
	if d == nil || len(d.DateParts) == 0 {
		return nil
	}
	return d.DateParts[0]
}
