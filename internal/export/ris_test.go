package export

import (
	"strings"
	"testing"

	"github.com/biterik/doi2bib/internal/reference"
)

func TestToRIS_ExactOutput(t *testing.T) {
	rec := reference.Record{
		Type:  "journal-article",
		Title: "Observation of Gravitational Waves from a Binary Black Hole Merger",
		Authors: []reference.Author{
			{Given: "B. P.", Family: "Abbott"},
			{Given: "R.", Family: "Abbott"},
		},
		ContainerTitle: "Physical Review Letters",
		Volume:         "116",
		Issue:          "6",
		Pages:          "061102",
		Published:      reference.Date{Year: 2016, Month: 2, Day: 11},
		DOI:            "10.1103/PhysRevLett.116.061102",
		URL:            "https://doi.org/10.1103/PhysRevLett.116.061102",
	}

	want := strings.Join([]string{
		"TY  - JOUR",
		"TI  - Observation of Gravitational Waves from a Binary Black Hole Merger",
		"AU  - Abbott, B. P.",
		"AU  - Abbott, R.",
		"PY  - 2016",
		"DA  - 2016/02/11",
		"JO  - Physical Review Letters",
		"VL  - 116",
		"IS  - 6",
		"SP  - 061102",
		"DO  - 10.1103/PhysRevLett.116.061102",
		"UR  - https://doi.org/10.1103/PhysRevLett.116.061102",
		"ER  -",
		"",
	}, "\n")

	got := ToRIS(rec)
	if got != want {
		t.Errorf("ToRIS() =\n%s\nwant:\n%s", got, want)
	}
}

func TestToRIS_PageRangeSplit(t *testing.T) {
	tests := []struct {
		name  string
		pages string
		sp    string
		ep    string
	}{
		{"hyphen", "511-515", "511", "515"},
		{"en dash", "511–515", "511", "515"},
		{"em dash", "511—515", "511", "515"},
		{"spaces around dash", "511 - 515", "511", "515"},
		{"single page", "042001", "042001", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRIS(reference.Record{Pages: tt.pages})

			if !strings.Contains(got, "SP  - "+tt.sp+"\n") {
				t.Errorf("ToRIS() should contain SP  - %s, got:\n%s", tt.sp, got)
			}
			if tt.ep == "" {
				if strings.Contains(got, "EP  - ") {
					t.Errorf("ToRIS() single page should not emit EP, got:\n%s", got)
				}
			} else if !strings.Contains(got, "EP  - "+tt.ep+"\n") {
				t.Errorf("ToRIS() should contain EP  - %s, got:\n%s", tt.ep, got)
			}
		})
	}
}

func TestToRIS_Types(t *testing.T) {
	tests := []struct {
		workType string
		want     string
	}{
		{"journal-article", "JOUR"},
		{"proceedings-article", "CONF"},
		{"book-chapter", "CHAP"},
		{"book", "BOOK"},
		{"edited-book", "EDBOOK"},
		{"monograph", "BOOK"},
		{"report", "RPRT"},
		{"dissertation", "THES"},
		{"dataset", "DATA"},
		{"posted-content", "GEN"},
		{"something-new", "JOUR"},
		{"", "JOUR"},
	}

	for _, tt := range tests {
		t.Run(tt.workType, func(t *testing.T) {
			got := ToRIS(reference.Record{Type: tt.workType})
			if !strings.HasPrefix(got, "TY  - "+tt.want+"\n") {
				t.Errorf("ToRIS(%q) should open with TY  - %s, got:\n%s", tt.workType, tt.want, got)
			}
		})
	}
}

func TestToRIS_ChapterContainerUsesT2(t *testing.T) {
	rec := reference.Record{
		Type:           "book-chapter",
		Title:          "Dislocation Dynamics",
		ContainerTitle: "Physical Metallurgy",
	}

	got := ToRIS(rec)

	if !strings.Contains(got, "T2  - Physical Metallurgy\n") {
		t.Errorf("ToRIS() chapter should carry the container as T2, got:\n%s", got)
	}
	if strings.Contains(got, "JO  - ") {
		t.Errorf("ToRIS() chapter should not emit JO, got:\n%s", got)
	}
}

func TestToRIS_SerialNumberPrefersISSN(t *testing.T) {
	got := ToRIS(reference.Record{ISSN: "0031-9007", ISBN: "978-0-123"})
	if !strings.Contains(got, "SN  - 0031-9007\n") {
		t.Errorf("ToRIS() should prefer the ISSN for SN, got:\n%s", got)
	}

	got = ToRIS(reference.Record{ISBN: "978-0-123"})
	if !strings.Contains(got, "SN  - 978-0-123\n") {
		t.Errorf("ToRIS() should fall back to the ISBN for SN, got:\n%s", got)
	}
}

func TestToRIS_DateGranularity(t *testing.T) {
	got := ToRIS(reference.Record{Published: reference.Date{Year: 2016}})
	if !strings.Contains(got, "PY  - 2016\n") {
		t.Errorf("ToRIS() should emit PY for a bare year, got:\n%s", got)
	}
	if strings.Contains(got, "DA  - ") {
		t.Errorf("ToRIS() should not emit DA without a month, got:\n%s", got)
	}

	got = ToRIS(reference.Record{Published: reference.Date{Year: 2016, Month: 2}})
	if !strings.Contains(got, "DA  - 2016/02\n") {
		t.Errorf("ToRIS() should zero-pad the month in DA, got:\n%s", got)
	}
}

func TestToRIS_KeywordsAndEditors(t *testing.T) {
	rec := reference.Record{
		Type:     "edited-book",
		Title:    "Handbook of Magnetism",
		Editors:  []reference.Author{{Given: "H.", Family: "Kronmüller"}},
		Subjects: []string{"magnetism", "materials science"},
	}

	got := ToRIS(rec)

	if !strings.Contains(got, "ED  - Kronmüller, H.\n") {
		t.Errorf("ToRIS() should list editors as ED, got:\n%s", got)
	}
	if !strings.Contains(got, "KW  - magnetism\n") || !strings.Contains(got, "KW  - materials science\n") {
		t.Errorf("ToRIS() should emit one KW per subject, got:\n%s", got)
	}
}

func TestToRIS_FlattensNewlines(t *testing.T) {
	rec := reference.Record{
		Abstract: "<jats:p>First line.\nSecond line.</jats:p>",
	}

	got := ToRIS(rec)

	if !strings.Contains(got, "AB  - First line. Second line.\n") {
		t.Errorf("ToRIS() should flatten the abstract onto one line, got:\n%s", got)
	}
}

func TestToRIS_AlwaysTerminated(t *testing.T) {
	got := ToRIS(reference.Record{})
	if !strings.HasSuffix(got, "ER  -\n") {
		t.Errorf("ToRIS() must end with the ER terminator, got: %q", got)
	}
}
