package main

import (
	"strings"
	"testing"

	"github.com/biterik/doi2bib/internal/reference"
)

func sampleRecords() []reference.Record {
	return []reference.Record{
		{
			Type:           "journal-article",
			Title:          "A Model of Leptons",
			Authors:        []reference.Author{{Given: "Steven", Family: "Weinberg"}},
			ContainerTitle: "Physical Review Letters",
			Published:      reference.Date{Year: 1967},
		},
		{
			Type:           "journal-article",
			Title:          "Hidden variables and the two theorems of John Bell",
			Authors:        []reference.Author{{Given: "N. David", Family: "Mermin"}},
			ContainerTitle: "Reviews of Modern Physics",
			Published:      reference.Date{Year: 1993},
		},
	}
}

func TestRenderRecords_BibTeX(t *testing.T) {
	out, err := renderRecords(sampleRecords(), "bibtex")
	if err != nil {
		t.Fatalf("renderRecords() error = %v", err)
	}

	if !strings.HasPrefix(out, "@article{weinberg1967,\n") {
		t.Errorf("output should start with the first entry, got:\n%s", out)
	}
	if !strings.Contains(out, "}\n\n@article{mermin1993,\n") {
		t.Errorf("entries should be separated by a blank line, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output should end with a single newline, got %q", out[len(out)-4:])
	}
}

func TestRenderRecords_RIS(t *testing.T) {
	out, err := renderRecords(sampleRecords(), "ris")
	if err != nil {
		t.Fatalf("renderRecords() error = %v", err)
	}

	if got := strings.Count(out, "ER  -\n"); got != 2 {
		t.Errorf("expected 2 RIS terminators, got %d in:\n%s", got, out)
	}
	if !strings.Contains(out, "ER  -\n\nTY  - JOUR\n") {
		t.Errorf("records should be separated by a blank line, got:\n%s", out)
	}
}

func TestRenderRecords_CSLShapes(t *testing.T) {
	recs := sampleRecords()

	single, err := renderRecords(recs[:1], "csl")
	if err != nil {
		t.Fatalf("renderRecords() error = %v", err)
	}
	if !strings.HasPrefix(single, "{") {
		t.Errorf("single record should render as an object, got:\n%s", single)
	}

	multi, err := renderRecords(recs, "csl")
	if err != nil {
		t.Fatalf("renderRecords() error = %v", err)
	}
	if !strings.HasPrefix(multi, "[") {
		t.Errorf("multiple records should render as an array, got:\n%s", multi)
	}
	if !strings.HasSuffix(multi, "]\n") {
		t.Errorf("array output should end with a single newline, got %q", multi[len(multi)-4:])
	}
}

func TestRenderRecords_UnknownFormat(t *testing.T) {
	if _, err := renderRecords(sampleRecords(), "endnote"); err == nil {
		t.Error("renderRecords() should reject unknown formats")
	}
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		format string
		want   bool
	}{
		{"bibtex", true},
		{"ris", true},
		{"csl", true},
		{"", false},
		{"BibTeX", false},
		{"endnote", false},
	}

	for _, tt := range tests {
		if got := validFormat(tt.format); got != tt.want {
			t.Errorf("validFormat(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}
