package main

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/pdf"
	"github.com/biterik/doi2bib/internal/reference"
)

func init() {
	addFormatFlag(pdfCmd)
	addCopyFlag(pdfCmd)
	addNoCacheFlag(pdfCmd)
	addAppendFlag(pdfCmd)
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>",
	Short: "Convert an article PDF to a citation entry",
	Long: `Scan the opening pages of a PDF for a DOI and convert it.

When the PDF carries no printed DOI, the first-page title is extracted and
searched instead, taking the best match.

Example:
  doi2bib pdf paper.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

func runPDF(cmd *cobra.Command, args []string) error {
	outFormat := resolveFormat()
	path := args[0]

	doi, err := pdf.ExtractDOI(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	client := newCrossRefClient()
	store := openCache()
	defer closeCache(store)
	ctx := context.Background()

	var rec reference.Record
	if doi != "" {
		log.Infof("found DOI %s", doi)
		rec, err = fetchRecord(ctx, client, store, doi, noCacheFlag)
		if err != nil {
			exitForFetchError(doi, err)
		}
	} else {
		title, err := pdf.ExtractTitle(path)
		if err != nil || title == "" {
			exitWithError(ExitDataError, "no DOI found in %s", path)
		}
		log.Infof("no DOI in PDF, searching for title: %s", title)

		recs, err := client.Search(ctx, crossref.SearchQuery{Title: title, Rows: 1})
		if err != nil {
			exitForSearchError(err)
		}
		if len(recs) == 0 {
			exitWithError(ExitDataError, "no matches for %q", title)
		}
		rec = recs[0]
	}

	emitRecords([]reference.Record{rec}, outFormat)
	return nil
}
