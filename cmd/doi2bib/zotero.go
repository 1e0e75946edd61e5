package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/config"
	"github.com/biterik/doi2bib/internal/reference"
	"github.com/biterik/doi2bib/internal/zotero"
)

func init() {
	addNoCacheFlag(zoteroCmd)
	rootCmd.AddCommand(zoteroCmd)
}

var zoteroCmd = &cobra.Command{
	Use:   "zotero <doi>...",
	Short: "Send DOIs to a running Zotero",
	Long: `Fetch metadata for the DOIs and import the entries into Zotero
through its local connector endpoint. Zotero must be running.

Example:
  doi2bib zotero 10.1103/PhysRevLett.116.061102`,
	Args: cobra.MinimumNArgs(1),
	RunE: runZotero,
}

func runZotero(cmd *cobra.Command, args []string) error {
	client := newCrossRefClient()
	store := openCache()
	defer closeCache(store)
	ctx := context.Background()

	recs := make([]reference.Record, 0, len(args))
	for _, doi := range args {
		rec, err := fetchRecord(ctx, client, store, doi, noCacheFlag)
		if err != nil {
			exitForFetchError(doi, err)
		}
		recs = append(recs, rec)
	}

	// The connector endpoint speaks BibTeX regardless of the output format
	// configured for printing.
	payload, err := renderRecords(recs, "bibtex")
	if err != nil {
		exitWithError(ExitError, "rendering entries: %v", err)
	}

	zc := newZoteroClient()
	if err := zc.Import(ctx, payload); err != nil {
		if errors.Is(err, zotero.ErrUnreachable) || errors.Is(err, zotero.ErrBusy) {
			exitWithError(ExitNetworkError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	if len(recs) == 1 {
		log.Info("imported 1 entry into Zotero")
	} else {
		log.Infof("imported %d entries into Zotero", len(recs))
	}
	return nil
}

func newZoteroClient() *zotero.Client {
	if ep := config.ZoteroEndpoint(); ep != "" {
		return zotero.NewClient(zotero.WithEndpoint(ep))
	}
	return zotero.NewClient()
}
