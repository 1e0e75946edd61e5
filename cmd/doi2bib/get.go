package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/reference"
)

func init() {
	addFormatFlag(getCmd)
	addCopyFlag(getCmd)
	addNoCacheFlag(getCmd)
	addAppendFlag(getCmd)
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <doi>...",
	Short: "Convert DOIs to citation entries",
	Long: `Fetch metadata for one or more DOIs and print citation entries.

DOIs may be bare, doi:-prefixed, or full https://doi.org/ URLs.

Examples:
  doi2bib get 10.1103/PhysRevLett.116.061102
  doi2bib get https://doi.org/10.1038/nphys1170 doi:10.1103/PhysRev.47.777
  doi2bib get --format ris 10.1103/PhysRevLett.116.061102
  doi2bib get --copy 10.1103/PhysRevLett.116.061102
  doi2bib get --append refs.bib 10.1103/PhysRevLett.116.061102`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	outFormat := resolveFormat()
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

	emitRecords(recs, outFormat)
	return nil
}
