package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/browser"
	"github.com/biterik/doi2bib/internal/crossref"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <doi>",
	Short: "Open a DOI's landing page in the browser",
	Long: `Open https://doi.org/<doi> in the default browser.

Example:
  doi2bib open 10.1103/PhysRevLett.116.061102`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	url := browser.DOIURL(crossref.CleanDOI(args[0]))
	log.Infof("opening %s", url)
	if err := browser.Open(url); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
