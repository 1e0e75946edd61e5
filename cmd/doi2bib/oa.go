package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/browser"
	"github.com/biterik/doi2bib/internal/config"
	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/unpaywall"
)

var oaOpen bool

func init() {
	oaCmd.Flags().BoolVar(&oaOpen, "open", false, "Open the located copy in the browser")
	rootCmd.AddCommand(oaCmd)
}

var oaCmd = &cobra.Command{
	Use:   "oa <doi>",
	Short: "Find a free full-text copy via Unpaywall",
	Long: `Look up a DOI on Unpaywall and print the best open-access URL,
preferring a direct PDF link over the landing page.

Unpaywall requires a contact email; set one with
  doi2bib config set unpaywall_email you@example.org
(the CrossRef mailto is reused when no separate address is set).

Example:
  doi2bib oa 10.1103/PhysRevLett.116.061102`,
	Args: cobra.ExactArgs(1),
	RunE: runOA,
}

func runOA(cmd *cobra.Command, args []string) error {
	doi := crossref.CleanDOI(args[0])
	client := unpaywall.NewClient(config.UnpaywallAddress())
	ctx := context.Background()

	loc, err := client.Find(ctx, doi)
	if err != nil {
		if errors.Is(err, unpaywall.ErrNoEmail) {
			exitWithError(ExitConfigError, "unpaywall needs a contact email; run: doi2bib config set unpaywall_email <address>")
		}
		exitWithError(ExitNetworkError, "unpaywall: %v", err)
	}
	if loc == nil {
		exitWithError(ExitDataError, "no open-access copy of %s", doi)
	}

	url := loc.BestURL()
	fmt.Println(url)
	if loc.License != "" || loc.Version != "" {
		log.Debugf("version %s, license %s", loc.Version, loc.License)
	}

	if oaOpen {
		if err := browser.Open(url); err != nil {
			exitWithError(ExitError, "%v", err)
		}
	}
	return nil
}
