package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var journalsLookup string

func init() {
	journalsCmd.Flags().StringVar(&journalsLookup, "lookup", "", "Resolve an abbreviation and exit")
	rootCmd.AddCommand(journalsCmd)
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "Inspect the journal abbreviation table",
	Long: `Show where the journal abbreviation table was loaded from and how
many entries it holds. With --lookup the given text is resolved once.

Examples:
  doi2bib journals
  doi2bib journals --lookup "Phys. Rev. Lett. 116, 061102"`,
	Args: cobra.NoArgs,
	RunE: runJournals,
}

func runJournals(cmd *cobra.Command, args []string) error {
	resolver := loadResolver()

	if journalsLookup != "" {
		name, ok := resolver.Resolve(journalsLookup)
		if !ok {
			exitWithError(ExitDataError, "no abbreviation recognized in %q", journalsLookup)
		}
		fmt.Println(name)
		return nil
	}

	fmt.Printf("table:         %s\n", resolver.Source())
	fmt.Printf("abbreviations: %d\n", resolver.Len())
	return nil
}
