// Package main provides the doi2bib CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/cache"
	"github.com/biterik/doi2bib/internal/cite"
	"github.com/biterik/doi2bib/internal/config"
	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/journals"
	"github.com/biterik/doi2bib/internal/reference"
)

// Version is set at build time via ldflags
var Version = "dev"

// verbose enables debug diagnostics on stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like unknown flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "doi2bib",
	Short: "Convert DOIs and citations to BibTeX, RIS or CSL-JSON",
	Long: `doi2bib turns DOIs, free-text citations and article PDFs into
bibliography entries using CrossRef metadata.

Core features:
  - DOI lookup with a local response cache
  - Best-effort parsing of pasted citation strings
  - BibTeX, RIS and CSL-JSON output
  - Open-access PDF discovery via Unpaywall
  - Direct import into a running Zotero

Citation entries go to stdout; all diagnostics go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env if present (for DOI2BIB_MAILTO etc.)
		_ = godotenv.Load()
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output on stderr")
	rootCmd.Version = Version
}

// newCrossRefClient builds the metadata client with the configured contact
// address and this build's version in the User-Agent.
func newCrossRefClient() *crossref.Client {
	opts := []crossref.ClientOption{crossref.WithUserAgent("doi2bib/" + Version)}
	if m := config.Mailto(); m != "" {
		opts = append(opts, crossref.WithMailto(m))
	}
	return crossref.NewClient(opts...)
}

// openCache opens the response cache. Every failure is soft: a warning is
// logged and the tool proceeds without caching.
func openCache() *cache.Store {
	if !config.CacheEnabled() {
		log.Debug("response cache disabled in config")
		return nil
	}
	path := config.DefaultCachePath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Warnf("response cache unavailable: %v", err)
		return nil
	}
	store, err := cache.Open(path, config.CacheTTL())
	if err != nil {
		log.Warnf("response cache unavailable: %v", err)
		return nil
	}
	return store
}

// closeCache closes the store when one was opened.
func closeCache(store *cache.Store) {
	if store != nil {
		store.Close()
	}
}

// fetchRecord resolves one DOI to a record, consulting the cache first
// unless noCache is set. Cache read and write failures never fail the
// fetch.
func fetchRecord(ctx context.Context, client *crossref.Client, store *cache.Store, doi string, noCache bool) (reference.Record, error) {
	cleaned := crossref.CleanDOI(doi)

	if store != nil && !noCache {
		payload, ok, err := store.Get(cleaned)
		if err != nil {
			log.Warnf("cache read: %v", err)
		} else if ok {
			work, err := crossref.DecodeWork(payload)
			if err == nil {
				log.Debugf("cache hit for %s", cleaned)
				return work.Record(), nil
			}
			log.Warnf("cache entry for %s unreadable, refetching", cleaned)
		}
	}

	log.Infof("fetching %s", cleaned)
	payload, err := client.WorkJSON(ctx, cleaned)
	if err != nil {
		return reference.Record{}, err
	}
	if store != nil {
		if err := store.Put(cleaned, payload); err != nil {
			log.Warnf("cache write: %v", err)
		}
	}

	work, err := crossref.DecodeWork(payload)
	if err != nil {
		return reference.Record{}, err
	}
	return work.Record(), nil
}

// loadResolver builds the journal resolver from the configured table path,
// silently falling back to the embedded table.
func loadResolver() *journals.Resolver {
	return journals.LoadOrDefault(config.AbbreviationsPath())
}

// newCiteParser builds the citation parser over the configured
// abbreviation table.
func newCiteParser() *cite.Parser {
	return cite.NewParser(loadResolver())
}
