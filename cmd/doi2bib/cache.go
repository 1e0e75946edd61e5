package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/cache"
	"github.com/biterik/doi2bib/internal/config"
)

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and contents",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

// mustOpenCache opens the store for maintenance commands, which work even
// when caching is disabled for lookups.
func mustOpenCache() *cache.Store {
	path := config.DefaultCachePath()
	if path == "" {
		exitWithError(ExitConfigError, "cannot determine cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	store, err := cache.Open(path, config.CacheTTL())
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	store := mustOpenCache()
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		exitWithError(ExitError, "reading cache: %v", err)
	}

	fmt.Printf("path:    %s\n", store.Path())
	fmt.Printf("entries: %d (%d fresh)\n", stats.Entries, stats.Fresh)
	if !stats.Oldest.IsZero() {
		fmt.Printf("oldest:  %s\n", stats.Oldest.Format("2006-01-02 15:04"))
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store := mustOpenCache()
	defer store.Close()

	n, err := store.Clear()
	if err != nil {
		exitWithError(ExitError, "clearing cache: %v", err)
	}
	log.Infof("removed %d cached responses", n)
	return nil
}
