package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Read and edit the configuration file.

Keys:
  mailto                 Contact email sent to CrossRef (polite pool)
  unpaywall_email        Email for Unpaywall lookups
  default_format         Output format: bibtex, ris or csl
  cache_ttl_days         Response cache lifetime in days
  cache_disabled         Disable the response cache (true/false)
  journal_abbreviations  Path to a JSON abbreviation table
  zotero_url             Zotero connector import URL
  rows                   Search results to request`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

// mustLoadConfig loads the configuration file, exiting on parse errors.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	value, err := cfg.Get(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if _, err := cfg.Get(args[0]); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	for _, key := range config.Keys() {
		value, _ := cfg.Get(key)
		fmt.Printf("%-22s %s\n", key, value)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.Path())
	return nil
}
