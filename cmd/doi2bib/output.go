package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/clipboard"
	"github.com/biterik/doi2bib/internal/config"
	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/export"
	"github.com/biterik/doi2bib/internal/reference"
)

// Flags shared by the converting commands. Only one command runs per
// invocation, so a single set of variables is enough.
var (
	formatFlag  string
	copyFlag    bool
	noCacheFlag bool
	appendFlag  string
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: bibtex, ris or csl (default from config)")
}

func addCopyFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Also copy the output to the clipboard")
}

func addNoCacheFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Bypass the response cache")
}

func addAppendFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&appendFlag, "append", "a", "", "Append BibTeX entries to this file instead of printing, skipping ones already there")
}

func validFormat(f string) bool {
	switch f {
	case "bibtex", "ris", "csl":
		return true
	}
	return false
}

// resolveFormat picks the output format: the --format flag first, then the
// configured default.
func resolveFormat() string {
	if formatFlag != "" {
		if !validFormat(formatFlag) {
			exitWithError(ExitError, "invalid format %q (valid: bibtex, ris, csl)", formatFlag)
		}
		return formatFlag
	}
	f := config.OutputFormat()
	if !validFormat(f) {
		exitWithError(ExitConfigError, "invalid default_format %q in config (valid: bibtex, ris, csl)", f)
	}
	return f
}

// renderRecords turns records into one output document: BibTeX entries
// separated by blank lines, RIS records back to back, CSL-JSON as a single
// object or an array. The result always ends in exactly one newline.
func renderRecords(recs []reference.Record, format string) (string, error) {
	switch format {
	case "bibtex":
		entries := make([]string, 0, len(recs))
		for _, rec := range recs {
			entries = append(entries, export.ToBibTeX(rec))
		}
		return strings.Join(entries, "\n\n") + "\n", nil
	case "ris":
		var b strings.Builder
		for i, rec := range recs {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(export.ToRIS(rec))
		}
		return b.String(), nil
	case "csl":
		var out string
		var err error
		if len(recs) == 1 {
			out, err = export.ToCSLJSON(recs[0])
		} else {
			out, err = export.ToCSLJSONList(recs)
		}
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

// emitRecords is the single output path of the converting commands:
// append to a bibliography file when --append is set, print otherwise.
func emitRecords(recs []reference.Record, format string) {
	if appendFlag != "" {
		appendRecords(recs, appendFlag)
		return
	}
	out, err := renderRecords(recs, format)
	if err != nil {
		exitWithError(ExitError, "rendering output: %v", err)
	}
	writeOutput(out)
	copyOutput(out)
}

// appendRecords writes entries to the end of a .bib file, skipping records
// whose DOI or citation key is already there.
func appendRecords(recs []reference.Record, path string) {
	if formatFlag != "" && formatFlag != "bibtex" {
		exitWithError(ExitError, "--append writes BibTeX; drop --format %s", formatFlag)
	}

	ix, err := export.LoadBibIndex(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	fresh := make([]reference.Record, 0, len(recs))
	for _, rec := range recs {
		if ix.Contains(rec) {
			log.Infof("%s already in %s, skipping", recordLabel(rec), path)
			continue
		}
		ix.Add(rec)
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		log.Info("nothing new to append")
		return
	}

	out, err := renderRecords(fresh, "bibtex")
	if err != nil {
		exitWithError(ExitError, "rendering output: %v", err)
	}
	if err := export.AppendToBibFile(path, out); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if len(fresh) == 1 {
		log.Infof("appended 1 entry to %s", path)
	} else {
		log.Infof("appended %d entries to %s", len(fresh), path)
	}
}

// recordLabel names a record in log lines: the DOI when it has one, the
// citation key otherwise.
func recordLabel(rec reference.Record) string {
	if rec.DOI != "" {
		return rec.DOI
	}
	return export.CitationKey(rec)
}

// writeOutput prints the citation text. It is the only path that writes
// to stdout in converting commands.
func writeOutput(text string) {
	os.Stdout.WriteString(text)
}

// copyOutput puts the rendered text on the clipboard when --copy is set.
func copyOutput(text string) {
	if !copyFlag {
		return
	}
	if err := clipboard.Copy(text); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	log.Info("copied to clipboard")
}

// exitWithError logs an error to stderr and exits with the given code.
func exitWithError(code int, format string, args ...any) {
	log.Errorf(format, args...)
	os.Exit(code)
}

// exitForFetchError maps a metadata fetch failure to the right exit code.
func exitForFetchError(doi string, err error) {
	var apiErr *crossref.APIError
	switch {
	case crossref.IsNotFound(err):
		exitWithError(ExitDataError, "%v", err)
	case crossref.IsRateLimited(err), crossref.IsNetworkError(err):
		exitWithError(ExitNetworkError, "%v", err)
	case errors.As(err, &apiErr):
		exitWithError(ExitNetworkError, "%v", err)
	}
	exitWithError(ExitError, "%s: %v", doi, err)
}

// exitForSearchError is exitForFetchError for calls without a single DOI.
func exitForSearchError(err error) {
	var apiErr *crossref.APIError
	switch {
	case crossref.IsRateLimited(err), crossref.IsNetworkError(err), errors.As(err, &apiErr):
		exitWithError(ExitNetworkError, "%v", err)
	}
	exitWithError(ExitError, "%v", err)
}
