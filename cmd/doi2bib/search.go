package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/cite"
	"github.com/biterik/doi2bib/internal/config"
	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/format"
	"github.com/biterik/doi2bib/internal/reference"
)

var (
	searchShort bool
	searchFirst bool
	searchRows  int
)

func init() {
	addFormatFlag(searchCmd)
	addCopyFlag(searchCmd)
	addAppendFlag(searchCmd)
	searchCmd.Flags().BoolVar(&searchShort, "short", false, "Compact result list")
	searchCmd.Flags().BoolVar(&searchFirst, "first", false, "Take the best match without prompting")
	searchCmd.Flags().IntVar(&searchRows, "rows", 0, "Number of results to request (default from config)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <citation text>",
	Short: "Find a reference from a free-text citation",
	Long: `Parse a pasted citation, search CrossRef with the recognized
fragments, and convert the chosen match.

The recognized author, year, journal and title are echoed to stderr.
A single hit converts immediately; otherwise a numbered list appears and
a selection is read from stdin (q cancels). --first skips the prompt.

Examples:
  doi2bib search "G. Thomas and M. J. Whelan, Phil. Mag. 4, 511 (1959)"
  doi2bib search --first "Hirsch, Electron microscopy of thin crystals, 1965"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	outFormat := resolveFormat()
	text := strings.Join(args, " ")

	parsed := newCiteParser().Parse(text)
	logParsed(parsed)

	q := buildSearchQuery(parsed)
	if searchRows > 0 {
		q.Rows = searchRows
	}

	client := newCrossRefClient()
	ctx := context.Background()

	log.Info("searching CrossRef")
	recs, err := client.Search(ctx, q)
	if err != nil {
		exitForSearchError(err)
	}
	if len(recs) == 0 {
		exitWithError(ExitDataError, "no matches for %q", parsed.Query)
	}

	var rec reference.Record
	switch {
	case len(recs) == 1, searchFirst:
		rec = recs[0]
		log.Infof("match: %s", format.Long(rec))
	default:
		idx, ok := chooseRecord(recs)
		if !ok {
			log.Info("cancelled")
			return nil
		}
		rec = recs[idx]
	}

	emitRecords([]reference.Record{rec}, outFormat)
	return nil
}

// logParsed echoes the recognized citation fragments to stderr.
func logParsed(p cite.Parsed) {
	if p.Authors != "" {
		log.Infof("authors: %s", p.Authors)
	}
	if p.Year != "" {
		log.Infof("year: %s", p.Year)
	}
	if p.Journal != "" {
		log.Infof("journal: %s", p.Journal)
	}
	if p.Title != "" {
		log.Infof("title: %s", p.Title)
	}
	if p.Volume != "" {
		log.Debugf("volume %s, page %s", p.Volume, p.Page)
	}
}

// buildSearchQuery maps parsed fragments onto CrossRef search parameters.
// The raw text serves as the free-text query only when neither an author
// nor a title was recognized.
func buildSearchQuery(p cite.Parsed) crossref.SearchQuery {
	q := crossref.SearchQuery{
		Author:  p.Authors,
		Title:   p.Title,
		Journal: p.Journal,
		Year:    p.Year,
		Rows:    config.SearchRows(),
	}
	if p.Authors == "" && p.Title == "" {
		q.Query = p.Query
	}
	return q
}

// chooseRecord prints a numbered result list on stderr and reads a
// selection from stdin. The boolean is false when the user cancels.
func chooseRecord(recs []reference.Record) (int, bool) {
	for i, rec := range recs {
		if searchShort {
			fmt.Fprintln(os.Stderr, format.Short(i+1, rec))
		} else {
			fmt.Fprintf(os.Stderr, "%2d. %s\n", i+1, format.Long(rec))
		}
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprintf(os.Stderr, "Select 1-%d (q to cancel): ", len(recs))
		line, err := reader.ReadString('\n')
		if err != nil {
			// stdin closed: treat like a cancel
			fmt.Fprintln(os.Stderr)
			return 0, false
		}
		idx, quit, err := parseSelection(line, len(recs))
		if err != nil {
			log.Warnf("%v", err)
			continue
		}
		if quit {
			return 0, false
		}
		return idx, true
	}
}

// parseSelection interprets one line of selection input: a 1-based index
// within range, or q/quit/empty to cancel.
func parseSelection(line string, max int) (idx int, quit bool, err error) {
	s := strings.ToLower(strings.TrimSpace(line))
	switch s {
	case "", "q", "quit":
		return 0, true, nil
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil {
		return 0, false, fmt.Errorf("enter a number between 1 and %d, or q", max)
	}
	if n < 1 || n > max {
		return 0, false, fmt.Errorf("selection %d out of range 1-%d", n, max)
	}
	return n - 1, false, nil
}
