package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/stream"
	"github.com/spf13/cobra"

	"github.com/biterik/doi2bib/internal/cache"
	"github.com/biterik/doi2bib/internal/cite"
	"github.com/biterik/doi2bib/internal/crossref"
	"github.com/biterik/doi2bib/internal/reference"
)

var batchWorkers int

func init() {
	addFormatFlag(batchCmd)
	addNoCacheFlag(batchCmd)
	addAppendFlag(batchCmd)
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "Concurrent lookups")
	rootCmd.AddCommand(batchCmd)
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Convert a file of DOIs or citations",
	Long: `Convert references listed one per line in a file; use - for stdin.

Each line may be a DOI (bare, doi:-prefixed or URL) or a free-text
citation, which is searched and resolved to its best match. Blank lines
and lines starting with # are skipped. Lookups run concurrently; output
keeps the input order, and failed lines are reported on stderr.

Examples:
  doi2bib batch refs.txt > refs.bib
  doi2bib batch --append refs.bib refs.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// batchLine is one convertible input line with its original line number.
type batchLine struct {
	num  int
	text string
}

// readBatchLines collects the convertible lines, dropping blanks and #
// comments while keeping line numbers for error reporting.
func readBatchLines(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, batchLine{num: num, text: text})
	}
	return lines, scanner.Err()
}

var doiLikePattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// looksLikeDOI reports whether an input line is a DOI rather than a
// citation to search for.
func looksLikeDOI(line string) bool {
	return doiLikePattern.MatchString(crossref.CleanDOI(line))
}

func runBatch(cmd *cobra.Command, args []string) error {
	outFormat := resolveFormat()

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		defer f.Close()
		in = f
	}

	lines, err := readBatchLines(in)
	if err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}
	if len(lines) == 0 {
		exitWithError(ExitDataError, "no references in input")
	}

	client := newCrossRefClient()
	store := openCache()
	defer closeCache(store)
	parser := newCiteParser()
	ctx := context.Background()

	recs := make([]reference.Record, 0, len(lines))
	failed := 0

	// Callbacks run sequentially in submission order, so the appends below
	// need no locking and the output keeps the input order.
	s := stream.New().WithMaxGoroutines(batchWorkers)
	for _, line := range lines {
		line := line
		s.Go(func() stream.Callback {
			rec, err := resolveLine(ctx, client, store, parser, line.text)
			return func() {
				logger := log.WithPrefix(fmt.Sprintf("line %d", line.num))
				if err != nil {
					failed++
					logger.Errorf("%v", err)
					return
				}
				logger.Debugf("resolved %s", rec.DOI)
				recs = append(recs, rec)
			}
		})
	}
	s.Wait()

	if len(recs) > 0 {
		emitRecords(recs, outFormat)
	}
	if failed > 0 {
		log.Warnf("%d of %d references failed", failed, len(lines))
		os.Exit(ExitError)
	}
	return nil
}

// resolveLine turns one input line into a record: DOI lines are fetched
// directly, anything else goes through citation search taking the best
// match.
func resolveLine(ctx context.Context, client *crossref.Client, store *cache.Store, parser *cite.Parser, text string) (reference.Record, error) {
	if looksLikeDOI(text) {
		return fetchRecord(ctx, client, store, text, noCacheFlag)
	}

	parsed := parser.Parse(text)
	recs, err := client.Search(ctx, buildSearchQuery(parsed))
	if err != nil {
		return reference.Record{}, err
	}
	if len(recs) == 0 {
		return reference.Record{}, fmt.Errorf("no matches for %q", parsed.Query)
	}
	return recs[0], nil
}
