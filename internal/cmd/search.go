package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/storefind/internal/config"
	"github.com/runger/storefind/internal/locale"
	"github.com/runger/storefind/internal/search"
)

var (
	searchJSON   bool
	searchLimit  int
	searchBoost  string
	searchLocale string
	searchRecord bool
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search the product catalog",
	GroupID: groupCore,
	Long: `Search the product catalog.

The query is normalized (case and accents folded), expanded with English
and French synonyms, and every product is scored against the expansion.
Results are ordered by score, then by name.

Examples:
  storefind search wipes                       # Products matching "wipes"
  storefind search parfum --locale fr          # French synonyms, /fr paths
  storefind search wax --boost exterior=5      # Bias one category
  storefind search --json "snow foam"          # Output as JSON
  STOREFIND_DEBUG=1 storefind search wax       # Log ranking and metrics to stderr`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default search.max_results)")
	searchCmd.Flags().StringVar(&searchBoost, "boost", "", "category boosts, e.g. interior=2,exterior=-1")
	searchCmd.Flags().StringVar(&searchLocale, "locale", "", "locale for result paths (default locale.default)")
	searchCmd.Flags().BoolVar(&searchRecord, "record", false, "add the query to recent searches")
	searchCmd.Flags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(searchCmd)
}

const wideTableWidth = 100

type searchOutput struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
	Path     string   `json:"path"`
}

type searchResponse struct {
	Query      string         `json:"query"`
	Locale     string         `json:"locale"`
	SearchPath string         `json:"search_path"`
	Results    []searchOutput `json:"results"`
	Total      int            `json:"total"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyColorMode()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	corpus, err := a.Catalog()
	if err != nil {
		return err
	}

	opts := a.Config.SearchOptions()
	if searchLimit < 0 {
		return fmt.Errorf("--limit must be a positive integer")
	}
	if searchLimit > 0 {
		opts.Limit = searchLimit
	}
	if searchBoost != "" {
		boost, err := config.ParseBoost(searchBoost)
		if err != nil {
			return fmt.Errorf("--boost: %w", err)
		}
		if opts.CategoryBoost == nil {
			opts.CategoryBoost = boost
		} else {
			maps.Copy(opts.CategoryBoost, boost)
		}
	}

	loc := a.Locales.Default()
	if searchLocale != "" {
		loc = a.Locales.Match(searchLocale)
	}

	query := strings.Join(args, " ")
	results := search.Rank(corpus, query, opts)
	a.Metrics.ObserveSearch(len(results))
	a.Logger.Debug("search", "query", query, "results", len(results), "locale", loc)

	if searchRecord {
		ctx := commandContext(cmd)
		a.Recents(ctx).Commit(ctx, query)
	}

	if searchJSON {
		return writeSearchJSON(query, loc, a.Locales, results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	// Matched terms are the widest column; narrow terminals skip them.
	wide := termWidth() >= wideTableWidth
	header := []string{"#", "Score", "Name", "Category", "Path"}
	if wide {
		header = append(header, "Matched")
	}
	table := newTable(header)
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Score),
			r.Entry.Name,
			r.Entry.Category,
			a.Locales.Localize(r.Entry.Path(), loc),
		}
		if wide {
			row = append(row, strings.Join(r.Reasons, ", "))
		}
		table.Append(row)
	}
	table.Render()

	fmt.Printf("\n%sAll results:%s %s\n", colorDim, colorReset,
		a.Locales.Localize(search.SearchPath(strings.TrimSpace(query)), loc))
	return nil
}

func writeSearchJSON(query string, loc locale.Locale, resolver *locale.Resolver, results []search.Result) error {
	output := make([]searchOutput, len(results))
	for i, r := range results {
		reasons := r.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		output[i] = searchOutput{
			Slug:     r.Entry.Slug,
			Name:     r.Entry.Name,
			Category: r.Entry.Category,
			Score:    r.Score,
			Reasons:  reasons,
			Path:     resolver.Localize(r.Entry.Path(), loc),
		}
	}

	resp := searchResponse{
		Query:      query,
		Locale:     string(loc),
		SearchPath: resolver.Localize(search.SearchPath(strings.TrimSpace(query)), loc),
		Results:    output,
		Total:      len(output),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}
