package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/search"
)

var (
	catalogJSON     bool
	catalogCategory string
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "List catalog products",
	GroupID: groupCore,
	Long: `List the products search runs against.

Products come from the files given with --catalog (or catalog.path),
merged by slug with the first file winning, or from the built-in sample.

Examples:
  storefind catalog                          # Built-in sample
  storefind catalog --catalog products.yaml  # A catalog file
  storefind catalog --category interior      # One category`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var expandCmd = &cobra.Command{
	Use:     "expand <query>",
	Short:   "Show the terms a query expands to",
	GroupID: groupCore,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		fmt.Printf("%snormalized:%s %s\n", colorDim, colorReset, search.Normalize(query))
		for _, term := range search.Expand(query).Slice() {
			fmt.Println(term)
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "output as JSON")
	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "only list this category")
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(expandCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.Catalog()
	if err != nil {
		return err
	}
	entries = filterCategory(entries, catalogCategory)

	if catalogJSON {
		if entries == nil {
			entries = []catalog.Entry{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No products.")
		return nil
	}

	table := newTable([]string{"Slug", "Name", "Category", "Price"})
	for _, e := range entries {
		price := ""
		if e.Price > 0 {
			price = fmt.Sprintf("%.2f", e.Price)
		}
		table.Append([]string{e.Slug, e.Name, e.Category, price})
	}
	table.Render()

	fmt.Printf("\n%d products in %s\n", len(entries), strings.Join(catalog.Categories(entries), ", "))
	return nil
}

func filterCategory(entries []catalog.Entry, category string) []catalog.Entry {
	if category == "" {
		return entries
	}
	var out []catalog.Entry
	for _, e := range entries {
		if strings.EqualFold(e.Category, category) {
			out = append(out, e)
		}
	}
	return out
}
