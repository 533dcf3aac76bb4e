package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/storefind/internal/search"
)

var recentsJSON bool

var recentsCmd = &cobra.Command{
	Use:     "recents",
	Short:   "Show or manage recent searches",
	GroupID: groupCore,
	Long: `Show or manage the recent searches list.

The list keeps the most recent searches first, ignores case when removing
duplicates and is bounded by recents.max_entries.

Examples:
  storefind recents              # List recent searches
  storefind recents add "wax"    # Record a search
  storefind recents clear        # Forget all recent searches`,
	Args: cobra.NoArgs,
	RunE: runRecentsList,
}

var recentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent searches, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runRecentsList,
}

var recentsAddCmd = &cobra.Command{
	Use:   "add <term>",
	Short: "Record a search term",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecentsAdd,
}

var recentsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent searches",
	Args:  cobra.NoArgs,
	RunE:  runRecentsClear,
}

func init() {
	recentsCmd.PersistentFlags().BoolVar(&recentsJSON, "json", false, "output as JSON")
	recentsCmd.AddCommand(recentsListCmd, recentsAddCmd, recentsClearCmd)
	rootCmd.AddCommand(recentsCmd)
}

func runRecentsList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list := a.Recents(commandContext(cmd)).List()
	return printRecents(list)
}

func runRecentsAdd(cmd *cobra.Command, args []string) error {
	term := strings.TrimSpace(strings.Join(args, " "))
	if term == "" {
		return fmt.Errorf("term must not be blank")
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	store := a.Recents(ctx)
	store.Commit(ctx, term)
	if store.Degraded() {
		fmt.Fprintf(os.Stderr, "%sWarning:%s recent searches could not be saved\n", colorYellow, colorReset)
	}
	return printRecents(store.List())
}

func runRecentsClear(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	store := a.Recents(ctx)
	store.Clear(ctx)
	if store.Degraded() {
		fmt.Fprintf(os.Stderr, "%sWarning:%s recent searches could not be saved\n", colorYellow, colorReset)
	}
	fmt.Printf("%sRecent searches cleared.%s\n", colorGreen, colorReset)
	return nil
}

func printRecents(list []string) error {
	if recentsJSON {
		if list == nil {
			list = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(list)
	}

	if len(list) == 0 {
		fmt.Println("No recent searches.")
		return nil
	}
	for i, term := range list {
		fmt.Printf("%s%d.%s %s  %s%s%s\n", colorDim, i+1, colorReset, term,
			colorDim, search.SearchPath(term), colorReset)
	}
	return nil
}
