package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/runger/storefind/internal/app"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

var (
	configPath   string
	catalogPaths []string
)

var rootCmd = &cobra.Command{
	Use:   "storefind",
	Short: "bilingual product search for the storefront catalog",
	Long: `storefind - bilingual (EN/FR) catalog search
  - search the catalog with synonym expansion ("parfum" finds air fresheners)
  - keep recent searches across runs`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Search:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/storefind/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&catalogPaths, "catalog", nil, "catalog file(s), YAML or JSON; merged by slug")

	rootCmd.AddCommand(versionCmd)
}

// loadApp builds the shared collaborators from the persistent flags.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	return app.Load(app.Options{
		ConfigPath:   configPath,
		CatalogPaths: catalogPaths,
		LogOutput:    cmd.ErrOrStderr(),
	})
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
