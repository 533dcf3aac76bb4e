package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/storefind/internal/config"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set storefind configuration values.

Without arguments, lists every key with its current value.
With one argument, prints that key's value.
With two arguments, validates and saves the new value.

Keys are section.key; sections are search, recents, catalog, locale
and log. The file lives at $XDG_CONFIG_HOME/storefind/config.yaml unless
--config points elsewhere. STOREFIND_* environment overrides are applied
to the values shown.

Examples:
  storefind config                                  # List all keys
  storefind config --json                           # List as a JSON object
  storefind config recents.backend                  # Get a value
  storefind config recents.backend badger           # Switch recents storage
  storefind config search.category_boost interior=2 # Bias a category
  storefind config path                             # Print the config file path`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "list keys as a JSON object")
	rootCmd.AddCommand(configCmd)
}

// configFile returns the file the config command reads and writes.
func configFile(paths *config.Paths) string {
	if configPath != "" {
		return configPath
	}
	return paths.ConfigFile()
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	path := configFile(paths)

	if len(args) == 1 && args[0] == "path" {
		fmt.Println(path)
		return nil
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch len(args) {
	case 0:
		return listConfig(cfg, path)
	case 1:
		return getConfig(cfg, args[0])
	default:
		return setConfig(cfg, paths, path, args[0], args[1])
	}
}

func listConfig(cfg *config.Config, path string) error {
	values := make(map[string]string, len(config.ListKeys()))
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		values[key] = value
	}

	if configJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}

	table := newTable([]string{"Key", "Value"})
	for _, key := range config.ListKeys() {
		value := values[key]
		if value == "" {
			value = colorDim + "(not set)" + colorReset
		}
		table.Append([]string{key, value})
	}
	table.Render()

	fmt.Printf("\n%sConfig file:%s %s\n", colorDim, colorReset, path)
	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s(not set)%s\n", colorDim, colorReset)
		return nil
	}
	fmt.Println(value)
	return nil
}

func setConfig(cfg *config.Config, paths *config.Paths, path, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Data and runtime directories are created alongside the config so a
	// backend switch takes effect on the next run without a failed open.
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := cfg.SaveToFile(path); err != nil {
		return err
	}

	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, value)
	fmt.Printf("Saved to: %s\n", path)
	return nil
}
