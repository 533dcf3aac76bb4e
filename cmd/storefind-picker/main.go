// Command storefind-picker opens the interactive search panel on the
// terminal and prints the chosen navigation path to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/storefind/internal/app"
	"github.com/runger/storefind/internal/locale"
	"github.com/runger/storefind/internal/picker"
)

// Version information (set via ldflags during build).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
//
//	0 = navigation chosen (path printed on stdout)
//	1 = cancelled by user
//	2 = picker unavailable (no TTY, bad flags, error)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 256

type pickerOpts struct {
	query    string
	locale   string
	config   string
	catalogs []string
	version  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, returning an exit code.
func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return exitSuccess
		}
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}
	if opts.version {
		printVersion()
		return exitSuccess
	}

	if err := checkTTY(); err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}
	if err := checkTERM(); err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}
	if err := checkTermWidth(); err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}

	a, err := app.Load(app.Options{
		ConfigPath:   opts.config,
		CatalogPaths: opts.catalogs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}
	defer a.Close()

	if err := a.Paths.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: failed to create directories: %v\n", err)
		return exitFallback
	}

	// One panel per user: a second picker would race on the recents list.
	lockFd, err := acquireLock(a.Paths.PickerLockFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}
	defer releaseLock(lockFd)

	return runPicker(a, opts)
}

// parseFlags parses the picker's flags.
func parseFlags(args []string) (*pickerOpts, error) {
	fs := flag.NewFlagSet("storefind-picker", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := &pickerOpts{}
	var catalogs string
	fs.StringVar(&opts.query, "query", "", "initial search query")
	fs.StringVar(&opts.locale, "locale", "", "locale for labels and paths, e.g. fr or fr_FR.UTF-8")
	fs.StringVar(&opts.config, "config", "", "config file")
	fs.StringVar(&catalogs, "catalog", "", "comma-separated catalog files")
	fs.BoolVar(&opts.version, "version", false, "print version information")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: storefind-picker [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	for _, path := range strings.Split(catalogs, ",") {
		if path = strings.TrimSpace(path); path != "" {
			opts.catalogs = append(opts.catalogs, path)
		}
	}

	sanitized, err := sanitizeQuery(opts.query)
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	opts.query = sanitized

	return opts, nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}

	// Strip control characters (0x00-0x1F) except tab (0x09).
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r <= 0x1F && r != 0x09 {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()

	if len(result) > maxQueryLen {
		result = result[:maxQueryLen]
		// Do not leave half a rune at the end.
		result = strings.ToValidUTF8(result, "")
	}

	return result, nil
}

// pickLocale resolves --locale, then $LANG, against the configured locales.
func pickLocale(resolver *locale.Resolver, flagValue string) locale.Locale {
	if flagValue != "" {
		return resolver.Match(flagValue)
	}
	return resolver.Match(os.Getenv("LANG"))
}

// runPicker runs the Bubble Tea panel on /dev/tty.
func runPicker(a *app.App, opts *pickerOpts) int {
	ctx := context.Background()

	corpus, err := a.Catalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: %v\n", err)
		return exitFallback
	}

	loc := pickLocale(a.Locales, opts.locale)
	debugLog("locale %s, %d products", loc, len(corpus))

	model := picker.NewModel(ctx, corpus, a.Recents(ctx), picker.Options{
		Search:       a.Config.SearchOptions(),
		Debounce:     a.Config.Debounce(),
		InitialQuery: opts.query,
		Locale:       loc,
		Logger:       a.Logger,
		Metrics:      a.Metrics,
	})
	defer model.Dispose()

	// stdin/stdout carry data; the TUI talks to the terminal directly.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: cannot open /dev/tty: %v\n", err)
		return exitFallback
	}
	defer tty.Close()

	// When invoked via $(storefind-picker), stdout is a pipe and lipgloss
	// would pick the Ascii profile. Detect from the tty instead.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "storefind-picker: TUI error: %v\n", err)
		return exitFallback
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		fmt.Fprintln(os.Stderr, "storefind-picker: unexpected model type")
		return exitFallback
	}

	if m.Cancelled() {
		return exitCancelled
	}

	nav, ok := m.Result()
	if !ok {
		return exitCancelled
	}
	debugLog("navigate %s %s", nav.Kind, nav.Path)
	fmt.Fprintln(os.Stdout, a.Locales.Localize(nav.Path, loc))

	if os.Getenv("STOREFIND_DEBUG") == "1" {
		snap := a.Metrics.Snapshot()
		debugLog("searches=%v hit_rate=%.2f", snap["storefind_searches_total"], a.Metrics.HitRate())
	}

	return exitSuccess
}

// debugLog logs a message to stderr when STOREFIND_DEBUG=1.
func debugLog(format string, args ...any) {
	if os.Getenv("STOREFIND_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, "storefind-picker: debug: "+format+"\n", args...)
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("storefind-picker %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
}
