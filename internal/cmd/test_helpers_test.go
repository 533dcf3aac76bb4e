package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

type searchGlobals struct {
	json   bool
	limit  int
	boost  string
	locale string
	record bool
}

func withSearchGlobals(t *testing.T, g searchGlobals) {
	t.Helper()
	old := searchGlobals{
		json:   searchJSON,
		limit:  searchLimit,
		boost:  searchBoost,
		locale: searchLocale,
		record: searchRecord,
	}
	searchJSON = g.json
	searchLimit = g.limit
	searchBoost = g.boost
	searchLocale = g.locale
	searchRecord = g.record

	t.Cleanup(func() {
		searchJSON = old.json
		searchLimit = old.limit
		searchBoost = old.boost
		searchLocale = old.locale
		searchRecord = old.record
	})
}

// setupTestEnv points config and data directories at a temp dir and
// resets the persistent flags.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(dir, "run"))
	t.Setenv("STOREFIND_DEBUG", "")
	t.Setenv("STOREFIND_RECENTS_BACKEND", "")
	t.Setenv("STOREFIND_CATALOG", "")
	t.Setenv("STOREFIND_LOCALE", "")
	t.Setenv("NO_COLOR", "1")

	oldConfig, oldCatalogs, oldColor := configPath, catalogPaths, colorMode
	configPath, catalogPaths, colorMode = "", nil, "never"
	disableColors()
	t.Cleanup(func() {
		configPath, catalogPaths, colorMode = oldConfig, oldCatalogs, oldColor
	})
	return dir
}

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetErr(io.Discard)
	return cmd
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}
