package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backends opens one store per backend in a fresh temp dir.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqlite, err := NewSQLiteStore(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	badgerStore, err := OpenBadgerStore("", true, discardLogger())
	if err != nil {
		t.Fatalf("OpenBadgerStore() error = %v", err)
	}
	file, err := NewFileStore(filepath.Join(dir, "recents.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	stores := map[string]Store{
		BackendSQLite: sqlite,
		BackendBadger: badgerStore,
		BackendFile:   file,
		BackendMemory: NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := store.Set(ctx, "recent", `["wax"]`); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := store.Get(ctx, "recent")
			if err != nil || got != `["wax"]` {
				t.Errorf("Get() = %q, %v", got, err)
			}

			if err := store.Set(ctx, "recent", `["foam","wax"]`); err != nil {
				t.Fatalf("overwrite Set() error = %v", err)
			}
			if got, _ := store.Get(ctx, "recent"); got != `["foam","wax"]` {
				t.Errorf("Get() after overwrite = %q", got)
			}

			if err := store.Set(ctx, "empty", ""); err != nil {
				t.Fatalf("Set(empty value) error = %v", err)
			}
			if got, err := store.Get(ctx, "empty"); err != nil || got != "" {
				t.Errorf("Get(empty) = %q, %v", got, err)
			}

			if err := store.Set(ctx, "", "v"); err == nil {
				t.Error("Set() with empty key should fail")
			}

			if err := store.Delete(ctx, "recent"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, "recent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, "never-set"); err != nil {
				t.Errorf("Delete(missing) error = %v", err)
			}
		})
	}
}

func TestStore_UnicodeValues(t *testing.T) {
	ctx := context.Background()
	value := `["désodorisant","pare-brise","日本"]`
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, "k", value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got, _ := store.Get(ctx, "k"); got != value {
				t.Errorf("Get() = %q, want %q", got, value)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
	}{
		{BackendSQLite, filepath.Join(dir, "state.db")},
		{"", filepath.Join(dir, "default.db")},
		{"SQLite", filepath.Join(dir, "upper.db")},
		{BackendBadger, filepath.Join(dir, "recents.badger")},
		{BackendFile, filepath.Join(dir, "recents.json")},
		{BackendMemory, ""},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			store, err := Open(tt.backend, tt.path, discardLogger())
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.backend, err)
			}
			defer store.Close()

			if err := store.Set(context.Background(), "k", "v"); err != nil {
				t.Errorf("Set() error = %v", err)
			}
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("postgres", "", nil)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	for _, name := range Backends() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should list backend %q", err, name)
		}
	}
}

func TestOpen_Persists(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{BackendSQLite, BackendBadger, BackendFile} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "store")

			store, err := Open(backend, path, discardLogger())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if err := store.Set(ctx, "k", "kept"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			reopened, err := Open(backend, path, discardLogger())
			if err != nil {
				t.Fatalf("reopen error = %v", err)
			}
			defer reopened.Close()
			if got, err := reopened.Get(ctx, "k"); err != nil || got != "kept" {
				t.Errorf("Get() after reopen = %q, %v", got, err)
			}
		})
	}
}

func TestOpenBadgerStore_RequiresDir(t *testing.T) {
	if _, err := OpenBadgerStore("", false, nil); err == nil {
		t.Error("expected error for empty badger directory")
	}
}

func TestFileStore_RequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recents.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, err := store.Get(ctx, "k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on corrupt file error = %v, want parse error", err)
	}

	// Writes replace the corrupt file.
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, err := store.Get(ctx, "k"); err != nil || got != "v" {
		t.Errorf("Get() after repair = %q, %v", got, err)
	}
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recents.json")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	store, _ := NewFileStore(path)
	if _, err := store.Get(context.Background(), "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty file error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recents.json")
	a, _ := NewFileStore(path)
	b, _ := NewFileStore(path)

	if err := a.Set(ctx, "k", "from-a"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := b.Get(ctx, "k"); got != "from-a" {
		t.Errorf("second instance Get() = %q, want from-a", got)
	}

	// No temp files are left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}
