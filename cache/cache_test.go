package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func countingLoader(calls *int) Loader {
	return func(path string) (any, error) {
		*calls++
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
}

func TestLoad_ReusesUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(4)
	var calls int
	load := countingLoader(&calls)

	for i := 0; i < 3; i++ {
		v, err := c.Load(path, load)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if v != "v1" {
			t.Fatalf("value = %v, want v1", v)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	if err := os.WriteFile(path, []byte("v2 longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	v, err := c.Load(path, load)
	if err != nil {
		t.Fatalf("Load after rewrite: %v", err)
	}
	if v != "v2 longer" {
		t.Errorf("value = %v, want reloaded content", v)
	}
	if calls != 2 {
		t.Errorf("loader called %d times, want 2", calls)
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 2 || st.Entries != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c := New(4)
	var calls int
	_, err := c.Load(filepath.Join(t.TempDir(), "absent"), countingLoader(&calls))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
	if calls != 0 {
		t.Errorf("loader called for missing file")
	}
}

func TestLoad_LoaderErrorNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(4)
	boom := errors.New("boom")
	if _, err := c.Load(path, func(string) (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Stats().Entries != 0 {
		t.Errorf("failed load was cached")
	}
}

func TestLoad_EvictsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	c := New(2)
	var calls int
	for _, name := range []string{"a", "b", "c"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Load(path, countingLoader(&calls)); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Stats().Entries; got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}
