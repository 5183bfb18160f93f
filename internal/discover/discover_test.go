package discover

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSources_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.cu"))
	touch(t, filepath.Join(dir, "a.cu"))
	touch(t, filepath.Join(dir, "sub", "deep", "c.cu"))
	touch(t, filepath.Join(dir, "sub", "readme.txt"))
	touch(t, filepath.Join(dir, "notes.cuh"))

	files, err := Sources(dir)
	if err != nil {
		t.Fatalf("Sources() error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("Sources() returned %d files, want 3: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".cu" {
			t.Errorf("unexpected extension in %q", f)
		}
		if !filepath.IsAbs(f) {
			t.Errorf("path %q is not absolute", f)
		}
	}
}

func TestSources_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.cu", "m.cu", "a.cu"} {
		touch(t, filepath.Join(dir, name))
	}

	files, err := Sources(dir)
	if err != nil {
		t.Fatalf("Sources() error: %v", err)
	}

	if !sort.StringsAreSorted(files) {
		t.Errorf("Sources() not sorted: %v", files)
	}
}

func TestSources_EmptyDir(t *testing.T) {
	files, err := Sources(t.TempDir())
	if err != nil {
		t.Fatalf("Sources() on empty dir error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Sources() on empty dir = %v, want empty", files)
	}
}

func TestSources_MissingDir(t *testing.T) {
	_, err := Sources(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("Sources() on missing dir returned nil error")
	}
}
