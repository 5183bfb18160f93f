package prune

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ptxgen/internal/discover"
	"ptxgen/internal/errors"
	"ptxgen/internal/output"
)

func quietWriter() *output.Writer {
	return output.NewWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, false)
}

func populate(t *testing.T, dir string, n int) []string {
	t.Helper()
	files := make([]string, 0, n)
	for i := 0; i < n; i++ {
		sub := dir
		if i%3 == 0 {
			sub = filepath.Join(dir, "nested")
		}
		path := filepath.Join(sub, fmt.Sprintf("kernel_%04d.cu", i))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("// kernel\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}
	return files
}

func TestDeterministic_RemovesLargestNames(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, 510)
	files, err := discover.Sources(dir)
	if err != nil {
		t.Fatal(err)
	}

	plan := Deterministic(files, 500)

	if len(plan.Keep) != 500 || len(plan.Remove) != 10 {
		t.Fatalf("keep=%d remove=%d, want 500/10", len(plan.Keep), len(plan.Remove))
	}
	// Exactly the 10 lexicographically-largest filenames go.
	for i, path := range plan.Remove {
		want := fmt.Sprintf("kernel_%04d.cu", 500+i)
		if filepath.Base(path) != want {
			t.Errorf("Remove[%d] = %s, want %s", i, filepath.Base(path), want)
		}
	}

	res := Execute(dir, plan, quietWriter())
	if res.Removed != 10 || len(res.Failures) != 0 {
		t.Fatalf("removed=%d failures=%d", res.Removed, len(res.Failures))
	}

	remaining, err := Verify(dir, 500)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if remaining != 500 {
		t.Errorf("remaining = %d, want 500", remaining)
	}
}

func TestDeterministic_UnderLimitNoOp(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, 5)
	files, _ := discover.Sources(dir)

	plan := Deterministic(files, 500)

	if len(plan.Remove) != 0 {
		t.Errorf("Remove = %v, want empty", plan.Remove)
	}
	if len(plan.Keep) != 5 {
		t.Errorf("Keep = %d, want 5", len(plan.Keep))
	}
}

func TestSampled_SeedReproducible(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, 1200)
	files, err := discover.Sources(dir)
	if err != nil {
		t.Fatal(err)
	}

	first := Sampled(files, 1000, 42)
	second := Sampled(files, 1000, 42)

	if len(first.Remove) != 200 {
		t.Fatalf("remove=%d, want 200", len(first.Remove))
	}
	if !reflect.DeepEqual(asSet(first.Remove), asSet(second.Remove)) {
		t.Error("same seed produced different removal sets")
	}

	other := Sampled(files, 1000, 7)
	if reflect.DeepEqual(asSet(first.Remove), asSet(other.Remove)) {
		t.Error("different seeds produced identical removal sets")
	}
}

func TestSampled_DoesNotMutateInput(t *testing.T) {
	files := []string{"/d/c.cu", "/d/a.cu", "/d/b.cu"}
	orig := append([]string(nil), files...)

	Sampled(files, 1, 42)

	if !reflect.DeepEqual(files, orig) {
		t.Errorf("input mutated: %v", files)
	}
}

func TestExecute_CollectsDeletionFailures(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, 4)
	files, _ := discover.Sources(dir)

	plan := Deterministic(files, 1)
	// Delete one planned file out from under Execute.
	if err := os.Remove(plan.Remove[0]); err != nil {
		t.Fatal(err)
	}

	res := Execute(dir, plan, quietWriter())

	if res.Removed != 2 {
		t.Errorf("removed=%d, want 2", res.Removed)
	}
	if len(res.Failures) != 1 {
		t.Errorf("failures=%d, want 1 (collected, not fatal)", len(res.Failures))
	}
}

func TestExecute_CleansEmptyDirs(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "deep", "deeper")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(nested, "kernel_only.cu")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	plan := Plan{Remove: []string{path}}
	res := Execute(dir, plan, quietWriter())

	if res.EmptyDirsCut != 2 {
		t.Errorf("EmptyDirsCut = %d, want 2", res.EmptyDirsCut)
	}
	if _, err := os.Stat(filepath.Join(dir, "deep")); !os.IsNotExist(err) {
		t.Error("emptied directory chain still present")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("target directory itself was removed")
	}
}

func TestVerify_Postcondition(t *testing.T) {
	dir := t.TempDir()
	populate(t, dir, 10)

	if _, err := Verify(dir, 20); err != nil {
		t.Errorf("Verify() under limit error: %v", err)
	}

	remaining, err := Verify(dir, 5)
	if err == nil {
		t.Fatal("Verify() over limit succeeded, want postcondition error")
	}
	if remaining != 10 {
		t.Errorf("remaining = %d, want 10", remaining)
	}
	if errors.GetExitCode(err) != errors.ExitRuntimeError {
		t.Errorf("exit code = %d, want %d", errors.GetExitCode(err), errors.ExitRuntimeError)
	}
}

func asSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
