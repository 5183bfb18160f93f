// Package prune caps the number of generated source files in a directory,
// either by deterministic truncation or by seeded random sampling.
package prune

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"ptxgen/internal/discover"
	"ptxgen/internal/errors"
	"ptxgen/internal/output"
)

// progressInterval is how many removals trigger a progress line in
// non-verbose mode.
const progressInterval = 100

// Plan is the keep/remove split over a directory's source files.
type Plan struct {
	Keep   []string
	Remove []string
}

// Total returns the number of files covered by the plan.
func (p Plan) Total() int {
	return len(p.Keep) + len(p.Remove)
}

// Deterministic keeps the first limit files sorted by filename and marks the
// rest for removal. Files already within the limit yield an empty Remove
// list.
func Deterministic(files []string, limit int) Plan {
	ordered := sortByName(files)
	return split(ordered, limit)
}

// Sampled keeps a random limit-sized sample, reproducible for a given seed.
// The candidate list is name-sorted first so that identical directory
// contents plus an identical seed always select the identical removal set.
func Sampled(files []string, limit int, seed int64) Plan {
	ordered := sortByName(files)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	return split(ordered, limit)
}

func split(ordered []string, limit int) Plan {
	if limit < 0 {
		limit = 0
	}
	if len(ordered) <= limit {
		return Plan{Keep: ordered}
	}
	return Plan{Keep: ordered[:limit], Remove: ordered[limit:]}
}

// sortByName orders by filename, full path as tiebreaker. The input slice is
// not modified.
func sortByName(files []string) []string {
	ordered := make([]string, len(files))
	copy(ordered, files)
	sort.Slice(ordered, func(i, j int) bool {
		ni, nj := filepath.Base(ordered[i]), filepath.Base(ordered[j])
		if ni != nj {
			return ni < nj
		}
		return ordered[i] < ordered[j]
	})
	return ordered
}

// RemovalFailure records one file that could not be deleted.
type RemovalFailure struct {
	Path string
	Err  error
}

// Result summarizes an executed plan.
type Result struct {
	Removed      int
	Failures     []RemovalFailure
	EmptyDirsCut int
}

// Execute deletes the plan's removal set. Individual deletion failures are
// collected, not fatal. Empty directories left behind are removed bottom-up.
func Execute(dir string, plan Plan, out *output.Writer) Result {
	var res Result

	for _, path := range plan.Remove {
		if err := os.Remove(path); err != nil {
			res.Failures = append(res.Failures, RemovalFailure{Path: path, Err: err})
			if out.IsVerbose() {
				out.Println("  Failed to remove: %s - %v", relTo(dir, path), err)
			}
			continue
		}
		res.Removed++

		if out.IsVerbose() {
			out.Println("  Removed: %s", relTo(dir, path))
		} else if res.Removed%progressInterval == 0 {
			out.Info("  Progress: %d/%d files removed", res.Removed, len(plan.Remove))
		}
	}

	res.EmptyDirsCut = removeEmptyDirs(dir, out)
	return res
}

// removeEmptyDirs walks bottom-up and removes directories left empty by the
// deletions. The target directory itself is never removed.
func removeEmptyDirs(dir string, out *output.Writer) int {
	var dirs []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree: nothing to clean there
		}
		if d.IsDir() && path != dir {
			dirs = append(dirs, path)
		}
		return nil
	})

	// Deepest first, so emptied parents become removable in the same pass.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, d := range dirs {
		entries, err := os.ReadDir(d)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(d); err != nil {
			continue
		}
		removed++
		out.Verbose("  Removed empty directory: %s", relTo(dir, d))
	}
	return removed
}

// Verify recounts the directory's source files and checks the postcondition.
func Verify(dir string, limit int) (int, error) {
	remaining, err := discover.Sources(dir)
	if err != nil {
		return 0, errors.Wrap(err, "verification recount failed")
	}
	if len(remaining) > limit {
		return len(remaining), errors.Postconditionf(
			"directory still has %d files, more than the %d limit", len(remaining), limit)
	}
	return len(remaining), nil
}

func relTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
