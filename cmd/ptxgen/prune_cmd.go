package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ptxgen/internal/discover"
	"ptxgen/internal/errors"
	"ptxgen/internal/output"
	"ptxgen/internal/prune"
)

// previewLimit caps the keep/remove previews and the deletion-failure listing.
const (
	previewLimit        = 10
	removalFailureLimit = 5
)

// pruneOptions carries the per-run settings shared by limit and sample.
type pruneOptions struct {
	Dir     string
	Limit   int
	DryRun  bool
	Yes     bool
	Sampled bool
	Seed    int64
}

// resolvePruneOptions reads the flags shared by the limit and sample commands.
func resolvePruneOptions(cmd *cobra.Command, args []string, sampled bool) (pruneOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return pruneOptions{}, err
	}

	dir := cfg.InputDir
	if len(args) > 0 {
		dir = args[0]
	}

	f := cmd.Flags()
	limit, err := f.GetInt("limit")
	if err != nil {
		return pruneOptions{}, err
	}
	if limit < 0 {
		return pruneOptions{}, errors.Configf("--limit must be non-negative, got %d", limit)
	}
	dryRun, _ := f.GetBool("dry-run")
	yes, _ := f.GetBool("yes")

	opts := pruneOptions{
		Dir:     dir,
		Limit:   limit,
		DryRun:  dryRun,
		Yes:     yes,
		Sampled: sampled,
	}

	if sampled {
		seed, err := f.GetInt64("seed")
		if err != nil {
			return pruneOptions{}, err
		}
		if !f.Changed("seed") {
			seed = time.Now().UnixNano()
		}
		opts.Seed = seed
	}

	return opts, nil
}

// runPrune executes a pruning run end to end: scan, plan, confirm, delete,
// clean up, verify.
func runPrune(cmd *cobra.Command, opts pruneOptions, out *output.Writer) error {
	if opts.Sampled {
		out.Section("CU File Sampler")
	} else {
		out.Section("CU File Limiter")
	}
	out.SummaryItem("Target directory", opts.Dir)
	out.SummaryItem("File limit", fmt.Sprintf("%d", opts.Limit))
	if opts.Sampled {
		out.SummaryItem("Seed", fmt.Sprintf("%d", opts.Seed))
	}
	if opts.DryRun {
		out.DryRunNotice("DRY RUN - no files will be removed")
	}

	info, err := os.Stat(opts.Dir)
	if err != nil {
		return errors.Preconditionf("directory not found: %s", opts.Dir)
	}
	if !info.IsDir() {
		return errors.Preconditionf("path is not a directory: %s", opts.Dir)
	}

	out.Info("Scanning for .cu files...")
	files, err := discover.Sources(opts.Dir)
	if err != nil {
		return errors.Wrap(err, "scan failed")
	}
	out.Info("Found %d .cu files", len(files))

	if len(files) <= opts.Limit {
		out.Info("Directory has %d files, which is <= %d limit.", len(files), opts.Limit)
		out.Info("No files need to be removed.")
		return nil
	}

	var plan prune.Plan
	if opts.Sampled {
		plan = prune.Sampled(files, opts.Limit, opts.Seed)
		out.Info("Will keep a random sample of %d files (seed %d)", len(plan.Keep), opts.Seed)
	} else {
		plan = prune.Deterministic(files, opts.Limit)
		out.Info("Will keep first %d files (sorted by filename)", len(plan.Keep))
	}
	out.Info("Will remove %d files", len(plan.Remove))

	if out.IsVerbose() {
		printPreview(out, "Files to keep:", opts.Dir, plan.Keep)
		printPreview(out, "Files to remove:", opts.Dir, plan.Remove)
	}

	if opts.DryRun {
		out.DryRunNotice("DRY RUN - no files were actually removed")
		out.Println("Would remove %d files", len(plan.Remove))
		return nil
	}

	if !opts.Yes {
		out.Println("About to permanently delete %d .cu files", len(plan.Remove))
		confirmed, err := confirm(cmd, out)
		if err != nil {
			return errors.Wrap(err, "read confirmation")
		}
		if !confirmed {
			out.Info("Operation cancelled")
			return nil
		}
	}

	out.Info("Removing files...")
	res := prune.Execute(opts.Dir, plan, out)
	out.Info("Cleaning up empty directories...")

	out.Section("Operation Complete")
	out.SummaryItem("Files removed", fmt.Sprintf("%d", res.Removed))
	out.SummaryItem("Files remaining", fmt.Sprintf("%d", len(files)-res.Removed))
	out.SummaryItem("Empty directories removed", fmt.Sprintf("%d", res.EmptyDirsCut))

	if len(res.Failures) > 0 {
		out.Warning("failed to remove %d files:", len(res.Failures))
		for i, f := range res.Failures {
			if i == removalFailureLimit {
				out.Errorln("  ... and %d more failures", len(res.Failures)-removalFailureLimit)
				break
			}
			out.Errorln("  %s: %v", f.Path, f.Err)
		}
	}

	remaining, err := prune.Verify(opts.Dir, opts.Limit)
	if err != nil {
		return err
	}
	out.Success("Verification: %d .cu files now in directory (limit %d)", remaining, opts.Limit)
	return nil
}

// confirm prompts for the destructive-deletion confirmation on the command's
// input stream.
func confirm(cmd *cobra.Command, out *output.Writer) (bool, error) {
	out.Print("Continue? (y/N): ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		// EOF with no input counts as "no".
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printPreview(out *output.Writer, header, dir string, paths []string) {
	out.Println("%s", header)
	for i, path := range paths {
		if i == previewLimit {
			out.Println("  ... and %d more", len(paths)-previewLimit)
			break
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		out.Println("  %3d: %s", i+1, rel)
	}
}
