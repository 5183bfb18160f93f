// Package compiler invokes the external CUDA compiler on single compilation
// units and classifies the outcome.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// OutputExt is the extension of the generated assembly output.
const OutputExt = ".ptx"

// SourceExt is the extension of compilation unit sources.
const SourceExt = ".cu"

// Outcome classifies one compiler invocation.
type Outcome int

const (
	// OutcomeSuccess: the compiler exited zero and the output file exists.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure: the compiler exited nonzero.
	OutcomeFailure
	// OutcomeTimeout: the invocation exceeded the wall-clock timeout and the
	// child was killed.
	OutcomeTimeout
	// OutcomeException: the invocation itself failed (missing executable,
	// I/O error) before an exit status could be observed.
	OutcomeException
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeException:
		return "exception"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of compiling one unit. Diagnostic holds the full
// untruncated text; display-time truncation is the reporter's concern.
type Result struct {
	Outcome    Outcome
	Unit       string // Path relative to the input root (or the fallback id)
	Diagnostic string
	Duration   time.Duration
}

// Success reports whether the unit compiled cleanly.
func (r Result) Success() bool {
	return r.Outcome == OutcomeSuccess
}

// Invoker compiles single units against a fixed flag set. A value is
// read-only once constructed and safe for concurrent use by pool workers.
type Invoker struct {
	NVCC       string
	Flags      []string
	Includes   []string
	InputRoot  string
	OutputRoot string
	Timeout    time.Duration
}

// Compile translates one .cu file to .ptx. It never returns an error: every
// failure mode is folded into the Result so that batch aggregation needs no
// error handling of its own.
func (inv *Invoker) Compile(ctx context.Context, cuFile string) Result {
	unit := relativeUnit(inv.InputRoot, cuFile)
	outFile := filepath.Join(inv.OutputRoot, withOutputExt(unit))

	// Workers race to create shared parent directories; MkdirAll treats an
	// existing directory as success.
	if err := os.MkdirAll(filepath.Dir(outFile), 0o755); err != nil {
		return Result{
			Outcome:    OutcomeException,
			Unit:       unit,
			Diagnostic: fmt.Sprintf("create output directory: %v", err),
		}
	}

	cctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	args := make([]string, 0, len(inv.Flags)+len(inv.Includes)+4)
	args = append(args, "-ptx", cuFile)
	args = append(args, inv.Flags...)
	args = append(args, inv.Includes...)
	args = append(args, "-o", outFile)

	cmd := exec.CommandContext(cctx, inv.NVCC, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// A killed nvcc can leave grandchildren holding the output pipes open;
	// don't let Wait block on them past the kill.
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	switch {
	case err == nil:
		return Result{Outcome: OutcomeSuccess, Unit: unit, Duration: elapsed}

	case cctx.Err() == context.DeadlineExceeded:
		return Result{
			Outcome:    OutcomeTimeout,
			Unit:       unit,
			Diagnostic: "compilation timeout",
			Duration:   elapsed,
		}

	default:
		if _, ok := err.(*exec.ExitError); ok {
			return Result{
				Outcome:    OutcomeFailure,
				Unit:       unit,
				Diagnostic: strings.TrimSpace(stderr.String()),
				Duration:   elapsed,
			}
		}
		return Result{
			Outcome:    OutcomeException,
			Unit:       unit,
			Diagnostic: err.Error(),
			Duration:   elapsed,
		}
	}
}

// relativeUnit computes the unit's identifier relative to the input root.
// Units outside the root fall back to their last two path components, or the
// bare filename; collisions between such fallback ids are an accepted
// limitation.
func relativeUnit(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil &&
		rel != "." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".." {
		return rel
	}

	parts := strings.Split(filepath.ToSlash(path), "/")
	// Drop empty leading segment from absolute paths.
	clean := parts[:0]
	for _, p := range parts {
		if p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) >= 2 {
		return filepath.Join(clean[len(clean)-2], clean[len(clean)-1])
	}
	if len(clean) == 1 {
		return clean[0]
	}
	return path
}

// withOutputExt swaps the source extension for the output extension,
// preserving the relative directory structure.
func withOutputExt(unit string) string {
	return strings.TrimSuffix(unit, SourceExt) + OutputExt
}
