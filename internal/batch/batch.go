// Package batch orchestrates compiler invocations over a unit list, either
// sequentially or via a bounded worker pool.
package batch

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"ptxgen/internal/compiler"
	"ptxgen/internal/output"
)

const (
	// progressInterval is how many completed units trigger a progress line.
	progressInterval = 100

	// maxReportedFailures caps the failure listing; the rest are summarized.
	maxReportedFailures = 10

	// diagnosticDisplayLimit truncates diagnostics for display. The stored
	// diagnostic is never truncated.
	diagnosticDisplayLimit = 80

	// minWorkers prevents a zero-sized pool when CPU detection fails in
	// containerized environments.
	minWorkers = 1

	// maxWorkers caps the pool; compilation is CPU-bound and a child process
	// per worker makes larger pools counterproductive.
	maxWorkers = 256
)

// titleCase renders outcome tags for verbose per-unit lines.
var titleCase = cases.Title(language.English)

// Options configures execution behavior for one batch.
type Options struct {
	Parallel bool
	Workers  int // 0 means host parallelism
}

// Failure records one non-success unit with its full diagnostic.
type Failure struct {
	Unit       string
	Diagnostic string
}

// Summary aggregates one architecture's batch. Counts are commutative over
// completion order; only the display order of Failures may vary run-to-run
// in parallel mode.
type Summary struct {
	Success  int
	Failed   int
	Failures []Failure
	Elapsed  time.Duration
}

// Total returns the number of processed units.
func (s Summary) Total() int {
	return s.Success + s.Failed
}

// Accumulate folds another summary into this one (for cross-architecture
// grand totals).
func (s *Summary) Accumulate(other Summary) {
	s.Success += other.Success
	s.Failed += other.Failed
	s.Elapsed += other.Elapsed
	s.Failures = append(s.Failures, other.Failures...)
}

// Runner executes batches against one Invoker.
type Runner struct {
	inv *compiler.Invoker
	out *output.Writer
}

// New creates a Runner.
func New(inv *compiler.Invoker, out *output.Writer) *Runner {
	return &Runner{inv: inv, out: out}
}

// Run processes every unit and returns the aggregate summary. A unit's
// failure, timeout, or exception never stops the batch.
func (r *Runner) Run(ctx context.Context, units []string, opts Options) Summary {
	if len(units) == 0 {
		return Summary{}
	}

	workers := Workers(opts.Workers)
	if opts.Parallel && workers > 1 {
		return r.runParallel(ctx, units, workers)
	}
	return r.runSerial(ctx, units)
}

// runSerial processes units one at a time, in discovery order.
func (r *Runner) runSerial(ctx context.Context, units []string) Summary {
	var s Summary
	start := time.Now()

	for i, cu := range units {
		res := r.inv.Compile(ctx, cu)
		r.record(&s, res, i+1)

		if done := i + 1; done%progressInterval == 0 {
			r.out.Info("Progress: %d/%d (%d successful)", done, len(units), s.Success)
		}
	}

	s.Elapsed = time.Since(start)
	return s
}

// runParallel submits every unit to a bounded pool at once and collects
// results in completion order. Aggregation is commutative, so the final
// counts are identical regardless of scheduling.
func (r *Runner) runParallel(ctx context.Context, units []string, workers int) Summary {
	var (
		mu        sync.Mutex
		s         Summary
		completed int
	)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(min(workers, len(units)))

	for i, cu := range units {
		i, cu := i, cu
		g.Go(func() error {
			res := r.inv.Compile(ctx, cu)

			mu.Lock()
			defer mu.Unlock()
			r.record(&s, res, i+1)
			completed++
			if completed%progressInterval == 0 {
				r.progress(completed, len(units), s.Success, time.Since(start))
			}
			// Compile folds all failure modes into the result; nothing here
			// may cancel or block the remaining units.
			return nil
		})
	}

	// Workers only ever return nil.
	_ = g.Wait()

	s.Elapsed = time.Since(start)
	return s
}

// record updates counts and emits the verbose per-unit line. Callers in
// parallel mode hold the aggregation lock.
func (r *Runner) record(s *Summary, res compiler.Result, jobID int) {
	if res.Success() {
		s.Success++
		r.out.Verbose("[%4d] + Success: %s", jobID, filepath.Base(res.Unit))
		return
	}
	s.Failed++
	s.Failures = append(s.Failures, Failure{Unit: res.Unit, Diagnostic: res.Diagnostic})
	r.out.Verbose("[%4d] x %s: %s", jobID, titleCase.String(res.Outcome.String()), res.Unit)
}

// progress emits the parallel progress line with measured throughput and a
// projected time to completion.
func (r *Runner) progress(completed, total, success int, elapsed time.Duration) {
	rate := float64(completed) / elapsed.Seconds()
	var etaMin float64
	if rate > 0 {
		etaMin = float64(total-completed) / rate / 60
	}
	r.out.Info("Progress: %d/%d (%d successful) - %.1f files/sec - ETA: %.1fmin",
		completed, total, success, rate, etaMin)
}

// Report prints the per-architecture summary line and, in verbose mode, the
// first failures with truncated diagnostics.
func (r *Runner) Report(arch string, s Summary) {
	r.out.Println("SM%s Summary: %d successful, %d failed out of %d files",
		arch, s.Success, s.Failed, s.Total())

	if len(s.Failures) == 0 || !r.out.IsVerbose() {
		return
	}

	r.out.Println("Failed files:")
	for i, f := range s.Failures {
		if i == maxReportedFailures {
			r.out.Println("  ... and %d more", len(s.Failures)-maxReportedFailures)
			break
		}
		r.out.Println("  %s: %s", f.Unit, Truncate(f.Diagnostic, diagnosticDisplayLimit))
	}
}

// Workers normalizes a requested worker count: non-positive means host
// parallelism, and the result is clamped to [minWorkers, maxWorkers].
func Workers(requested int) int {
	if requested <= 0 {
		requested = runtime.NumCPU()
	}
	if requested < minWorkers {
		return minWorkers
	}
	if requested > maxWorkers {
		return maxWorkers
	}
	return requested
}

// Truncate shortens a diagnostic for display.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
