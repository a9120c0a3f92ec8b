// Package checkrunner executes independent check jobs on a bounded pool of
// goroutines and collects their findings in job order.
package checkrunner

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/ports"
)

// Result holds every finding in job order. Skipped names the jobs that did not
// finish; their findings are UNKNOWN placeholders.
type Result struct {
	Findings []domain.Finding
	Skipped  []string
}

// Partial reports whether any job failed to finish.
func (r Result) Partial() bool { return len(r.Skipped) > 0 }

// Run executes jobs with at most concurrency running at once. It returns once
// every started job has returned; cancelling ctx stops new jobs from starting.
func Run(ctx context.Context, jobs []ports.CheckJob, concurrency int) Result {
	if concurrency < 1 {
		concurrency = 1
	}
	out := make([][]domain.Finding, len(jobs))
	done := make([]bool, len(jobs))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			findings, ok := runJob(ctx, job)
			if !ok || ctx.Err() != nil {
				return nil
			}
			out[i], done[i] = findings, true
			return nil
		})
	}
	_ = g.Wait()

	cause := context.Cause(ctx)
	if cause == nil {
		cause = errors.New("check aborted")
	}
	var res Result
	for i, job := range jobs {
		if done[i] {
			res.Findings = append(res.Findings, out[i]...)
			continue
		}
		res.Skipped = append(res.Skipped, job.Name)
		res.Findings = append(res.Findings, domain.Failed(job.Name, cerr.Wrap(
			fmt.Errorf("check %s did not finish: %w", job.Name, cause),
			cerr.KindDependencyUnavailable, "check_incomplete", "Re-run the assessment")))
	}
	return res
}

func runJob(ctx context.Context, job ports.CheckJob) (findings []domain.Finding, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("checkrunner: check %s panicked: %v", job.Name, r)
			ok = false
		}
	}()
	return job.Run(ctx), true
}
