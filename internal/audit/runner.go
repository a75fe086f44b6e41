package audit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/muntasir-islam/seo-audit-tool/internal/shared/constants"
)

// TargetResult is one target's outcome in a batch: either a result or a
// typed error, never both.
type TargetResult struct {
	Target   Target        `json:"target"`
	Result   *Result       `json:"result,omitempty"`
	Error    *TargetError  `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ProgressFunc is called once per finished target with the running count.
type ProgressFunc func(completed, total int, tr TargetResult)

// Runner executes audits against multiple targets with a bounded worker
// pool and a global rate limit. One failing target never aborts the batch.
type Runner struct {
	Auditor     *Auditor
	Concurrency int           // maximum audits in flight
	RateLimit   int           // audits started per second (global)
	Timeout     time.Duration // per-target budget, zero means no extra bound
	OnProgress  ProgressFunc
}

// Run audits every target and returns results in input order.
func (r *Runner) Run(ctx context.Context, targets []Target) []TargetResult {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultBatchWorkers
	}
	rps := r.RateLimit
	if rps <= 0 {
		rps = constants.DefaultBatchRateLimit
	}

	limiter := rate.NewLimiter(rate.Limit(rps), rps)
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	results := make([]TargetResult, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func(idx int, t Target) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			_ = limiter.Wait(ctx)

			auditCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				auditCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			start := time.Now()
			tr := TargetResult{Target: t}
			res, err := r.Auditor.Run(auditCtx, t)
			if err != nil {
				tr.Error = Classify(err)
			} else {
				tr.Result = res
			}
			tr.Duration = time.Since(start)

			// each goroutine owns a distinct index
			results[idx] = tr

			mu.Lock()
			completed++
			if r.OnProgress != nil {
				r.OnProgress(completed, len(targets), tr)
			}
			mu.Unlock()
		}(i, target)
	}

	wg.Wait()
	return results
}
