// Package verify checks extracted npm records against the npm registry.
//
// Lookups run under a bounded worker pool with a token-bucket rate
// limiter: at most Concurrency lookups are in flight, and dispatches are
// spaced by the requests-per-minute budget regardless of the concurrency
// bound. Each distinct name is fetched once; the outcome fans back out
// to every record sharing the name during the merge.
package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/depscout/depscout/pkg/integrations"
	"github.com/depscout/depscout/pkg/integrations/npm"
	"github.com/depscout/depscout/pkg/manifest"
	"github.com/depscout/depscout/pkg/risk"
)

const (
	DefaultConcurrency   = 10
	DefaultRatePerMinute = 1000
)

// Fetcher retrieves package metadata from the npm registry.
type Fetcher interface {
	FetchPackage(ctx context.Context, name string, refresh bool) (*npm.PackageInfo, error)
}

// Options configures a Verifier.
type Options struct {
	Concurrency   int  // max in-flight lookups (default 10)
	RatePerMinute int  // dispatch budget (default 1000)
	Refresh       bool // bypass the client's response cache
	Logger        func(string, ...any)
}

// Outcome is the verification result for one distinct package name.
type Outcome struct {
	Verification manifest.Verification
	Reason       risk.Reason
	Info         *npm.PackageInfo // registry metadata for found packages
}

// Stats summarizes a verification run.
type Stats struct {
	Distinct   int `json:"distinct_names"`
	Checked    int `json:"checked"`
	Unclaimed  int `json:"unclaimed"`
	Suspicious int `json:"suspicious"`
	Errored    int `json:"errored"`
	Skipped    int `json:"skipped"` // cancelled before dispatch
}

// SuccessRate returns checked/(checked+errored), NaN-safe.
func (s *Stats) SuccessRate() float64 {
	attempted := s.Checked + s.Errored
	if attempted == 0 {
		return 0
	}
	return float64(s.Checked) / float64(attempted)
}

// Verifier resolves package names against the npm registry and scores
// found names for typosquat risk.
type Verifier struct {
	fetcher Fetcher
	opts    Options
	limiter *rate.Limiter
	now     func() time.Time
}

// New creates a Verifier. Zero option fields fall back to defaults.
func New(fetcher Fetcher, opts Options) *Verifier {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = DefaultRatePerMinute
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	// Burst of one enforces the minimum inter-dispatch spacing of
	// 60/RatePerMinute seconds.
	limiter := rate.NewLimiter(rate.Limit(float64(opts.RatePerMinute)/60.0), 1)
	return &Verifier{fetcher: fetcher, opts: opts, limiter: limiter, now: time.Now}
}

// Verify checks every distinct npm name among records and returns a new
// record set with verification outcomes merged in, plus run statistics.
// Non-npm records pass through untouched. On cancellation, no new
// lookups are dispatched and outcomes already collected are still
// merged; the context error is returned alongside the partial result.
func (v *Verifier) Verify(ctx context.Context, records []manifest.Record) ([]manifest.Record, *Stats, error) {
	names := distinctNames(records)
	stats := &Stats{Distinct: len(names)}
	if len(names) == 0 {
		return records, stats, nil
	}

	outcomes := v.lookupAll(ctx, names, stats)
	merged := Merge(records, outcomes)
	return merged, stats, ctx.Err()
}

// lookupAll fans the names out over the worker pool and collects the
// outcome map. The merge runs only after every worker has settled, so
// no locking is needed around the map afterwards.
func (v *Verifier) lookupAll(ctx context.Context, names []string, stats *Stats) map[string]*Outcome {
	jobs := make(chan string)
	results := make(chan keyedOutcome, len(names))

	var wg sync.WaitGroup
	for i := 0; i < v.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				if out := v.lookup(ctx, name); out != nil {
					results <- keyedOutcome{name: name, outcome: out}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(results)

	outcomes := make(map[string]*Outcome, len(names))
	for r := range results {
		outcomes[r.name] = r.outcome
	}

	stats.Skipped = len(names) - len(outcomes)
	for _, out := range outcomes {
		switch out.Verification.Status {
		case manifest.StatusFound:
			stats.Checked++
			if out.Verification.Suspicious {
				stats.Suspicious++
			}
		case manifest.StatusUnclaimed:
			stats.Checked++
			stats.Unclaimed++
		case manifest.StatusError:
			stats.Errored++
		}
	}
	return outcomes
}

// lookup dispatches a single registry check, honoring the rate limit.
// It returns nil when the context is cancelled before or during the
// lookup, so cancellation never fabricates an error outcome.
func (v *Verifier) lookup(ctx context.Context, name string) *Outcome {
	if err := v.limiter.Wait(ctx); err != nil {
		return nil
	}

	info, err := v.fetcher.FetchPackage(ctx, name, v.opts.Refresh)
	checkedAt := v.now()

	switch {
	case err == nil:
		verdict := risk.Score(name)
		verification := manifest.Verification{
			Status:     manifest.StatusFound,
			Suspicious: verdict.Suspicious,
			CheckedAt:  checkedAt,
		}
		if verdict.Suspicious {
			verification.Detail = string(verdict.Reason)
		}
		return &Outcome{
			Verification: verification,
			Reason:       verdict.Reason,
			Info:         info,
		}
	case errors.Is(err, integrations.ErrNotFound):
		return &Outcome{
			Verification: manifest.Verification{
				Status:    manifest.StatusUnclaimed,
				CheckedAt: checkedAt,
			},
			Reason: risk.ReasonNone,
		}
	case ctx.Err() != nil:
		return nil
	default:
		v.opts.Logger("lookup failed: %s: %v", name, err)
		return &Outcome{
			Verification: manifest.Verification{
				Status:    manifest.StatusError,
				CheckedAt: checkedAt,
				Detail:    err.Error(),
			},
			Reason: risk.ReasonNone,
		}
	}
}

// Merge produces a new record set with each npm record's verification
// filled from the outcome for its name. Records without an outcome (and
// all non-npm records) are copied through unchanged; verification is
// never overwritten in place.
func Merge(records []manifest.Record, outcomes map[string]*Outcome) []manifest.Record {
	merged := make([]manifest.Record, len(records))
	for i, rec := range records {
		if rec.Ecosystem == manifest.EcosystemNPM {
			if out, ok := outcomes[rec.Name]; ok {
				verification := out.Verification
				rec.Verify = &verification
			}
		}
		merged[i] = rec
	}
	return merged
}

type keyedOutcome struct {
	name    string
	outcome *Outcome
}

// distinctNames returns the unique npm package names among records, in
// first-appearance order.
func distinctNames(records []manifest.Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		if rec.Ecosystem != manifest.EcosystemNPM || rec.Name == "" || seen[rec.Name] {
			continue
		}
		seen[rec.Name] = true
		names = append(names, rec.Name)
	}
	return names
}
