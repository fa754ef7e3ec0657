// Package scheduler runs fetch cycles and delivers unsent articles inside notification windows.
// Coordinator executes one cycle end to end, Dispatcher sends pending articles and Scheduler
// drives both on a cron schedule in the configured timezone.
package scheduler

//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/sent_tracker.go -pkg mocks -skip-ensure -fmt goimports . SentTracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/regwatch/pkg/dedup"
	"github.com/umputun/regwatch/pkg/domain"
	"github.com/umputun/regwatch/pkg/keyword"
	"github.com/umputun/regwatch/pkg/source"
)

// ErrCycleRunning is returned when a fetch cycle is requested while another one is in progress
var ErrCycleRunning = errors.New("fetch cycle already running")

// State is the phase of the current fetch cycle
type State string

// cycle states
const (
	StateIdle          State = "idle"
	StateQuotaReset    State = "quota_reset"
	StateFetching      State = "fetching"
	StateMatching      State = "matching"
	StateDeduplicating State = "deduplicating"
	StatePersisting    State = "persisting"
)

// ArticleStore is the persistent article storage used by coordinator and dispatcher
type ArticleStore interface {
	InsertBatch(ctx context.Context, articles []domain.Article) (domain.InsertStats, error)
	QueryUnsent(ctx context.Context) ([]domain.Article, error)
	MarkSent(ctx context.Context, ids []int64, status bool) (int64, error)
}

// CoordinatorParams defines coordinator dependencies
type CoordinatorParams struct {
	Sources    []source.Source
	Matcher    *keyword.Matcher
	Quota      *keyword.Quota
	Store      ArticleStore
	Location   *time.Location // timezone for dates without zone
	MaxWorkers int            // concurrent sources
}

// Coordinator runs fetch cycles: collect candidates from all sources, match keywords,
// drop duplicates and persist the rest. Only one cycle runs at a time.
type Coordinator struct {
	CoordinatorParams
	running atomic.Bool

	mu    sync.RWMutex
	state State
	last  *domain.RunSummary
}

// tagged is a candidate accepted by the matcher
type tagged struct {
	domain.Candidate
	keyword string
}

// NewCoordinator makes a coordinator, nil quota means a fresh one with default cap
func NewCoordinator(params CoordinatorParams) *Coordinator {
	if params.MaxWorkers <= 0 {
		params.MaxWorkers = 4
	}
	if params.Location == nil {
		params.Location = time.UTC
	}
	if params.Quota == nil {
		params.Quota = keyword.NewQuota(keyword.DefaultLimitedCap)
	}
	return &Coordinator{CoordinatorParams: params, state: StateIdle}
}

// State returns the phase of the running cycle, StateIdle if none
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Running reports whether a cycle is in progress
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// LastSummary returns summary of the last finished cycle, nil if none ran yet
func (c *Coordinator) LastSummary() *domain.RunSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return nil
	}
	res := *c.last
	return &res
}

// RunCycle executes one fetch cycle. Source failures are logged and counted, store connectivity
// failures abort the cycle and are returned along with the partial summary.
func (c *Coordinator) RunCycle(ctx context.Context) (domain.RunSummary, error) {
	if !c.running.CompareAndSwap(false, true) {
		return domain.RunSummary{}, ErrCycleRunning
	}
	defer c.running.Store(false)
	defer c.setState(StateIdle)

	summary := domain.RunSummary{
		RunID:     uuid.New().String(),
		Started:   time.Now(),
		PerSource: make(map[string]int, len(c.Sources)),
	}
	lgr.Printf("[INFO] fetch cycle %s started, %d sources", summary.RunID, len(c.Sources))

	c.setState(StateQuotaReset)
	c.Quota.Reset()

	c.setState(StateFetching)
	batches := c.fetchAll(ctx, &summary)
	if err := ctx.Err(); err != nil {
		return c.finish(summary), fmt.Errorf("fetch cycle %s: %w", summary.RunID, err)
	}

	c.setState(StateMatching)
	accepted := c.match(batches, &summary)
	summary.LimitedUsage = c.Quota.Usage()

	c.setState(StateDeduplicating)
	articles := c.deduplicate(accepted, &summary)

	c.setState(StatePersisting)
	stats, err := c.Store.InsertBatch(ctx, articles)
	summary.Stored = stats
	summary = c.finish(summary)
	if err != nil {
		return summary, fmt.Errorf("persist articles, cycle %s: %w", summary.RunID, err)
	}
	return summary, nil
}

// fetchAll runs every source concurrently, results are kept in source order
func (c *Coordinator) fetchAll(ctx context.Context, summary *domain.RunSummary) [][]domain.Candidate {
	results := make([][]domain.Candidate, len(c.Sources))
	failed := make([]bool, len(c.Sources))

	g := errgroup.Group{}
	g.SetLimit(c.MaxWorkers)
	for i, src := range c.Sources {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			st := time.Now()
			cands, err := src.Fetch(ctx)
			if err != nil {
				lgr.Printf("[WARN] source %s failed: %v", src.Name(), err)
				failed[i] = true
			}
			lgr.Printf("[DEBUG] source %s returned %d candidates in %v", src.Name(), len(cands), time.Since(st))
			results[i] = cands // partial results are kept
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	for i, src := range c.Sources {
		summary.PerSource[src.Name()] += len(results[i])
		summary.Scraped += len(results[i])
		if failed[i] {
			summary.SourceErrors++
		}
	}
	return results
}

// match tags candidates with a keyword. Sequential, so the limited quota is consumed in
// production order.
func (c *Coordinator) match(batches [][]domain.Candidate, summary *domain.RunSummary) []tagged {
	var res []tagged
	for _, batch := range batches {
		for _, cand := range batch {
			cand.Title = source.CleanTitle(cand.Title)
			kw, result := c.Matcher.Match(cand.Title, c.Quota)
			switch result {
			case keyword.ResultMatched:
				summary.Matched++
				res = append(res, tagged{Candidate: cand, keyword: kw})
			case keyword.ResultQuotaExceeded:
				summary.QuotaRejected++
			default:
				summary.Rejected++
			}
		}
	}
	return res
}

// deduplicate drops repeated headings of the current cycle and converts the rest to articles
func (c *Coordinator) deduplicate(accepted []tagged, summary *domain.RunSummary) []domain.Article {
	d := dedup.NewRun()
	res := make([]domain.Article, 0, len(accepted))
	for _, t := range accepted {
		if d.Add(t.Candidate) != dedup.VerdictKept {
			continue
		}
		published := t.Published
		if published == nil && t.RawDate != "" {
			published = source.ParseDate(t.RawDate, c.Location)
		}
		if published != nil {
			utc := published.UTC()
			published = &utc
		}
		res = append(res, domain.Article{
			Heading:       t.Title,
			Link:          t.URL,
			Keyword:       t.keyword,
			Source:        t.SourceName,
			PublishedDate: published,
		})
	}
	summary.IntraDuplicates = d.Duplicates()
	summary.Malformed = d.Malformed()
	return res
}

// finish stamps the summary, logs it and keeps it as the last one
func (c *Coordinator) finish(summary domain.RunSummary) domain.RunSummary {
	summary.Finished = time.Now()

	names := make([]string, 0, len(summary.PerSource))
	for name := range summary.PerSource {
		names = append(names, name)
	}
	sort.Strings(names)
	perSource := make([]string, 0, len(names))
	for _, name := range names {
		perSource = append(perSource, fmt.Sprintf("%s:%d", name, summary.PerSource[name]))
	}

	lgr.Printf("[INFO] fetch cycle %s finished in %v", summary.RunID, summary.Finished.Sub(summary.Started).Round(time.Millisecond))
	lgr.Printf("[INFO] scraped %d candidates, %d source errors, per source: %s",
		summary.Scraped, summary.SourceErrors, strings.Join(perSource, ", "))
	lgr.Printf("[INFO] matched %d, rejected %d, quota rejected %d, duplicates %d, malformed %d",
		summary.Matched, summary.Rejected, summary.QuotaRejected, summary.IntraDuplicates, summary.Malformed)
	lgr.Printf("[INFO] stored %d, already known %d, invalid %d, errors %d",
		summary.Stored.Inserted, summary.Stored.Duplicates, summary.Stored.Invalid, summary.Stored.Errors)
	if len(summary.LimitedUsage) > 0 {
		lgr.Printf("[INFO] limited keywords used: %v", summary.LimitedUsage)
	}

	c.mu.Lock()
	c.last = &summary
	c.mu.Unlock()
	return summary
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
