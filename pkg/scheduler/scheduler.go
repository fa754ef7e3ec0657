package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/regwatch/pkg/domain"
	"github.com/umputun/regwatch/pkg/notify"
)

// CycleRunner runs one fetch cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) (domain.RunSummary, error)
}

// WindowSender sends pending articles for a window
type WindowSender interface {
	SendWindow(ctx context.Context, w notify.Window, now time.Time) (int, error)
}

// Config holds scheduler configuration
type Config struct {
	FetchInterval time.Duration   // fetch cycle period, default 90m
	SendCheck     string          // cron spec for window checks, default every 30 minutes
	Windows       []notify.Window // empty means notifications disabled
	Location      *time.Location
}

// Scheduler drives fetch cycles and window sends with cron in the configured timezone.
// Each job is skipped while its previous run is still in progress.
type Scheduler struct {
	cycles CycleRunner
	sender WindowSender
	cfg    Config
	now    func() time.Time

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new scheduler instance, sender may be nil if notifications are disabled
func NewScheduler(cycles CycleRunner, sender WindowSender, cfg Config) *Scheduler {
	if cfg.FetchInterval <= 0 {
		cfg.FetchInterval = 90 * time.Minute
	}
	if cfg.SendCheck == "" {
		cfg.SendCheck = "*/30 * * * *"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := cron.PrintfLogger(cronLogger{})
	return &Scheduler{
		cycles: cycles,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(logger)),
			cron.WithLogger(logger),
		),
	}
}

// Start registers jobs, runs the first fetch cycle immediately and starts cron.
// Doesn't block, call Stop to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	skip := cron.NewChain(cron.SkipIfStillRunning(cron.PrintfLogger(cronLogger{})))

	fetchJob := skip.Then(cron.FuncJob(func() { s.fetch(ctx) }))
	s.cron.Schedule(cron.Every(s.cfg.FetchInterval), fetchJob)

	if s.sender != nil && len(s.cfg.Windows) > 0 {
		sendJob := skip.Then(cron.FuncJob(func() { s.CheckWindows(ctx) }))
		if _, err := s.cron.AddJob(s.cfg.SendCheck, sendJob); err != nil {
			s.cancel()
			return fmt.Errorf("schedule window check %q: %w", s.cfg.SendCheck, err)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fetchJob.Run() // shares skip guard with the scheduled fetch
	}()

	s.cron.Start()
	lgr.Printf("[INFO] scheduler started, fetch every %v, window check %q in %s",
		s.cfg.FetchInterval, s.cfg.SendCheck, s.cfg.Location)
	return nil
}

// Stop cancels running jobs and waits for them to finish
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// CheckWindows tries to send every configured window, errors are logged
func (s *Scheduler) CheckWindows(ctx context.Context) {
	now := s.now()
	for _, w := range s.cfg.Windows {
		if ctx.Err() != nil {
			return
		}
		n, err := s.sender.SendWindow(ctx, w, now)
		if err != nil {
			lgr.Printf("[ERROR] %s window send failed: %v", w.Name, err)
			continue
		}
		if n > 0 {
			lgr.Printf("[INFO] %s window delivered %d articles", w.Name, n)
		}
	}
}

func (s *Scheduler) fetch(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.cycles.RunCycle(ctx); err != nil {
		if errors.Is(err, ErrCycleRunning) {
			lgr.Printf("[INFO] skipping scheduled fetch, %v", err)
			return
		}
		lgr.Printf("[ERROR] fetch cycle failed: %v", err)
	}
}

// cronLogger routes cron messages to lgr
type cronLogger struct{}

func (cronLogger) Printf(format string, args ...any) {
	lgr.Printf("[DEBUG] cron: "+format, args...)
}
