package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/regwatch/pkg/domain"
	"github.com/umputun/regwatch/pkg/notify"
)

// ErrNothingToSend is returned by manual send when there are no unsent articles
var ErrNothingToSend = errors.New("no unsent articles")

// Notifier delivers a batch of articles, label describes the batch (e.g. "Morning Report")
type Notifier interface {
	Send(ctx context.Context, articles []domain.Article, label string) error
}

// SentTracker persists the date of the last successful send per window, so restarts
// don't send the same window twice a day
type SentTracker interface {
	WindowSent(ctx context.Context, window string) (string, error)
	SetWindowSent(ctx context.Context, window, date string) error
}

// DispatcherParams defines dispatcher dependencies, Tracker is optional
type DispatcherParams struct {
	Store    ArticleStore
	Notifier Notifier
	Tracker  SentTracker
	Location *time.Location
}

// Dispatcher sends unsent articles and marks them sent after confirmed delivery.
// The read-send-mark sequence is serialized, so a batch is never delivered twice.
type Dispatcher struct {
	params DispatcherParams

	mu   sync.Mutex
	sent map[string]string // window name -> day of the last successful send
}

// NewDispatcher makes a dispatcher
func NewDispatcher(params DispatcherParams) *Dispatcher {
	if params.Location == nil {
		params.Location = time.UTC
	}
	return &Dispatcher{params: params, sent: make(map[string]string)}
}

// SendWindow sends pending articles if now is inside the window and the window wasn't
// delivered today yet. Returns number of sent articles.
func (d *Dispatcher) SendWindow(ctx context.Context, w notify.Window, now time.Time) (int, error) {
	local := now.In(d.params.Location)
	if !w.Contains(local) {
		lgr.Printf("[DEBUG] skipping %s window, outside %02d:00-%02d:00", w.Name, w.StartHour, w.EndHour)
		return 0, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	day := w.Day(local)
	if d.lastSentLocked(ctx, w.Name) == day {
		lgr.Printf("[DEBUG] skipping %s window, already sent on %s", w.Name, day)
		return 0, nil
	}

	n, err := d.sendPendingLocked(ctx, w.Label)
	if n > 0 {
		// delivered, the window is done for today even if marking failed
		d.setSentLocked(ctx, w.Name, day)
	}
	if err != nil {
		return n, fmt.Errorf("send %s window: %w", w.Name, err)
	}
	if n == 0 {
		lgr.Printf("[INFO] no unsent articles for %s window", w.Name)
	}
	return n, nil
}

func (d *Dispatcher) setSentLocked(ctx context.Context, window, day string) {
	d.sent[window] = day
	if d.params.Tracker == nil {
		return
	}
	if err := d.params.Tracker.SetWindowSent(ctx, window, day); err != nil {
		lgr.Printf("[WARN] failed to save %s window send date: %v", window, err)
	}
}

// SendNow sends all pending articles regardless of windows
func (d *Dispatcher) SendNow(ctx context.Context, label string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := d.sendPendingLocked(ctx, label)
	if err != nil {
		return n, fmt.Errorf("manual send: %w", err)
	}
	if n == 0 {
		return 0, ErrNothingToSend
	}
	return n, nil
}

// sendPendingLocked reads unsent articles, sends them and marks them sent. On send failure
// flags stay untouched and the next attempt picks the same batch. If marking fails after
// delivery, the delivered count is returned along with the error. Must be called with mu held.
func (d *Dispatcher) sendPendingLocked(ctx context.Context, label string) (int, error) {
	articles, err := d.params.Store.QueryUnsent(ctx)
	if err != nil {
		return 0, fmt.Errorf("query unsent: %w", err)
	}
	if len(articles) == 0 {
		return 0, nil
	}

	if err := d.params.Notifier.Send(ctx, articles, label); err != nil {
		lgr.Printf("[ERROR] failed to send %q with %d articles, they remain unsent: %v", label, len(articles), err)
		return 0, err
	}

	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}
	marked, err := d.params.Store.MarkSent(ctx, ids, true)
	if err != nil {
		lgr.Printf("[ERROR] %q delivered %d articles but failed to mark them sent, the next send repeats them: %v",
			label, len(ids), err)
		return len(articles), fmt.Errorf("mark %d articles sent: %w", len(ids), err)
	}
	lgr.Printf("[INFO] marked %d articles as sent after %q", marked, label)
	return len(articles), nil
}

// lastSentLocked returns day of the last successful send, loading it from tracker once
func (d *Dispatcher) lastSentLocked(ctx context.Context, window string) string {
	if day, ok := d.sent[window]; ok {
		return day
	}
	if d.params.Tracker == nil {
		return ""
	}
	day, err := d.params.Tracker.WindowSent(ctx, window)
	if err != nil {
		lgr.Printf("[WARN] failed to load %s window send date: %v", window, err)
		return ""
	}
	d.sent[window] = day
	return day
}
