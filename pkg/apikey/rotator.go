// Package apikey tracks health of search API credentials and rotates between them.
//
// Every credential moves through healthy (no failures), degraded (1-2 consecutive failures)
// and exhausted (3+ consecutive failures or a rate-limit response). Any success resets it to
// healthy. State lives for the process lifetime only.
package apikey

import (
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/regwatch/pkg/domain"
)

// defaults
const (
	DefaultFailureThreshold = 3
	DefaultBackoff          = 60 * time.Second
)

// Decision tells the caller what to do after a failure
type Decision int

// decisions
const (
	DecisionRetry   Decision = iota // credential still usable
	DecisionRotate                  // switched to another credential
	DecisionBackoff                 // nothing usable left, pause before the next request
)

// String returns decision name
func (d Decision) String() string {
	switch d {
	case DecisionRetry:
		return "retry"
	case DecisionRotate:
		return "rotate"
	case DecisionBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Rotator holds credentials and the active one, safe for concurrent use
type Rotator struct {
	mu        sync.Mutex
	creds     []*credential
	current   int
	threshold int
	backoff   time.Duration
	now       func() time.Time
}

type credential struct {
	key         string
	failures    int
	exhausted   bool
	lastSuccess time.Time
}

// Option configures Rotator
type Option func(r *Rotator)

// WithFailureThreshold sets number of consecutive failures making a credential exhausted
func WithFailureThreshold(n int) Option {
	return func(r *Rotator) {
		if n > 0 {
			r.threshold = n
		}
	}
}

// WithBackoff sets the fixed pause used when no credential is usable
func WithBackoff(d time.Duration) Option {
	return func(r *Rotator) {
		if d >= 0 {
			r.backoff = d
		}
	}
}

// WithClock sets time source, used in tests
func WithClock(now func() time.Time) Option {
	return func(r *Rotator) { r.now = now }
}

// New makes a rotator for keys, blank and repeated keys are ignored
func New(keys []string, opts ...Option) *Rotator {
	r := &Rotator{threshold: DefaultFailureThreshold, backoff: DefaultBackoff, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		// last success starts at creation time, the same way a fresh key is assumed good
		r.creds = append(r.creds, &credential{key: k, lastSuccess: r.now()})
	}
	return r
}

// Len returns number of credentials
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.creds)
}

// Current returns the active key, empty if there are no credentials
func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.creds) == 0 {
		return ""
	}
	return r.creds[r.current].key
}

// Backoff returns the fixed pause for DecisionBackoff
func (r *Rotator) Backoff() time.Duration {
	return r.backoff
}

// Success resets failure counter of the key and stamps last success time
func (r *Rotator) Success(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.findLocked(key); c != nil {
		c.failures = 0
		c.exhausted = false
		c.lastSuccess = r.now()
	}
}

// Failure records a failed request made with key. rateLimited marks the credential exhausted
// right away. An exhausted credential causes rotation to the next usable one in round-robin
// order, or DecisionBackoff if there is none.
func (r *Rotator) Failure(key string, rateLimited bool) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(key)
	if c == nil {
		return DecisionRetry
	}
	c.failures++
	if rateLimited || c.failures >= r.threshold {
		c.exhausted = true
	}
	if !c.exhausted {
		return DecisionRetry
	}

	// key may be stale if another caller rotated already
	if active := r.creds[r.current]; active != c && !active.exhausted {
		return DecisionRotate
	}

	for i := 1; i < len(r.creds); i++ {
		idx := (r.current + i) % len(r.creds)
		if !r.creds[idx].exhausted {
			lgr.Printf("[WARN] rotating api key from %s to %s, failures %d, rate limited %v",
				Mask(c.key), Mask(r.creds[idx].key), c.failures, rateLimited)
			r.current = idx
			return DecisionRotate
		}
	}

	if len(r.creds) == 1 {
		lgr.Printf("[ERROR] only one api key available and it is exhausted, backoff %v", r.backoff)
	} else {
		lgr.Printf("[ERROR] all %d api keys are exhausted, backoff %v", len(r.creds), r.backoff)
	}
	return DecisionBackoff
}

// Status returns snapshot of all credentials with masked keys
func (r *Rotator) Status() []domain.CredentialStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]domain.CredentialStatus, 0, len(r.creds))
	for i, c := range r.creds {
		res = append(res, domain.CredentialStatus{
			Key:         Mask(c.key),
			Failures:    c.failures,
			LastSuccess: c.lastSuccess,
			State:       c.stateLocked(),
			Active:      i == r.current,
		})
	}
	return res
}

func (r *Rotator) findLocked(key string) *credential {
	for _, c := range r.creds {
		if c.key == key {
			return c
		}
	}
	return nil
}

func (c *credential) stateLocked() domain.CredentialState {
	switch {
	case c.exhausted:
		return domain.CredentialExhausted
	case c.failures > 0:
		return domain.CredentialDegraded
	default:
		return domain.CredentialHealthy
	}
}

// Mask hides all but the first 8 characters of a key
func Mask(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "***"
}
