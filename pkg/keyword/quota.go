package keyword

import "sync"

// DefaultLimitedCap is how many times a limited keyword may be accepted per fetch cycle
const DefaultLimitedCap = 1

// Quota tracks limited keyword usage within one fetch cycle.
// TryUse is an atomic check-and-increment, so the cap holds even with concurrent callers.
type Quota struct {
	mu   sync.Mutex
	cap  int
	used map[string]int
}

// NewQuota makes an empty quota with the given per-keyword cap, non-positive cap means default
func NewQuota(limit int) *Quota {
	if limit <= 0 {
		limit = DefaultLimitedCap
	}
	return &Quota{cap: limit, used: make(map[string]int)}
}

// Reset clears usage, called at the start of every fetch cycle
func (q *Quota) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.used = make(map[string]int)
}

// TryUse consumes a slot for keyword if one is left
func (q *Quota) TryUse(keyword string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.used[keyword] >= q.cap {
		return false
	}
	q.used[keyword]++
	return true
}

// Usage returns a copy of the usage counters
func (q *Quota) Usage() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	res := make(map[string]int, len(q.used))
	for k, v := range q.used {
		res[k] = v
	}
	return res
}

// Cap returns the per-keyword cap
func (q *Quota) Cap() int {
	return q.cap
}
