// Package keyword decides whether a title qualifies and which single keyword it is tagged with.
// Keywords are tested in a fixed priority order, regular keywords first, then limited ones.
// A limited keyword may be accepted only a capped number of times per fetch cycle, tracked by
// Quota.
package keyword

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/go-pkgz/lgr"
)

// DefaultMinTitleLength is the minimal title length in runes, shorter titles are rejected
const DefaultMinTitleLength = 10

// Result describes the outcome of Match
type Result int

// match results
const (
	ResultMatched Result = iota
	ResultNoMatch
	ResultTooShort
	ResultQuotaExceeded
)

// String returns result name
func (r Result) String() string {
	switch r {
	case ResultMatched:
		return "matched"
	case ResultNoMatch:
		return "no match"
	case ResultTooShort:
		return "too short"
	case ResultQuotaExceeded:
		return "quota exceeded"
	default:
		return "unknown"
	}
}

// Matcher matches titles against the prioritized keyword list.
// An aho-corasick automaton over lowercased keywords finds candidate keywords in one pass,
// each candidate is then confirmed with a case-insensitive word-boundary regex.
type Matcher struct {
	mu      sync.RWMutex
	regular []string
	limited []string
	entries []entry // priority order
	ac      *ahocorasick.Matcher
	acMu    sync.Mutex // ahocorasick.Matcher.Match mutates internal counters
	minLen  int
}

type entry struct {
	keyword string
	limited bool
	re      *regexp.Regexp
}

// Option configures Matcher
type Option func(m *Matcher)

// WithMinTitleLength sets minimal title length, in runes
func WithMinTitleLength(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.minLen = n
		}
	}
}

// NewMatcher makes a matcher for regular and limited keywords.
// A keyword present in both lists is treated as limited.
func NewMatcher(regular, limited []string, opts ...Option) *Matcher {
	m := &Matcher{minLen: DefaultMinTitleLength}
	for _, opt := range opts {
		opt(m)
	}
	m.limited = uniqueKeywords(limited, nil)
	m.regular = uniqueKeywords(regular, m.limited)
	m.rebuildLocked()
	return m
}

// Match returns the keyword assigned to the title. Limited keywords consume a quota slot,
// when the slot is not available evaluation continues with the next keywords in order.
// quota may be nil, in this case limited keywords are never accepted.
func (m *Matcher) Match(title string, quota *Quota) (string, Result) {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < m.minLen {
		return "", ResultTooShort
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	refused := false
	for _, e := range m.candidatesLocked(title) {
		if !e.re.MatchString(title) {
			continue
		}
		if e.limited {
			if quota == nil || !quota.TryUse(e.keyword) {
				lgr.Printf("[DEBUG] skipping limited keyword %q for %q, already used", e.keyword, title)
				refused = true
				continue
			}
			lgr.Printf("[INFO] limited keyword %q used for %q", e.keyword, title)
		}
		return e.keyword, ResultMatched
	}

	if refused {
		return "", ResultQuotaExceeded
	}
	return "", ResultNoMatch
}

// HasMatch reports whether any keyword matches the title, without touching any quota
func (m *Matcher) HasMatch(title string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < m.minLen {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.candidatesLocked(title) {
		if e.re.MatchString(title) {
			return true
		}
	}
	return false
}

// Keywords returns copies of regular and limited lists, in priority order
func (m *Matcher) Keywords() (regular, limited []string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.regular...), append([]string{}, m.limited...)
}

// All returns every keyword in priority order
func (m *Matcher) All() []string {
	regular, limited := m.Keywords()
	return append(regular, limited...)
}

// IsLimited checks if keyword is in the limited list
func (m *Matcher) IsLimited(keyword string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.limited {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// AddLimited adds keyword to the limited list, removing it from the regular one.
// Returns false if it is already limited or blank.
func (m *Matcher) AddLimited(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range m.limited {
		if strings.EqualFold(k, keyword) {
			return false
		}
	}
	m.limited = append(m.limited, keyword)
	m.regular = uniqueKeywords(m.regular, m.limited)
	m.rebuildLocked()
	return true
}

// RemoveLimited drops keyword from the limited list. Returns false if it was not there.
func (m *Matcher) RemoveLimited(keyword string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, k := range m.limited {
		if strings.EqualFold(k, strings.TrimSpace(keyword)) {
			m.limited = append(m.limited[:i], m.limited[i+1:]...)
			m.rebuildLocked()
			return true
		}
	}
	return false
}

// candidatesLocked returns entries found by the automaton, sorted by priority
func (m *Matcher) candidatesLocked(title string) []entry {
	if m.ac == nil {
		return nil
	}
	m.acMu.Lock()
	hits := m.ac.Match([]byte(strings.ToLower(title)))
	m.acMu.Unlock()

	sort.Ints(hits)
	res := make([]entry, 0, len(hits))
	last := -1
	for _, idx := range hits {
		if idx == last || idx < 0 || idx >= len(m.entries) {
			continue
		}
		last = idx
		res = append(res, m.entries[idx])
	}
	return res
}

// rebuildLocked recreates entries and the automaton, must be called with mu held for writing
func (m *Matcher) rebuildLocked() {
	m.entries = make([]entry, 0, len(m.regular)+len(m.limited))
	dict := make([]string, 0, len(m.regular)+len(m.limited))
	add := func(kw string, limited bool) {
		m.entries = append(m.entries, entry{
			keyword: kw,
			limited: limited,
			re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`),
		})
		dict = append(dict, strings.ToLower(kw))
	}
	for _, kw := range m.regular {
		add(kw, false)
	}
	for _, kw := range m.limited {
		add(kw, true)
	}

	m.ac = nil
	if len(dict) > 0 {
		m.ac = ahocorasick.NewStringMatcher(dict)
	}
}

// uniqueKeywords trims keywords and drops blanks, case-insensitive duplicates and anything in exclude
func uniqueKeywords(keywords, exclude []string) []string {
	seen := make(map[string]bool, len(keywords)+len(exclude))
	for _, k := range exclude {
		seen[strings.ToLower(strings.TrimSpace(k))] = true
	}
	res := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		res = append(res, k)
	}
	return res
}
