// Package dedup implements heading based duplicate detection.
// Headlines are frequently re-published verbatim across outlets or re-crawled with a different
// tracking URL, so identity is the normalized heading and never the link. Two distinct stories
// sharing a headline verbatim are suppressed as well, this is an accepted tradeoff.
package dedup

import (
	"strings"
	"unicode"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/regwatch/pkg/domain"
)

// Verdict is the decision for a candidate offered to Run
type Verdict int

// verdicts
const (
	VerdictKept Verdict = iota
	VerdictDuplicate
	VerdictMalformed
)

// Normalize returns the dedup identity key of a heading: lowercase, whitespace-collapsed,
// punctuation-stripped.
func Normalize(heading string) string {
	if heading == "" {
		return ""
	}
	lower := strings.Join(strings.Fields(strings.ToLower(heading)), " ")

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Run is the intra-run deduplicator. The first candidate with a given normalized heading is
// kept, all later ones are discarded regardless of source or url. Not safe for concurrent use,
// the coordinator feeds it sequentially in production order.
type Run struct {
	seen       map[string]domain.Candidate
	kept       int
	duplicates int
	malformed  int
}

// NewRun makes an empty deduplicator for one fetch cycle
func NewRun() *Run {
	return &Run{seen: make(map[string]domain.Candidate)}
}

// Add offers a candidate and returns the verdict
func (d *Run) Add(c domain.Candidate) Verdict {
	if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.URL) == "" {
		d.malformed++
		lgr.Printf("[DEBUG] skipping candidate with missing title or url from %s", c.SourceName)
		return VerdictMalformed
	}

	key := Normalize(c.Title)
	if key == "" {
		d.malformed++
		lgr.Printf("[DEBUG] skipping candidate with empty normalized title %q from %s", c.Title, c.SourceName)
		return VerdictMalformed
	}

	if orig, ok := d.seen[key]; ok {
		d.duplicates++
		lgr.Printf("[DEBUG] duplicate heading in current run, original %q from %s, duplicate %q from %s",
			Truncate(orig.Title, 60), orig.SourceName, Truncate(c.Title, 60), c.SourceName)
		return VerdictDuplicate
	}

	d.seen[key] = c
	d.kept++
	return VerdictKept
}

// Kept returns number of unique candidates
func (d *Run) Kept() int { return d.kept }

// Duplicates returns number of discarded duplicates
func (d *Run) Duplicates() int { return d.duplicates }

// Malformed returns number of candidates dropped for missing title or url
func (d *Run) Malformed() int { return d.malformed }

// Truncate shortens s to at most n runes, adding "..." if cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
