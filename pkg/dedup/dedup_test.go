package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/regwatch/pkg/domain"
)

func TestNormalize(t *testing.T) {
	tbl := []struct {
		in, out string
	}{
		{"RBI Hikes Rates!", "rbi hikes rates"},
		{"  rbi   hikes\trates ", "rbi hikes rates"},
		{"GST: council meets, again.", "gst council meets again"},
		{"Anti-Dumping duty imposed", "antidumping duty imposed"},
		{"snake_case stays", "snake_case stays"},
		{"Rs 1,000 crore - FDI", "rs 1000 crore fdi"},
		{"Tarif émise à 5%", "tarif émise à 5"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, Normalize(tt.in))
		})
	}
}

func TestRun_FirstSeenWins(t *testing.T) {
	d := NewRun()
	first := domain.Candidate{Title: "RBI Hikes Rates!", URL: "https://a.example.com/1", SourceName: "sourceX"}
	second := domain.Candidate{Title: "rbi hikes rates", URL: "https://b.example.com/2", SourceName: "sourceY"}

	assert.Equal(t, VerdictKept, d.Add(first))
	assert.Equal(t, VerdictDuplicate, d.Add(second))
	assert.Equal(t, 1, d.Kept())
	assert.Equal(t, 1, d.Duplicates())
	assert.Equal(t, first, d.seen["rbi hikes rates"], "first candidate recorded")
}

func TestRun_Malformed(t *testing.T) {
	d := NewRun()
	assert.Equal(t, VerdictMalformed, d.Add(domain.Candidate{Title: "", URL: "https://example.com"}))
	assert.Equal(t, VerdictMalformed, d.Add(domain.Candidate{Title: "Some GST news", URL: " "}))
	assert.Equal(t, VerdictMalformed, d.Add(domain.Candidate{Title: "?!...", URL: "https://example.com"}))
	assert.Equal(t, 3, d.Malformed())
	assert.Equal(t, 0, d.Kept())
}

func TestRun_SameURLDifferentHeading(t *testing.T) {
	d := NewRun()
	assert.Equal(t, VerdictKept, d.Add(domain.Candidate{Title: "GST council meets", URL: "https://example.com/x"}))
	assert.Equal(t, VerdictKept, d.Add(domain.Candidate{Title: "GST council adjourns", URL: "https://example.com/x"}))
	assert.Equal(t, 2, d.Kept())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "пр...", Truncate("привет", 2))
}
