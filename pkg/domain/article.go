package domain

import "time"

// Candidate is a raw item extracted from a source before keyword matching.
// It is never persisted directly.
type Candidate struct {
	Title      string
	URL        string
	RawDate    string
	Published  *time.Time // set by sources which already parsed the date, e.g. feeds
	SourceName string
}

// Article represents a stored, keyword-tagged news article
type Article struct {
	ID            int64      `json:"id"`
	Heading       string     `json:"heading"`
	Link          string     `json:"link"`
	Keyword       string     `json:"keyword"`
	Source        string     `json:"source"`
	PublishedDate *time.Time `json:"published_date,omitempty"` // UTC, nil if unknown
	IsSent        bool       `json:"is_sent"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InsertOutcome is the result of a single record in a batch insert
type InsertOutcome int

// insert outcomes
const (
	OutcomeInserted InsertOutcome = iota
	OutcomeDuplicate
	OutcomeInvalid
	OutcomeError
)

// String returns outcome name for logging
func (o InsertOutcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// InsertStats aggregates per-record outcomes of a batch insert
type InsertStats struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	Errors     int `json:"errors"`
}

// Add counts a single outcome
func (s *InsertStats) Add(o InsertOutcome) {
	switch o {
	case OutcomeInserted:
		s.Inserted++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeInvalid:
		s.Invalid++
	case OutcomeError:
		s.Errors++
	}
}

// Total returns number of processed records
func (s InsertStats) Total() int {
	return s.Inserted + s.Duplicates + s.Invalid + s.Errors
}

// Count is a named counter, used for grouped statistics
type Count struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}

// Stats holds aggregate counts over stored articles
type Stats struct {
	Total     int     `json:"total"`
	Sent      int     `json:"sent"`
	Unsent    int     `json:"unsent"`
	ByKeyword []Count `json:"by_keyword"`
	BySource  []Count `json:"by_source"`
}
