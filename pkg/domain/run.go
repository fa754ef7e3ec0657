package domain

import "time"

// RunSummary describes the outcome of one fetch cycle
type RunSummary struct {
	RunID           string         `json:"run_id"`
	Started         time.Time      `json:"started"`
	Finished        time.Time      `json:"finished"`
	Scraped         int            `json:"scraped"`
	PerSource       map[string]int `json:"per_source"`
	SourceErrors    int            `json:"source_errors"`
	Matched         int            `json:"matched"`
	Rejected        int            `json:"rejected"`
	QuotaRejected   int            `json:"quota_rejected"`
	IntraDuplicates int            `json:"intra_duplicates"`
	Malformed       int            `json:"malformed"`
	Stored          InsertStats    `json:"stored"`
	LimitedUsage    map[string]int `json:"limited_usage"`
}
