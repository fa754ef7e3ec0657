// Package report renders operator facing statistics as text tables and exports stored
// articles to a spreadsheet.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/umputun/regwatch/pkg/domain"
)

// WriteStats renders totals and the per keyword and per source breakdowns
func WriteStats(w io.Writer, stats domain.Stats) {
	totals := newTable(w, "Articles")
	totals.AppendHeader(table.Row{"Total", "Sent", "Unsent"})
	totals.AppendRow(table.Row{stats.Total, stats.Sent, stats.Unsent})
	totals.Render()

	writeCounts(w, "By keyword", "Keyword", stats.ByKeyword)
	writeCounts(w, "By source", "Source", stats.BySource)
}

// WriteCredentials renders search API credential health, keys are expected to be masked
func WriteCredentials(w io.Writer, creds []domain.CredentialStatus) {
	t := newTable(w, "API credentials")
	t.AppendHeader(table.Row{"#", "Key", "State", "Failures", "Last success", "Active"})
	for i, c := range creds {
		lastSuccess := "never"
		if !c.LastSuccess.IsZero() {
			lastSuccess = c.LastSuccess.Format(time.RFC3339)
		}
		active := ""
		if c.Active {
			active = "*"
		}
		t.AppendRow(table.Row{i + 1, c.Key, c.State, c.Failures, lastSuccess, active})
	}
	t.Render()
}

// WriteSummary renders outcome of a fetch cycle
func WriteSummary(w io.Writer, s domain.RunSummary) {
	t := newTable(w, fmt.Sprintf("Fetch cycle %s", s.RunID))
	t.AppendHeader(table.Row{"Stage", "Count"})
	t.AppendRows([]table.Row{
		{"scraped", s.Scraped},
		{"source errors", s.SourceErrors},
		{"matched", s.Matched},
		{"rejected", s.Rejected},
		{"quota rejected", s.QuotaRejected},
		{"duplicates in cycle", s.IntraDuplicates},
		{"malformed", s.Malformed},
		{"stored", s.Stored.Inserted},
		{"already known", s.Stored.Duplicates},
		{"invalid", s.Stored.Invalid},
		{"store errors", s.Stored.Errors},
	})
	t.AppendFooter(table.Row{"duration", s.Finished.Sub(s.Started).Round(time.Millisecond)})
	t.Style().Format.Footer = text.FormatDefault // footer keeps duration case
	t.Render()
}

func writeCounts(w io.Writer, title, name string, counts []domain.Count) {
	if len(counts) == 0 {
		return
	}
	t := newTable(w, title)
	t.AppendHeader(table.Row{name, "Count"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Name, c.Count})
	}
	t.Render()
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}
