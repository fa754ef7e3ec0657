package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/umputun/regwatch/pkg/domain"
)

// sheet names of the export workbook
const (
	SheetArticles  = "Articles"
	SheetSummary   = "Summary"
	SheetBySource  = "By Source"
	SheetByKeyword = "By Keyword"
	SheetMonthly   = "Monthly"
)

// ArticleHeaders are the column names of the articles sheet
var ArticleHeaders = []string{"ID", "Heading", "Link", "Keyword", "Source", "Published", "Sent", "Created"}

const newsAPIPrefix = "NewsAPI - "

// ExportXLSX writes articles and their breakdowns to a spreadsheet at path
func ExportXLSX(path string, articles []domain.Article) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetArticles); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(articles))
	for _, a := range articles {
		published := ""
		if a.PublishedDate != nil {
			published = a.PublishedDate.UTC().Format(time.DateTime)
		}
		rows = append(rows, []any{a.ID, a.Heading, a.Link, a.Keyword, a.Source, published, a.IsSent,
			a.CreatedAt.UTC().Format(time.DateTime)})
	}
	if err := writeSheet(f, SheetArticles, ArticleHeaders, rows); err != nil {
		return err
	}

	sent, api := 0, 0
	for _, a := range articles {
		if a.IsSent {
			sent++
		}
		if strings.HasPrefix(a.Source, newsAPIPrefix) {
			api++
		}
	}
	summary := [][]any{
		{"Total articles", len(articles)},
		{"Sent", sent},
		{"Unsent", len(articles) - sent},
		{"From NewsAPI", api},
		{"From scraping", len(articles) - api},
	}
	if err := writeSheet(f, SheetSummary, []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	groups := []struct {
		sheet, header string
		key           func(a domain.Article) string
	}{
		{SheetBySource, "Source", func(a domain.Article) string { return a.Source }},
		{SheetByKeyword, "Keyword", func(a domain.Article) string { return a.Keyword }},
		{SheetMonthly, "Month", func(a domain.Article) string { return a.CreatedAt.UTC().Format("2006-01") }},
	}
	for _, g := range groups {
		if err := writeSheet(f, g.sheet, []string{g.header, "Count"}, countBy(articles, g.key, g.sheet == SheetMonthly)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeSheet creates sheet if missing and fills header plus rows
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// countBy groups articles by key, sorted by count desc or by key if byKey is set
func countBy(articles []domain.Article, key func(a domain.Article) string, byKey bool) [][]any {
	counts := map[string]int{}
	for _, a := range articles {
		counts[key(a)]++
	}
	res := make([]domain.Count, 0, len(counts))
	for k, v := range counts {
		res = append(res, domain.Count{Name: k, Count: v})
	}
	sort.Slice(res, func(i, j int) bool {
		if byKey || res[i].Count == res[j].Count {
			return res[i].Name < res[j].Name
		}
		return res[i].Count > res[j].Count
	})

	rows := make([][]any, 0, len(res))
	for _, c := range res {
		rows = append(rows, []any{c.Name, c.Count})
	}
	return rows
}
