package source

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
)

var (
	titlePolicy = bluemonday.StrictPolicy()
	// publisher suffix, separator must be surrounded by spaces to keep "Anti-Dumping" intact
	publisherSuffix = regexp.MustCompile(`\s+[-|–—]\s+[^-|–—]*$`)
	edgePipes       = regexp.MustCompile(`^\s*\|\s*|\s*\|\s*$`)
	dateJunk        = regexp.MustCompile(`[^\w\s:,./-]`)
)

// CleanTitle strips markup and publisher decorations from a headline
func CleanTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	title = html.UnescapeString(titlePolicy.Sanitize(title))
	title = strings.Join(strings.Fields(title), " ")
	title = publisherSuffix.ReplaceAllString(title, "")
	title = edgePipes.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// ParseDate parses free-form date, values without offset are taken in loc.
// Returns UTC time or nil if the value can't be parsed.
func ParseDate(raw string, loc *time.Location) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	ts, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		cleaned := strings.TrimSpace(dateJunk.ReplaceAllString(raw, ""))
		if ts, err = dateparse.ParseIn(cleaned, loc); err != nil {
			lgr.Printf("[WARN] can't parse date %q: %v", raw, err)
			return nil
		}
	}
	res := ts.UTC()
	return &res
}
