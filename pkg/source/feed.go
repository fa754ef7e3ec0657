package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/regwatch/pkg/domain"
)

// FeedParams defines parameters for a RSS/Atom source
type FeedParams struct {
	Name     string
	URL      string
	Timeout  time.Duration
	MaxItems int
	Identity *Identity
	Client   *http.Client // optional, made from Timeout if nil
}

// Feed reads candidates from RSS/Atom feed directly
type Feed struct {
	params FeedParams
	reader *feedReader
}

// NewFeed makes a feed source
func NewFeed(params FeedParams) *Feed {
	if params.Timeout <= 0 {
		params.Timeout = 10 * time.Second
	}
	if params.MaxItems <= 0 {
		params.MaxItems = 10
	}
	if params.Identity == nil {
		params.Identity = NewIdentity(nil)
	}
	if params.Client == nil {
		params.Client = newHTTPClient(params.Timeout)
	}
	return &Feed{params: params, reader: &feedReader{client: params.Client, identity: params.Identity, timeout: params.Timeout}}
}

// Name returns source name
func (f *Feed) Name() string { return f.params.Name }

// Fetch reads the first MaxItems entries of the feed
func (f *Feed) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	feed, err := f.reader.read(ctx, f.params.URL)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", f.params.Name, err)
	}
	res := feedCandidates(feed, f.params.Name, f.params.MaxItems, nil)
	lgr.Printf("[DEBUG] feed %s returned %d items, %d candidates", f.params.Name, len(feed.Items), len(res))
	return res, nil
}

// feedReader fetches and parses feeds with browser identity
type feedReader struct {
	client   *http.Client
	identity *Identity
	timeout  time.Duration
}

func (r *feedReader) read(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	r.identity.apply(req, acceptFeed)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return feed, nil
}

// feedCandidates converts up to maxItems feed entries, relevance filter is optional
func feedCandidates(feed *gofeed.Feed, sourceName string, maxItems int, relevance Relevance) []domain.Candidate {
	items := feed.Items
	if maxItems > 0 && len(items) > maxItems {
		items = items[:maxItems]
	}

	res := make([]domain.Candidate, 0, len(items))
	for _, item := range items {
		title := CleanTitle(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}
		if relevance != nil && !relevance.HasMatch(title) {
			continue
		}

		c := domain.Candidate{Title: title, URL: link, RawDate: item.Published, SourceName: sourceName}
		switch {
		case item.PublishedParsed != nil:
			ts := item.PublishedParsed.UTC()
			c.Published = &ts
		case item.UpdatedParsed != nil:
			ts := item.UpdatedParsed.UTC()
			c.Published = &ts
			c.RawDate = item.Updated
		}
		res = append(res, c)
	}
	return res
}
