package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/regwatch/pkg/apikey"
	"github.com/umputun/regwatch/pkg/domain"
)

// KeyRotator provides search API credentials and receives their outcomes
type KeyRotator interface {
	Current() string
	Len() int
	Backoff() time.Duration
	Success(key string)
	Failure(key string, rateLimited bool) apikey.Decision
}

// KeywordLister returns keywords in priority order
type KeywordLister interface {
	All() []string
}

// NewsAPIParams defines parameters for the search API source
type NewsAPIParams struct {
	Endpoint     string
	Domains      []string
	Language     string
	PageSize     int
	Timeout      time.Duration
	RetryDelay   time.Duration // pause after a rate-limited attempt
	KeywordDelay time.Duration // pause between keywords
	Keywords     KeywordLister
	Rotator      KeyRotator
	Client       *http.Client // optional, made from Timeout if nil
}

// NewsAPI queries the search API once per keyword
type NewsAPI struct {
	params NewsAPIParams
	sleep  func(ctx context.Context, d time.Duration) error
}

// errRateLimited marks 429 responses
var errRateLimited = errors.New("rate limited")

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// NewNewsAPI makes the search API source
func NewNewsAPI(params NewsAPIParams) *NewsAPI {
	if params.Endpoint == "" {
		params.Endpoint = "https://newsapi.org/v2/everything"
	}
	if params.Language == "" {
		params.Language = "en"
	}
	if params.PageSize <= 0 {
		params.PageSize = 20
	}
	if params.Timeout <= 0 {
		params.Timeout = 10 * time.Second
	}
	if params.Client == nil {
		params.Client = newHTTPClient(params.Timeout)
	}
	return &NewsAPI{params: params, sleep: sleepCtx}
}

// Name returns source name
func (n *NewsAPI) Name() string { return "NewsAPI" }

// Fetch searches every keyword, failed keywords are logged and skipped
func (n *NewsAPI) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	if n.params.Rotator == nil || n.params.Rotator.Len() == 0 {
		return nil, errors.New("newsapi: no api keys")
	}

	var res []domain.Candidate
	var failed []string
	for i, kw := range n.params.Keywords.All() {
		if i > 0 {
			if err := n.sleep(ctx, n.params.KeywordDelay); err != nil {
				return res, fmt.Errorf("newsapi: %w", err)
			}
		}

		items, err := n.searchKeyword(ctx, kw)
		if err != nil {
			if ctx.Err() != nil {
				return res, fmt.Errorf("newsapi: %w", ctx.Err())
			}
			lgr.Printf("[WARN] newsapi keyword %q failed: %v", kw, err)
			failed = append(failed, kw)
			continue
		}
		lgr.Printf("[DEBUG] newsapi keyword %q returned %d articles", kw, len(items))
		res = append(res, items...)
	}

	if len(failed) > 0 {
		return res, fmt.Errorf("newsapi: %d keywords failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return res, nil
}

// searchKeyword makes up to Rotator.Len() attempts, only rate-limited attempts are retried.
// other failures are not retried but still pause for the backoff once no key is usable
func (n *NewsAPI) searchKeyword(ctx context.Context, keyword string) ([]domain.Candidate, error) {
	attempts := n.params.Rotator.Len()
	for attempt := 1; attempt <= attempts; attempt++ {
		key := n.params.Rotator.Current()
		items, err := n.request(ctx, keyword, key)
		if err == nil {
			n.params.Rotator.Success(key)
			return items, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if !errors.Is(err, errRateLimited) {
			if n.params.Rotator.Failure(key, false) == apikey.DecisionBackoff {
				if serr := n.sleep(ctx, n.params.Rotator.Backoff()); serr != nil {
					return nil, serr
				}
			}
			return nil, err
		}

		decision := n.params.Rotator.Failure(key, true)
		lgr.Printf("[WARN] rate limit hit for keyword %q with api key %s, attempt %d/%d, %s",
			keyword, apikey.Mask(key), attempt, attempts, decision)
		pause := n.params.RetryDelay
		if decision == apikey.DecisionBackoff {
			pause = n.params.Rotator.Backoff()
		}
		if err := n.sleep(ctx, pause); err != nil {
			return nil, err
		}
	}
	lgr.Printf("[ERROR] failed to fetch articles for keyword %q after trying all %d api keys", keyword, attempts)
	return nil, fmt.Errorf("keyword %q: %w on all %d attempts", keyword, errRateLimited, attempts)
}

// request performs one search call
func (n *NewsAPI) request(ctx context.Context, keyword, key string) ([]domain.Candidate, error) {
	q := url.Values{}
	q.Set("q", keyword)
	if len(n.params.Domains) > 0 {
		q.Set("domains", strings.Join(n.params.Domains, ","))
	}
	q.Set("language", n.params.Language)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(n.params.PageSize))
	q.Set("apiKey", key)

	ctx, cancel := context.WithTimeout(ctx, n.params.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.params.Endpoint+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.params.Client.Do(req)
	if err != nil {
		// url.Error carries the full request url, key included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var data newsAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, %s: %s", resp.StatusCode, data.Code, data.Message)
	}
	if data.Status != "ok" {
		return nil, fmt.Errorf("status %q, %s: %s", data.Status, data.Code, data.Message)
	}

	res := make([]domain.Candidate, 0, len(data.Articles))
	for _, a := range data.Articles {
		name := strings.TrimSpace(a.Source.Name)
		if name == "" {
			name = "Unknown"
		}
		res = append(res, domain.Candidate{
			Title:      strings.TrimSpace(a.Title),
			URL:        strings.TrimSpace(a.URL),
			RawDate:    a.PublishedAt,
			SourceName: "NewsAPI - " + name,
		})
	}
	return res, nil
}
