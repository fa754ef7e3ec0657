package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"golang.org/x/net/html/charset"

	"github.com/umputun/regwatch/pkg/domain"
)

// genericSelectors are tried in order when per-source selectors find nothing, "a" is the last resort
var genericSelectors = []string{
	`div[class*="story"]`,
	`div[class*="article"]`,
	`div[class*="news"]`,
	`div[class*="post"]`,
	`div[class*="item"]`,
	`div[class*="card"]`,
	`li[class*="story"]`,
	`li[class*="article"]`,
	"article",
	"a",
}

const headingSelector = "h1, h2, h3, h4, h5"

// Selectors is a per-source selector table, each list is tried in order
type Selectors struct {
	Container []string
	Title     []string
	Link      []string
	Date      []string
}

// ScraperParams defines parameters for a scraped page source
type ScraperParams struct {
	Name           string
	URL            string
	Selectors      Selectors
	Timeout        time.Duration // page request timeout
	FeedTimeout    time.Duration // syndication fallback request timeout
	Delay          time.Duration // random pause up to this value before the request
	MaxContainers  int
	MaxArticles    int
	MaxFeedItems   int
	MinTitleLength int
	Identity       *Identity
	Relevance      Relevance    // optional, nil accepts every title
	Client         *http.Client // optional, made from Timeout if nil
}

// Page is a fetched and parsed publisher page
type Page struct {
	Doc    *goquery.Document
	URL    *url.URL
	Source string
}

// Strategy extracts candidates from a page, an empty result passes control to the next strategy
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page *Page) []domain.Candidate
}

// Scraper fetches a publisher page and runs extraction strategies until one yields candidates
type Scraper struct {
	params     ScraperParams
	strategies []Strategy
}

// NewScraper makes a scraper with selector, generic and feed strategies
func NewScraper(params ScraperParams) *Scraper {
	if params.Timeout <= 0 {
		params.Timeout = 15 * time.Second
	}
	if params.FeedTimeout <= 0 {
		params.FeedTimeout = 10 * time.Second
	}
	if params.MaxContainers <= 0 {
		params.MaxContainers = 30
	}
	if params.MaxArticles <= 0 {
		params.MaxArticles = 20
	}
	if params.MaxFeedItems <= 0 {
		params.MaxFeedItems = 10
	}
	if params.Identity == nil {
		params.Identity = NewIdentity(nil)
	}
	if params.Client == nil {
		params.Client = newHTTPClient(params.Timeout)
	}

	ex := extractor{maxContainers: params.MaxContainers, minTitleLength: params.MinTitleLength, relevance: params.Relevance}
	return &Scraper{
		params: params,
		strategies: []Strategy{
			&SelectorStrategy{selectors: params.Selectors, ex: ex},
			&GenericStrategy{selectors: genericSelectors, ex: ex},
			&FeedStrategy{
				reader:   &feedReader{client: params.Client, identity: params.Identity, timeout: params.FeedTimeout},
				maxItems: params.MaxFeedItems,
				ex:       ex,
			},
		},
	}
}

// Name returns source name
func (s *Scraper) Name() string { return s.params.Name }

// Fetch loads the page and returns candidates of the first strategy with results
func (s *Scraper) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	if err := sleepCtx(ctx, jitter(s.params.Delay)); err != nil {
		return nil, err
	}

	lgr.Printf("[DEBUG] fetching %s from %s", s.params.Name, s.params.URL)
	page, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", s.params.Name, err)
	}

	for _, st := range s.strategies {
		res := st.Extract(ctx, page)
		lgr.Printf("[DEBUG] %s: %s strategy found %d candidates", s.params.Name, st.Name(), len(res))
		if len(res) == 0 {
			continue
		}
		if len(res) > s.params.MaxArticles {
			res = res[:s.params.MaxArticles]
		}
		lgr.Printf("[INFO] scraped %d candidates from %s with %s strategy", len(res), s.params.Name, st.Name())
		return res, nil
	}

	s.diagnose(page)
	return nil, nil
}

// load fetches the page and parses it with charset detection
func (s *Scraper) load(ctx context.Context) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.params.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.params.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.params.Identity.apply(req, acceptPage)

	resp, err := s.params.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if utf8Reader, cerr := charset.NewReader(resp.Body, resp.Header.Get("Content-Type")); cerr == nil {
		body = utf8Reader
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{Doc: doc, URL: resp.Request.URL, Source: s.params.Name}, nil
}

// diagnose logs page shape when no strategy found anything
func (s *Scraper) diagnose(page *Page) {
	containers := page.Doc.Find("article, div, li").Length()
	links := page.Doc.Find("a[href]")
	hits := 0
	if s.params.Relevance != nil {
		links.Slice(0, min(50, links.Length())).Each(func(_ int, a *goquery.Selection) {
			if t := CleanTitle(a.Text()); utf8.RuneCountInString(t) > s.params.MinTitleLength && s.params.Relevance.HasMatch(t) {
				hits++
			}
		})
	}
	lgr.Printf("[WARN] no candidates from %s, potential containers: %d, links: %d, keyword hits in first 50 links: %d",
		s.params.Name, containers, links.Length(), hits)
}

// SelectorStrategy uses per-source selector table
type SelectorStrategy struct {
	selectors Selectors
	ex        extractor
}

// Name returns strategy name
func (st *SelectorStrategy) Name() string { return "selector" }

// Extract applies the first container selector with hits, then title, link and date selectors per container
func (st *SelectorStrategy) Extract(_ context.Context, page *Page) []domain.Candidate {
	var containers *goquery.Selection
	for _, sel := range st.selectors.Container {
		if found := page.Doc.Find(sel); found.Length() > 0 {
			lgr.Printf("[DEBUG] %s: found %d containers with %q", page.Source, found.Length(), sel)
			containers = found
			break
		}
	}
	if containers == nil {
		return nil
	}

	var res []domain.Candidate
	st.ex.limit(containers).Each(func(_ int, c *goquery.Selection) {
		title := firstWithText(c, st.selectors.Title)
		if title == nil {
			title = c.Find(headingSelector + ", a").First()
		}
		link := firstWithAttr(c, st.selectors.Link, "href")
		if link == nil {
			link = linkOf(c)
		}
		if title.Length() == 0 || link == nil {
			return
		}

		rawDate := ""
		if d := firstMatch(c, st.selectors.Date); d != nil {
			if dt, ok := d.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				rawDate = dt
			} else {
				rawDate = d.Text()
			}
		}

		href, _ := link.Attr("href")
		if cand, ok := st.ex.build(page, title.Text(), href, rawDate); ok {
			res = append(res, cand)
		}
	})
	return res
}

// GenericStrategy tries common news markup patterns
type GenericStrategy struct {
	selectors []string
	ex        extractor
}

// Name returns strategy name
func (st *GenericStrategy) Name() string { return "generic" }

// Extract returns candidates of the first generic selector producing any
func (st *GenericStrategy) Extract(_ context.Context, page *Page) []domain.Candidate {
	for _, sel := range st.selectors {
		elements := page.Doc.Find(sel)
		if elements.Length() == 0 {
			continue
		}

		var res []domain.Candidate
		st.ex.limit(elements).Each(func(_ int, el *goquery.Selection) {
			title := el.Find(headingSelector).First()
			if title.Length() == 0 {
				title = el.Find("a").First()
			}
			if title.Length() == 0 && goquery.NodeName(el) == "a" {
				title = el
			}
			if title.Length() == 0 {
				return
			}

			link := linkOf(el)
			if link == nil && goquery.NodeName(title) == "a" {
				if _, ok := title.Attr("href"); ok {
					link = title
				}
			}
			if link == nil {
				return
			}

			href, _ := link.Attr("href")
			if cand, ok := st.ex.build(page, title.Text(), href, ""); ok {
				res = append(res, cand)
			}
		})

		if len(res) > 0 {
			lgr.Printf("[DEBUG] %s: generic selector %q produced %d candidates", page.Source, sel, len(res))
			return res
		}
	}
	return nil
}

// FeedStrategy follows RSS/Atom links advertised by the page
type FeedStrategy struct {
	reader   *feedReader
	maxItems int
	ex       extractor
}

// Name returns strategy name
func (st *FeedStrategy) Name() string { return "feed" }

// Extract reads advertised feeds in order and returns the first with candidates
func (st *FeedStrategy) Extract(ctx context.Context, page *Page) []domain.Candidate {
	var feeds []string
	page.Doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).Each(func(_ int, l *goquery.Selection) {
		if href, ok := l.Attr("href"); ok {
			if abs, ok := resolveLink(page.URL, href); ok {
				feeds = append(feeds, abs)
			}
		}
	})

	for _, feedURL := range feeds {
		feed, err := st.reader.read(ctx, feedURL)
		if err != nil {
			lgr.Printf("[WARN] %s: feed fallback %s failed: %v", page.Source, feedURL, err)
			continue
		}

		var res []domain.Candidate
		for _, c := range feedCandidates(feed, page.Source+" (RSS)", st.maxItems, st.ex.relevance) {
			if utf8.RuneCountInString(c.Title) >= st.ex.minTitleLength {
				res = append(res, c)
			}
		}
		if len(res) > 0 {
			return res
		}
	}
	return nil
}

// extractor holds limits shared by page strategies
type extractor struct {
	maxContainers  int
	minTitleLength int
	relevance      Relevance
}

func (e extractor) limit(sel *goquery.Selection) *goquery.Selection {
	return sel.Slice(0, min(sel.Length(), e.maxContainers))
}

// build makes candidate from extracted values, false if the values can't make a usable candidate
func (e extractor) build(page *Page, rawTitle, href, rawDate string) (domain.Candidate, bool) {
	title := CleanTitle(rawTitle)
	if title == "" || utf8.RuneCountInString(title) < e.minTitleLength {
		return domain.Candidate{}, false
	}
	link, ok := resolveLink(page.URL, href)
	if !ok {
		return domain.Candidate{}, false
	}
	if e.relevance != nil && !e.relevance.HasMatch(title) {
		return domain.Candidate{}, false
	}
	return domain.Candidate{
		Title:      title,
		URL:        link,
		RawDate:    strings.Join(strings.Fields(rawDate), " "),
		SourceName: page.Source,
	}, true
}

// resolveLink makes absolute http(s) link, skipping anchors and scripts
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

// linkOf returns the first descendant link with href or the element itself if it is a link
func linkOf(el *goquery.Selection) *goquery.Selection {
	if a := el.Find("a[href]").First(); a.Length() > 0 {
		return a
	}
	if goquery.NodeName(el) == "a" {
		if href, ok := el.Attr("href"); ok && href != "" {
			return el
		}
	}
	return nil
}

func firstWithText(c *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := c.Find(sel).First(); found.Length() > 0 && strings.TrimSpace(found.Text()) != "" {
			return found
		}
	}
	return nil
}

func firstWithAttr(c *goquery.Selection, selectors []string, attr string) *goquery.Selection {
	for _, sel := range selectors {
		if found := c.Find(sel).First(); found.Length() > 0 {
			if v, ok := found.Attr(attr); ok && v != "" {
				return found
			}
		}
	}
	return nil
}

func firstMatch(c *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := c.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}
