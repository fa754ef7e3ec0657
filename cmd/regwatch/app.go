package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/umputun/regwatch/pkg/apikey"
	"github.com/umputun/regwatch/pkg/config"
	"github.com/umputun/regwatch/pkg/keyword"
	"github.com/umputun/regwatch/pkg/notify"
	"github.com/umputun/regwatch/pkg/repository"
	"github.com/umputun/regwatch/pkg/scheduler"
	"github.com/umputun/regwatch/pkg/source"
)

// app holds wired components for all commands
type app struct {
	cfg         *config.Config
	repos       *repository.Repositories
	matcher     *keyword.Matcher
	quota       *keyword.Quota
	rotator     *apikey.Rotator // nil if search api disabled
	coordinator *scheduler.Coordinator
	dispatcher  *scheduler.Dispatcher // nil if notifications disabled
	windows     []notify.Window
}

// keywordSet exposes matcher lists together with quota usage
type keywordSet struct {
	*keyword.Matcher
	*keyword.Quota
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	a := &app{cfg: cfg, repos: repos}
	a.matcher = keyword.NewMatcher(cfg.Keywords.Regular, a.limitedKeywords(ctx),
		keyword.WithMinTitleLength(cfg.Keywords.MinTitleLength))
	a.quota = keyword.NewQuota(cfg.Keywords.LimitedCap)

	loc := cfg.Location()
	a.coordinator = scheduler.NewCoordinator(scheduler.CoordinatorParams{
		Sources:    a.makeSources(),
		Matcher:    a.matcher,
		Quota:      a.quota,
		Store:      repos.Article,
		Location:   loc,
		MaxWorkers: cfg.Schedule.MaxWorkers,
	})

	for _, w := range cfg.Notify.Windows {
		a.windows = append(a.windows, notify.Window{Name: w.Name, Label: w.Label, StartHour: w.StartHour, EndHour: w.EndHour})
	}
	if cfg.Notify.Enabled {
		smtp := cfg.Notify.SMTP
		email := notify.NewEmail(notify.EmailParams{
			Host:     smtp.Host,
			Port:     smtp.Port,
			Username: smtp.Username,
			Password: smtp.Password,
			From:     smtp.From,
			To:       splitList(smtp.To),
			Cc:       smtp.Cc,
			TLS:      smtp.TLS,
			Timeout:  smtp.Timeout,
			Location: loc,
		})
		a.dispatcher = scheduler.NewDispatcher(scheduler.DispatcherParams{
			Store:    repos.Article,
			Notifier: email,
			Tracker:  repos.Setting,
			Location: loc,
		})
	}
	return a, nil
}

// limitedKeywords returns operator edited limited list if saved, configured one otherwise
func (a *app) limitedKeywords(ctx context.Context) []string {
	saved, ok, err := a.repos.Setting.LimitedKeywords(ctx)
	if err != nil {
		log.Printf("[WARN] failed to load saved limited keywords, using configured: %v", err)
		return a.cfg.Keywords.Limited
	}
	if !ok {
		return a.cfg.Keywords.Limited
	}
	log.Printf("[INFO] using saved limited keywords %v", saved)
	return saved
}

// makeSources builds the search api source followed by configured pages and feeds, in config order
func (a *app) makeSources() []source.Source {
	cfg := a.cfg
	var res []source.Source

	if cfg.NewsAPI.Enabled {
		a.rotator = apikey.New(cfg.APIKeys(),
			apikey.WithFailureThreshold(cfg.NewsAPI.FailureThreshold),
			apikey.WithBackoff(cfg.NewsAPI.Backoff))
		res = append(res, source.NewNewsAPI(source.NewsAPIParams{
			Endpoint:     cfg.NewsAPI.Endpoint,
			Domains:      cfg.NewsAPI.Domains,
			Language:     cfg.NewsAPI.Language,
			PageSize:     cfg.NewsAPI.PageSize,
			Timeout:      cfg.NewsAPI.Timeout,
			RetryDelay:   cfg.NewsAPI.RetryDelay,
			KeywordDelay: cfg.NewsAPI.KeywordDelay,
			Keywords:     a.matcher,
			Rotator:      a.rotator,
		}))
	}

	identity := source.NewIdentity(cfg.Scraper.UserAgents)
	for _, sc := range cfg.Sources {
		if sc.Feed {
			res = append(res, source.NewFeed(source.FeedParams{
				Name:     sc.Name,
				URL:      sc.URL,
				Timeout:  cfg.Scraper.FeedTimeout,
				MaxItems: cfg.Scraper.MaxFeedItems,
				Identity: identity,
			}))
			continue
		}
		res = append(res, source.NewScraper(source.ScraperParams{
			Name: sc.Name,
			URL:  sc.URL,
			Selectors: source.Selectors{
				Container: sc.Selectors.Container,
				Title:     sc.Selectors.Title,
				Link:      sc.Selectors.Link,
				Date:      sc.Selectors.Date,
			},
			Timeout:        cfg.Scraper.Timeout,
			FeedTimeout:    cfg.Scraper.FeedTimeout,
			Delay:          cfg.Scraper.SourceDelay,
			MaxContainers:  cfg.Scraper.MaxContainers,
			MaxArticles:    cfg.Scraper.MaxArticles,
			MaxFeedItems:   cfg.Scraper.MaxFeedItems,
			MinTitleLength: cfg.Keywords.MinTitleLength,
			Identity:       identity,
			Relevance:      a.matcher,
		}))
	}
	log.Printf("[INFO] configured %d sources", len(res))
	return res
}

func (a *app) keywordSet() keywordSet {
	return keywordSet{Matcher: a.matcher, Quota: a.quota}
}

func (a *app) close() {
	if err := a.repos.Close(); err != nil {
		log.Printf("[WARN] failed to close database: %v", err)
	}
}

// splitList splits comma separated values, blanks dropped
func splitList(s string) []string {
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
