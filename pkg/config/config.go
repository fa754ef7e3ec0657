package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Timezone string         `yaml:"timezone" json:"timezone" jsonschema:"default=Asia/Kolkata,description=Timezone for delivery windows and dates without offset"`
	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Keywords KeywordsConfig `yaml:"keywords" json:"keywords" jsonschema:"description=Keyword lists"`
	NewsAPI  NewsAPIConfig  `yaml:"newsapi" json:"newsapi" jsonschema:"description=Search API source"`
	Scraper  ScraperConfig  `yaml:"scraper" json:"scraper" jsonschema:"description=Scraped page sources settings"`
	Sources  []SourceConfig `yaml:"sources" json:"sources" jsonschema:"description=Scraped publisher pages and feeds"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify" jsonschema:"description=Email notification"`
	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`
	Server   ServerConfig   `yaml:"server" json:"server" jsonschema:"description=Operator HTTP API"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:regwatch.db?cache=shared&mode=rwc&_txlock=immediate,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// KeywordsConfig holds keyword lists, order defines priority
type KeywordsConfig struct {
	Regular        []string `yaml:"regular" json:"regular" jsonschema:"description=Regular keywords in priority order"`
	Limited        []string `yaml:"limited" json:"limited" jsonschema:"description=Keywords accepted a limited number of times per run"`
	LimitedCap     int      `yaml:"limited_cap" json:"limited_cap" jsonschema:"default=1,minimum=1,description=Accepted matches per limited keyword per run"`
	MinTitleLength int      `yaml:"min_title_length" json:"min_title_length" jsonschema:"default=10,minimum=1,description=Minimal title length"`
}

// NewsAPIConfig holds search API settings
type NewsAPIConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable search API source"`
	Endpoint         string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://newsapi.org/v2/everything,description=Search endpoint"`
	Keys             []string      `yaml:"keys" json:"keys" jsonschema:"description=API keys rotated on failures"`
	Domains          []string      `yaml:"domains" json:"domains" jsonschema:"description=Domain allowlist"`
	Language         string        `yaml:"language" json:"language" jsonschema:"default=en,description=Article language"`
	PageSize         int           `yaml:"page_size" json:"page_size" jsonschema:"default=20,minimum=1,maximum=100,description=Articles per keyword"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Request timeout"`
	RetryDelay       time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Pause before retrying a rate limited keyword"`
	KeywordDelay     time.Duration `yaml:"keyword_delay" json:"keyword_delay" jsonschema:"default=1.5s,description=Pause between keywords"`
	Backoff          time.Duration `yaml:"backoff" json:"backoff" jsonschema:"default=60s,description=Pause when no key is usable"`
	FailureThreshold int           `yaml:"failure_threshold" json:"failure_threshold" jsonschema:"default=3,minimum=1,description=Consecutive failures making a key exhausted"`
}

// ScraperConfig holds settings shared by scraped sources
type ScraperConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Page request timeout"`
	FeedTimeout   time.Duration `yaml:"feed_timeout" json:"feed_timeout" jsonschema:"default=10s,description=Feed request timeout"`
	SourceDelay   time.Duration `yaml:"source_delay" json:"source_delay" jsonschema:"default=2s,description=Random pause up to this value before each page request"`
	MaxContainers int           `yaml:"max_containers" json:"max_containers" jsonschema:"default=30,minimum=1,description=Containers inspected per strategy"`
	MaxArticles   int           `yaml:"max_articles" json:"max_articles" jsonschema:"default=20,minimum=1,description=Candidates kept per source"`
	MaxFeedItems  int           `yaml:"max_feed_items" json:"max_feed_items" jsonschema:"default=10,minimum=1,description=Items read from a feed"`
	UserAgents    []string      `yaml:"user_agents" json:"user_agents" jsonschema:"description=User agents rotated per request"`
}

// SourceConfig describes a scraped page or a feed
type SourceConfig struct {
	Name      string          `yaml:"name" json:"name" jsonschema:"required,description=Source name"`
	URL       string          `yaml:"url" json:"url" jsonschema:"required,description=Page or feed URL"`
	Feed      bool            `yaml:"feed" json:"feed" jsonschema:"default=false,description=URL is an RSS/Atom feed"`
	Selectors SelectorsConfig `yaml:"selectors" json:"selectors" jsonschema:"description=CSS selectors tried in order"`
}

// SelectorsConfig is a per-source selector table
type SelectorsConfig struct {
	Container []string `yaml:"container" json:"container"`
	Title     []string `yaml:"title" json:"title"`
	Link      []string `yaml:"link" json:"link"`
	Date      []string `yaml:"date" json:"date"`
}

// NotifyConfig holds email delivery settings
type NotifyConfig struct {
	Enabled bool           `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable email delivery"`
	SMTP    SMTPConfig     `yaml:"smtp" json:"smtp"`
	Windows []WindowConfig `yaml:"windows" json:"windows" jsonschema:"description=Delivery windows, one successful send per window per day"`
}

// SMTPConfig holds SMTP server settings
type SMTPConfig struct {
	Host     string        `yaml:"host" json:"host"`
	Port     int           `yaml:"port" json:"port" jsonschema:"default=587"`
	Username string        `yaml:"username" json:"username"`
	Password string        `yaml:"password" json:"password"`
	From     string        `yaml:"from" json:"from"`
	To       string        `yaml:"to" json:"to"`
	Cc       []string      `yaml:"cc" json:"cc"`
	TLS      string        `yaml:"tls" json:"tls" jsonschema:"default=mandatory,enum=mandatory,enum=opportunistic,enum=none"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s"`
}

// WindowConfig is a daily delivery window, hours in the configured timezone
type WindowConfig struct {
	Name      string `yaml:"name" json:"name" jsonschema:"required"`
	Label     string `yaml:"label" json:"label"`
	StartHour int    `yaml:"start_hour" json:"start_hour" jsonschema:"minimum=0,maximum=23"`
	EndHour   int    `yaml:"end_hour" json:"end_hour" jsonschema:"minimum=1,maximum=24"`
}

// ScheduleConfig holds periodic driver settings
type ScheduleConfig struct {
	FetchInterval time.Duration `yaml:"fetch_interval" json:"fetch_interval" jsonschema:"default=90m,description=Fetch cycle interval"`
	SendCheck     string        `yaml:"send_check" json:"send_check" jsonschema:"default=*/30 * * * *,description=Cron spec for delivery window checks"`
	MaxWorkers    int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=4,description=Sources fetched concurrently"`
}

// ServerConfig holds operator HTTP API settings
type ServerConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable operator HTTP API"`
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=127.0.0.1:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
}

// DefaultRegularKeywords is the regular keyword list, in priority order
var DefaultRegularKeywords = []string{
	"Copyright", "Patent", "GST", "Customs", "Levy", "FDI",
	"SEBI", "FEMA", "IPR", "Intellectual Property", "Trademark",
	"Tariff", "Semiconductor", "Press Note", "Antitrust", "DRHP",
	"Anti-Dumping", "Anti Dumping", "Input Tax Credit", "ITC", "AI",
	"Regulations", "Regulatory", "Guidelines",
}

// DefaultLimitedKeywords is the limited keyword list
var DefaultLimitedKeywords = []string{"Tarrif"}

// DefaultUserAgents is the browser identity pool for scraped sources
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Asia/Kolkata"
	}

	// set defaults for database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:regwatch.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// set defaults for keywords
	if len(c.Keywords.Regular) == 0 && len(c.Keywords.Limited) == 0 {
		c.Keywords.Regular = append([]string{}, DefaultRegularKeywords...)
		c.Keywords.Limited = append([]string{}, DefaultLimitedKeywords...)
	}
	if c.Keywords.LimitedCap == 0 {
		c.Keywords.LimitedCap = 1
	}
	if c.Keywords.MinTitleLength == 0 {
		c.Keywords.MinTitleLength = 10
	}

	// set defaults for search api
	if c.NewsAPI.Endpoint == "" {
		c.NewsAPI.Endpoint = "https://newsapi.org/v2/everything"
	}
	if len(c.NewsAPI.Domains) == 0 {
		c.NewsAPI.Domains = []string{"economictimes.indiatimes.com", "livemint.com", "moneycontrol.com"}
	}
	if c.NewsAPI.Language == "" {
		c.NewsAPI.Language = "en"
	}
	if c.NewsAPI.PageSize == 0 {
		c.NewsAPI.PageSize = 20
	}
	if c.NewsAPI.Timeout == 0 {
		c.NewsAPI.Timeout = 10 * time.Second
	}
	if c.NewsAPI.RetryDelay == 0 {
		c.NewsAPI.RetryDelay = 2 * time.Second
	}
	if c.NewsAPI.KeywordDelay == 0 {
		c.NewsAPI.KeywordDelay = 1500 * time.Millisecond
	}
	if c.NewsAPI.Backoff == 0 {
		c.NewsAPI.Backoff = 60 * time.Second
	}
	if c.NewsAPI.FailureThreshold == 0 {
		c.NewsAPI.FailureThreshold = 3
	}

	// set defaults for scraper
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 15 * time.Second
	}
	if c.Scraper.FeedTimeout == 0 {
		c.Scraper.FeedTimeout = 10 * time.Second
	}
	if c.Scraper.SourceDelay == 0 {
		c.Scraper.SourceDelay = 2 * time.Second
	}
	if c.Scraper.MaxContainers == 0 {
		c.Scraper.MaxContainers = 30
	}
	if c.Scraper.MaxArticles == 0 {
		c.Scraper.MaxArticles = 20
	}
	if c.Scraper.MaxFeedItems == 0 {
		c.Scraper.MaxFeedItems = 10
	}
	if len(c.Scraper.UserAgents) == 0 {
		c.Scraper.UserAgents = append([]string{}, DefaultUserAgents...)
	}

	// set defaults for notifications
	if c.Notify.SMTP.Port == 0 {
		c.Notify.SMTP.Port = 587
	}
	if c.Notify.SMTP.TLS == "" {
		c.Notify.SMTP.TLS = "mandatory"
	}
	if c.Notify.SMTP.Timeout == 0 {
		c.Notify.SMTP.Timeout = 30 * time.Second
	}
	if len(c.Notify.Windows) == 0 {
		c.Notify.Windows = []WindowConfig{
			{Name: "morning", Label: "Morning Report", StartHour: 10, EndHour: 12},
			{Name: "evening", Label: "Evening Report", StartHour: 16, EndHour: 18},
		}
	}
	for i := range c.Notify.Windows {
		if c.Notify.Windows[i].Label == "" {
			c.Notify.Windows[i].Label = c.Notify.Windows[i].Name
		}
	}

	// set defaults for schedule
	if c.Schedule.FetchInterval == 0 {
		c.Schedule.FetchInterval = 90 * time.Minute
	}
	if c.Schedule.SendCheck == "" {
		c.Schedule.SendCheck = "*/30 * * * *"
	}
	if c.Schedule.MaxWorkers == 0 {
		c.Schedule.MaxWorkers = 4
	}

	// set defaults for server
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if len(cfg.Keywords.Regular)+len(cfg.Keywords.Limited) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	if cfg.Keywords.LimitedCap < 1 {
		return fmt.Errorf("keywords.limited_cap must be at least 1")
	}

	if cfg.NewsAPI.Enabled && len(nonBlank(cfg.NewsAPI.Keys)) == 0 {
		return fmt.Errorf("newsapi.keys is required when newsapi is enabled")
	}
	if cfg.NewsAPI.PageSize < 1 || cfg.NewsAPI.PageSize > 100 {
		return fmt.Errorf("newsapi.page_size must be between 1 and 100")
	}
	if !cfg.NewsAPI.Enabled && len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured, enable newsapi or add sources")
	}

	for i, src := range cfg.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
		if !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
			return fmt.Errorf("sources[%d].url must be http(s), got %q", i, src.URL)
		}
	}

	if cfg.Notify.Enabled {
		if cfg.Notify.SMTP.Host == "" || cfg.Notify.SMTP.From == "" || cfg.Notify.SMTP.To == "" {
			return fmt.Errorf("notify.smtp host, from and to are required when notify is enabled")
		}
		switch cfg.Notify.SMTP.TLS {
		case "mandatory", "opportunistic", "none":
		default:
			return fmt.Errorf("notify.smtp.tls must be mandatory, opportunistic or none")
		}
	}
	names := map[string]bool{}
	for _, w := range cfg.Notify.Windows {
		if w.Name == "" {
			return fmt.Errorf("notify window name is required")
		}
		if names[w.Name] {
			return fmt.Errorf("duplicate notify window %q", w.Name)
		}
		names[w.Name] = true
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("notify window %q must have 0 <= start_hour < end_hour <= 24", w.Name)
		}
	}

	if cfg.Schedule.FetchInterval < time.Minute {
		return fmt.Errorf("schedule.fetch_interval must be at least 1 minute")
	}
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// Location returns the configured timezone, UTC if it can't be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// APIKeys returns non-blank search API keys
func (c *Config) APIKeys() []string {
	return nonBlank(c.NewsAPI.Keys)
}

// Secrets returns values to be masked in logs
func (c *Config) Secrets() []string {
	res := c.APIKeys()
	if c.Notify.SMTP.Password != "" {
		res = append(res, c.Notify.SMTP.Password)
	}
	return res
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

func nonBlank(vals []string) []string {
	res := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
