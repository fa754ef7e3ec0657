package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		NewsAPI: NewsAPIConfig{Enabled: true, Keys: []string{"key-1234567890"}},
		Sources: []SourceConfig{{Name: "Mint", URL: "https://www.livemint.com/"}},
	}
	cfg.setDefaults()
	return cfg
}

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", modify: func(c *Config) {}},
		{name: "missing server listen", modify: func(c *Config) { c.Server.Listen = "" },
			wantErr: true, errMsg: "server.listen is required"},
		{name: "missing server timeout", modify: func(c *Config) { c.Server.Timeout = 0 },
			wantErr: true, errMsg: "server.timeout is required"},
		{name: "missing send check", modify: func(c *Config) { c.Schedule.SendCheck = "" },
			wantErr: true, errMsg: "schedule.send_check is required"},
		{name: "zero workers", modify: func(c *Config) { c.Schedule.MaxWorkers = 0 },
			wantErr: true, errMsg: "schedule.max_workers must be positive"},
		{name: "scraper timeout with sources", modify: func(c *Config) { c.Scraper.Timeout = 0 },
			wantErr: true, errMsg: "scraper.timeout is required"},
		{name: "scraper timeout without sources", modify: func(c *Config) { c.Scraper.Timeout = 0; c.Sources = nil }},
		{name: "newsapi endpoint", modify: func(c *Config) { c.NewsAPI.Endpoint = "" },
			wantErr: true, errMsg: "newsapi.endpoint is required"},
		{name: "disabled newsapi endpoint", modify: func(c *Config) { c.NewsAPI.Endpoint = ""; c.NewsAPI.Enabled = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))
	assert.Equal(t, "#/$defs/Config", schema["$ref"])

	defs, ok := schema["$defs"].(map[string]interface{})
	require.True(t, ok)
	for _, name := range []string{"Config", "DatabaseConfig", "KeywordsConfig", "NewsAPIConfig",
		"ScraperConfig", "SourceConfig", "NotifyConfig", "SMTPConfig", "WindowConfig", "ScheduleConfig", "ServerConfig"} {
		assert.Contains(t, defs, name)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetch_interval")
	assert.Contains(t, string(data), "limited_cap")
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{Timezone: "Asia/Kolkata"}
	loc := cfg.Location()
	assert.Equal(t, "Asia/Kolkata", loc.String())
	ts := time.Date(2025, 1, 2, 10, 30, 0, 0, loc)
	assert.Equal(t, 5, ts.UTC().Hour())

	cfg.Timezone = "Nowhere/Invalid"
	assert.Equal(t, time.UTC, cfg.Location())
}
