package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	// parse schema
	var schema struct {
		Ref  string `json:"$ref"`
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]interface{}
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	// every top-level config section must be known to the schema
	root, ok := schema.Defs[strings.TrimPrefix(schema.Ref, "#/$defs/")]
	if !ok {
		return fmt.Errorf("schema root %q not found", schema.Ref)
	}
	var unknown []string
	for k := range configMap {
		if _, ok := root.Properties[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("sections missing from schema: %s", strings.Join(unknown, ", "))
	}

	// basic validation - check required fields match
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	// check server config
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}

	// check schedule config
	if cfg.Schedule.SendCheck == "" {
		return fmt.Errorf("schedule.send_check is required")
	}
	if cfg.Schedule.MaxWorkers < 1 {
		return fmt.Errorf("schedule.max_workers must be positive")
	}

	// check scraper config if any source is scraped
	if len(cfg.Sources) > 0 {
		if cfg.Scraper.Timeout == 0 {
			return fmt.Errorf("scraper.timeout is required when sources are configured")
		}
		if cfg.Scraper.MaxArticles == 0 {
			return fmt.Errorf("scraper.max_articles is required when sources are configured")
		}
	}

	// check search api config if enabled
	if cfg.NewsAPI.Enabled && cfg.NewsAPI.Endpoint == "" {
		return fmt.Errorf("newsapi.endpoint is required when newsapi is enabled")
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
