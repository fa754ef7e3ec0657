package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/regwatch/pkg/domain"
)

// SettingRepository handles setting-related database operations
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSetting retrieves a setting value, empty string if not set
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting stores a setting value
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// LimitedKeywords returns operator-edited limited keyword list, ok is false if never edited
func (r *SettingRepository) LimitedKeywords(ctx context.Context) (keywords []string, ok bool, err error) {
	value, err := r.GetSetting(ctx, domain.SettingLimitedKeywords)
	if err != nil {
		return nil, false, err
	}
	if value == "" {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(value), &keywords); err != nil {
		return nil, false, fmt.Errorf("decode limited keywords: %w", err)
	}
	return keywords, true, nil
}

// SetLimitedKeywords stores limited keyword list
func (r *SettingRepository) SetLimitedKeywords(ctx context.Context, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("encode limited keywords: %w", err)
	}
	return r.SetSetting(ctx, domain.SettingLimitedKeywords, string(data))
}

// WindowSent returns the date (YYYY-MM-DD) of the last successful send for a window, empty if none
func (r *SettingRepository) WindowSent(ctx context.Context, window string) (string, error) {
	return r.GetSetting(ctx, domain.SettingWindowPrefix+window)
}

// SetWindowSent records the date of a successful send for a window
func (r *SettingRepository) SetWindowSent(ctx context.Context, window, date string) error {
	return r.SetSetting(ctx, domain.SettingWindowPrefix+window, date)
}
