package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/regwatch/pkg/domain"
)

// setupTestDB creates sqlite database in a temp directory
func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	cfg := Config{
		DSN:          "file:" + filepath.Join(t.TempDir(), "test.db") + "?cache=shared&mode=rwc&_txlock=immediate",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func TestRepositories_Integration(t *testing.T) {
	cfg := Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	}

	repos, err := NewRepositories(context.Background(), cfg)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, repos.Close())
	}()

	require.NoError(t, repos.Ping(context.Background()))
	require.NotNil(t, repos.Article)
	require.NotNil(t, repos.Setting)

	t.Run("article round trip", func(t *testing.T) {
		ctx := context.Background()
		stats, err := repos.Article.InsertBatch(ctx, []domain.Article{
			{Heading: "GST council meets on insurance rates", Link: "https://example.com/gst", Keyword: "GST", Source: "Mint"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InsertStats{Inserted: 1}, stats)

		unsent, err := repos.Article.QueryUnsent(ctx)
		require.NoError(t, err)
		require.Len(t, unsent, 1)
		assert.False(t, unsent[0].IsSent)
		assert.Nil(t, unsent[0].PublishedDate)
	})

	t.Run("settings", func(t *testing.T) {
		require.NoError(t, repos.Setting.SetSetting(context.Background(), "k", "v"))
		v, err := repos.Setting.GetSetting(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	})
}

func TestNewRepositories_SchemaIdempotent(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "again.db") + "?mode=rwc"
	for i := 0; i < 2; i++ {
		repos, err := NewRepositories(context.Background(), Config{DSN: dsn})
		require.NoError(t, err)
		require.NoError(t, repos.Close())
	}
}
