package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/regwatch/pkg/domain"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestArticleRepository_InsertBatch(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	batch := []domain.Article{
		{Heading: "RBI Hikes Rates!", Link: "https://a.example.com/1", Keyword: "RBI", Source: "Mint"},
		{Heading: "SEBI tightens F&O rules", Link: "https://b.example.com/2", Keyword: "SEBI", Source: "ET"},
		{Heading: "RBI Hikes Rates!", Link: "https://c.example.com/3", Keyword: "RBI", Source: "Other"},
		{Heading: "No link here at all", Link: "", Keyword: "GST", Source: "ET"},
		{Heading: "  ", Link: "https://d.example.com/4", Keyword: "GST", Source: "ET"},
		{Heading: "!!! ???", Link: "https://e.example.com/5", Keyword: "GST", Source: "ET"},
	}

	stats, err := repos.Article.InsertBatch(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, domain.InsertStats{Inserted: 2, Duplicates: 1, Invalid: 3}, stats)
	assert.Equal(t, len(batch), stats.Total())

	t.Run("second insert is all duplicates", func(t *testing.T) {
		stats, err := repos.Article.InsertBatch(ctx, batch[:2])
		require.NoError(t, err)
		assert.Equal(t, domain.InsertStats{Duplicates: 2}, stats)
	})

	t.Run("same heading different source and url", func(t *testing.T) {
		stats, err := repos.Article.InsertBatch(ctx, []domain.Article{
			{Heading: "SEBI tightens F&O rules", Link: "https://z.example.com/other", Keyword: "SEBI", Source: "Z"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Duplicates)
	})

	t.Run("store lookup is exact", func(t *testing.T) {
		exists, err := repos.Article.HeadingExists(ctx, "RBI Hikes Rates!")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repos.Article.HeadingExists(ctx, "rbi hikes rates")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("empty batch", func(t *testing.T) {
		stats, err := repos.Article.InsertBatch(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, stats.Total())
	})

	all, err := repos.Article.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, a := range all {
		assert.False(t, a.IsSent, "inserted as unsent")
		assert.False(t, a.CreatedAt.IsZero())
	}
}

func TestArticleRepository_QueryUnsentAndMarkSent(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	_, err = repos.Article.InsertBatch(ctx, []domain.Article{
		{Heading: "Article A about customs", Link: "https://x/a", Keyword: "Customs", Source: "S1",
			PublishedDate: ptrTime(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))},
		{Heading: "Article B about customs", Link: "https://x/b", Keyword: "Customs", Source: "S1",
			PublishedDate: ptrTime(time.Date(2025, 1, 3, 15, 30, 0, 0, ist))},
		{Heading: "Article C without date", Link: "https://x/c", Keyword: "GST", Source: "S2"},
		{Heading: "Article D about customs", Link: "https://x/d", Keyword: "Customs", Source: "S2",
			PublishedDate: ptrTime(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))},
	})
	require.NoError(t, err)

	unsent, err := repos.Article.QueryUnsent(ctx)
	require.NoError(t, err)
	require.Len(t, unsent, 4)
	headings := func(articles []domain.Article) []string {
		res := make([]string, 0, len(articles))
		for _, a := range articles {
			res = append(res, a.Heading)
		}
		return res
	}
	assert.Equal(t, []string{"Article B about customs", "Article D about customs", "Article A about customs",
		"Article C without date"}, headings(unsent), "newest first, undated last")

	require.NotNil(t, unsent[0].PublishedDate)
	assert.Equal(t, time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC), *unsent[0].PublishedDate, "stored as utc")

	t.Run("mark sent", func(t *testing.T) {
		ids := []int64{unsent[0].ID, unsent[1].ID}
		affected, err := repos.Article.MarkSent(ctx, ids, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		affected, err = repos.Article.MarkSent(ctx, ids, true)
		require.NoError(t, err)
		assert.Zero(t, affected, "second call is a no-op")

		rest, err := repos.Article.QueryUnsent(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Article A about customs", "Article C without date"}, headings(rest))

		a, err := repos.Article.Get(ctx, ids[0])
		require.NoError(t, err)
		assert.True(t, a.IsSent)
	})

	t.Run("mark sent with no ids", func(t *testing.T) {
		affected, err := repos.Article.MarkSent(ctx, nil, true)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("unknown ids", func(t *testing.T) {
		affected, err := repos.Article.MarkSent(ctx, []int64{9998, 9999}, true)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("statistics", func(t *testing.T) {
		stats, err := repos.Article.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Sent)
		assert.Equal(t, 2, stats.Unsent)
		assert.Equal(t, []domain.Count{{Name: "Customs", Count: 3}, {Name: "GST", Count: 1}}, stats.ByKeyword)
		assert.Equal(t, []domain.Count{{Name: "S1", Count: 2}, {Name: "S2", Count: 2}}, stats.BySource)
	})

	t.Run("list with limit", func(t *testing.T) {
		res, err := repos.Article.List(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, "Article D about customs", res[0].Heading, "most recently stored first")
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repos.Article.Get(ctx, 12345)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestArticleRepository_StatisticsEmpty(t *testing.T) {
	repos := setupTestDB(t)
	stats, err := repos.Article.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Sent)
	assert.Empty(t, stats.ByKeyword)
}

func newMockRepo(t *testing.T, monitorPings bool) (*ArticleRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(monitorPings))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewArticleRepository(sqlx.NewDb(db, "sqlite")), mock
}

var (
	existsQuery = regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM articles WHERE heading = ?)")
	insertQuery = regexp.QuoteMeta("INSERT INTO articles")
)

func mockBatch() []domain.Article {
	return []domain.Article{
		{Heading: "first heading about GST", Link: "https://x/1", Keyword: "GST", Source: "S"},
		{Heading: "second heading about GST", Link: "https://x/2", Keyword: "GST", Source: "S"},
		{Heading: "third heading about GST", Link: "https://x/3", Keyword: "GST", Source: "S"},
	}
}

func TestArticleRepository_InsertBatchFailures(t *testing.T) {
	t.Run("ping failure writes nothing", func(t *testing.T) {
		repo, mock := newMockRepo(t, true)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		stats, err := repo.InsertBatch(context.Background(), mockBatch())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ping database")
		assert.Zero(t, stats.Total())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("connection lost mid batch", func(t *testing.T) {
		repo, mock := newMockRepo(t, false)
		mock.ExpectQuery(existsQuery).WithArgs("first heading about GST").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(existsQuery).WithArgs("second heading about GST").WillReturnError(sql.ErrConnDone)

		stats, err := repo.InsertBatch(context.Background(), mockBatch())
		require.Error(t, err)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Equal(t, domain.InsertStats{Inserted: 1, Errors: 1}, stats, "third record never attempted")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record failure does not stop batch", func(t *testing.T) {
		repo, mock := newMockRepo(t, false)
		mock.ExpectQuery(existsQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).WillReturnError(errors.New("NOT NULL constraint failed: articles.keyword"))
		mock.ExpectQuery(existsQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(existsQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(3, 1))

		stats, err := repo.InsertBatch(context.Background(), mockBatch())
		require.NoError(t, err)
		assert.Equal(t, domain.InsertStats{Inserted: 1, Duplicates: 1, Errors: 1}, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock is retried", func(t *testing.T) {
		repo, mock := newMockRepo(t, false)
		mock.ExpectQuery(existsQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).WillReturnError(errors.New("database is locked (5) (SQLITE_BUSY)"))
		mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(1, 1))

		stats, err := repo.InsertBatch(context.Background(), mockBatch()[:1])
		require.NoError(t, err)
		assert.Equal(t, domain.InsertStats{Inserted: 1}, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent unique violation is a duplicate", func(t *testing.T) {
		repo, mock := newMockRepo(t, false)
		mock.ExpectQuery(existsQuery).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(insertQuery).WillReturnError(errors.New("UNIQUE constraint failed: articles.heading"))

		stats, err := repo.InsertBatch(context.Background(), mockBatch()[:1])
		require.NoError(t, err)
		assert.Equal(t, domain.InsertStats{Duplicates: 1}, stats)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("canceled context aborts", func(t *testing.T) {
		repo, _ := newMockRepo(t, false)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := repo.InsertBatch(ctx, mockBatch())
		require.Error(t, err)
	})
}

func TestArticleRepository_MarkSentFailure(t *testing.T) {
	repo, mock := newMockRepo(t, false)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE articles SET is_sent = ? WHERE is_sent != ? AND id IN (?, ?)")).
		WithArgs(true, true, int64(1), int64(2)).
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.MarkSent(context.Background(), []int64{1, 2}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark sent")
	assert.NoError(t, mock.ExpectationsWereMet())
}
