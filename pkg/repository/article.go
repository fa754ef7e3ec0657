package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/regwatch/pkg/dedup"
	"github.com/umputun/regwatch/pkg/domain"
)

// ArticleRepository handles article-related database operations
type ArticleRepository struct {
	db *sqlx.DB
}

// articleSQL represents an article for SQL operations
type articleSQL struct {
	ID            int64      `db:"id"`
	Heading       string     `db:"heading"`
	Link          string     `db:"link"`
	Keyword       string     `db:"keyword"`
	Source        string     `db:"source"`
	PublishedDate *time.Time `db:"published_date"`
	IsSent        bool       `db:"is_sent"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const articleColumns = "id, heading, link, keyword, source, published_date, is_sent, created_at, updated_at"

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// InsertBatch stores articles one by one as unsent. Each record ends up inserted, duplicate
// (heading already stored), invalid or failed. A failed record doesn't stop the batch,
// losing the store connection does, in this case stats collected so far are returned with the error.
func (r *ArticleRepository) InsertBatch(ctx context.Context, articles []domain.Article) (domain.InsertStats, error) {
	var stats domain.InsertStats
	if len(articles) == 0 {
		return stats, nil
	}

	if err := r.db.PingContext(ctx); err != nil {
		return stats, fmt.Errorf("ping database: %w", err)
	}

	for i, a := range articles {
		outcome, err := r.insert(ctx, a)
		stats.Add(outcome)
		if err == nil {
			lgr.Printf("[DEBUG] article %s: %q", outcome, dedup.Truncate(a.Heading, 60))
			continue
		}
		if isConnError(err) {
			lgr.Printf("[ERROR] store connection lost at record %d of %d: %v", i+1, len(articles), err)
			return stats, fmt.Errorf("insert batch aborted at record %d: %w", i+1, err)
		}
		lgr.Printf("[WARN] failed to insert article %q from %s (%s): %v",
			dedup.Truncate(a.Heading, 60), a.Source, dedup.Truncate(a.Link, 100), err)
	}

	lgr.Printf("[INFO] stored articles: %d inserted, %d duplicates, %d invalid, %d errors, %d total",
		stats.Inserted, stats.Duplicates, stats.Invalid, stats.Errors, stats.Total())
	return stats, nil
}

// insert stores a single article, returns its outcome
func (r *ArticleRepository) insert(ctx context.Context, a domain.Article) (domain.InsertOutcome, error) {
	heading, link := strings.TrimSpace(a.Heading), strings.TrimSpace(a.Link)
	if heading == "" || link == "" || dedup.Normalize(heading) == "" {
		return domain.OutcomeInvalid, nil
	}

	exists, err := r.HeadingExists(ctx, heading)
	if err != nil {
		return domain.OutcomeError, err
	}
	if exists {
		return domain.OutcomeDuplicate, nil
	}

	var published *time.Time
	if a.PublishedDate != nil {
		ts := a.PublishedDate.UTC()
		published = &ts
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO articles (heading, link, keyword, source, published_date, is_sent) VALUES (?, ?, ?, ?, ?, 0)`,
			heading, link, a.Keyword, a.Source, published)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("insert article: %w", err)}
		}
		return nil
	}, errCritical)

	switch {
	case err == nil:
		return domain.OutcomeInserted, nil
	case isUniqueError(err):
		return domain.OutcomeDuplicate, nil // stored concurrently after the existence check
	default:
		return domain.OutcomeError, err
	}
}

// HeadingExists checks if an article with exactly this heading is stored
func (r *ArticleRepository) HeadingExists(ctx context.Context, heading string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM articles WHERE heading = ?)", heading); err != nil {
		return false, fmt.Errorf("check heading exists: %w", err)
	}
	return exists, nil
}

// QueryUnsent returns unsent articles, newest published first, undated last
func (r *ArticleRepository) QueryUnsent(ctx context.Context) ([]domain.Article, error) {
	var rows []articleSQL
	query := `SELECT ` + articleColumns + ` FROM articles WHERE is_sent = 0
		ORDER BY published_date IS NULL, published_date DESC, created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query unsent articles: %w", err)
	}
	return toDomainArticles(rows), nil
}

// MarkSent sets sent flag for given ids, rows already having this flag are left untouched.
// Returns number of changed rows.
func (r *ArticleRepository) MarkSent(ctx context.Context, ids []int64, status bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`UPDATE articles SET is_sent = ? WHERE is_sent != ? AND id IN (?)`, status, status, ids)
	if err != nil {
		return 0, fmt.Errorf("build mark sent query: %w", err)
	}
	query = r.db.Rebind(query)

	var affected int64
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("mark sent: %w", err)}
		}
		if affected, err = res.RowsAffected(); err != nil {
			return &criticalError{err: fmt.Errorf("get affected rows: %w", err)}
		}
		return nil
	}, errCritical)
	if err != nil {
		return 0, err
	}

	lgr.Printf("[DEBUG] marked %d of %d articles as sent=%v", affected, len(ids), status)
	return affected, nil
}

// Statistics returns aggregated counts over all stored articles
func (r *ArticleRepository) Statistics(ctx context.Context) (domain.Stats, error) {
	var res domain.Stats
	var totals struct {
		Total int `db:"total"`
		Sent  int `db:"sent"`
	}
	if err := r.db.GetContext(ctx, &totals,
		`SELECT COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_sent THEN 1 ELSE 0 END), 0) AS sent FROM articles`); err != nil {
		return res, fmt.Errorf("get totals: %w", err)
	}
	res.Total, res.Sent, res.Unsent = totals.Total, totals.Sent, totals.Total-totals.Sent

	if err := r.db.SelectContext(ctx, &res.ByKeyword,
		`SELECT keyword AS name, COUNT(*) AS count FROM articles GROUP BY keyword ORDER BY count DESC, name`); err != nil {
		return res, fmt.Errorf("get keyword stats: %w", err)
	}
	if err := r.db.SelectContext(ctx, &res.BySource,
		`SELECT source AS name, COUNT(*) AS count FROM articles GROUP BY source ORDER BY count DESC, name`); err != nil {
		return res, fmt.Errorf("get source stats: %w", err)
	}
	return res, nil
}

// List returns most recently stored articles, limit <= 0 returns all
func (r *ArticleRepository) List(ctx context.Context, limit int) ([]domain.Article, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	var rows []articleSQL
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC, id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return toDomainArticles(rows), nil
}

// Get returns article by id
func (r *ArticleRepository) Get(ctx context.Context, id int64) (*domain.Article, error) {
	var row articleSQL
	err := r.db.GetContext(ctx, &row, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("article %d not found: %w", id, err)
	}
	if err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	a := row.toDomain()
	return &a, nil
}

func (a articleSQL) toDomain() domain.Article {
	res := domain.Article{
		ID:        a.ID,
		Heading:   a.Heading,
		Link:      a.Link,
		Keyword:   a.Keyword,
		Source:    a.Source,
		IsSent:    a.IsSent,
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}
	if a.PublishedDate != nil {
		ts := a.PublishedDate.UTC()
		res.PublishedDate = &ts
	}
	return res
}

func toDomainArticles(rows []articleSQL) []domain.Article {
	res := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res
}
