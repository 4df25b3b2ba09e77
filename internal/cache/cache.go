package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/matheuskafuri/flexigo/internal/cache/migrations"
)

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidRetention = errors.New("retention must be positive")
)

const defaultLimit = 500

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.migrate(context.Background()); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, c.writeDB, "."); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

// AddFeedback stores fb, assigning its ID and timestamp when unset.
func (c *Cache) AddFeedback(ctx context.Context, fb Feedback) (Feedback, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return Feedback{}, fmt.Errorf("%w, got %d", ErrInvalidRating, fb.Rating)
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	fb.CreatedAt = fb.CreatedAt.UTC()
	fb.Comment = strings.TrimSpace(fb.Comment)

	_, err := c.writeDB.ExecContext(ctx, `
		INSERT INTO feedback (id, service_id, service_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fb.ID, fb.ServiceID, fb.ServiceName, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		return Feedback{}, fmt.Errorf("inserting feedback for %s: %w", fb.ServiceName, err)
	}
	return fb, nil
}

// GetFeedback returns matching feedback, newest first.
func (c *Cache) GetFeedback(ctx context.Context, q FeedbackQuery) ([]Feedback, error) {
	var (
		where []string
		args  []interface{}
	)

	if q.ServiceID > 0 {
		where = append(where, "service_id = ?")
		args = append(args, q.ServiceID)
	}

	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC())
	}

	if q.MinRating > 0 {
		where = append(where, "rating >= ?")
		args = append(args, q.MinRating)
	}

	if q.Search != "" {
		where = append(where, "(comment LIKE ? OR service_name LIKE ?)")
		term := "%" + q.Search + "%"
		args = append(args, term, term)
	}

	query := "SELECT id, service_id, service_name, rating, comment, created_at FROM feedback"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := c.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.ServiceID, &fb.ServiceName, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

// AverageRating returns the mean rating and number of ratings for a service.
func (c *Cache) AverageRating(ctx context.Context, serviceID int) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := c.readDB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating), 0.0), COUNT(*) FROM feedback WHERE service_id = ?", serviceID,
	).Scan(&avg, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("averaging ratings for service %d: %w", serviceID, err)
	}
	return avg, count, nil
}

// Prune deletes feedback older than the retention period.
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("%w, got %s", ErrInvalidRetention, olderThan)
	}
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := c.writeDB.ExecContext(ctx, "DELETE FROM feedback WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning feedback: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns the feedback count and the on-disk size of the database.
func (c *Cache) Stats(ctx context.Context, dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM feedback").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting feedback: %w", err)
	}
	fi, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat %s: %w", dbPath, err)
	}
	return count, fi.Size(), nil
}

func (c *Cache) SetLastOpened(ctx context.Context) error {
	return c.setMeta(ctx, "last_opened", time.Now().UTC().Format(time.RFC3339))
}

func (c *Cache) GetLastOpened(ctx context.Context) (time.Time, error) {
	value, err := c.getMeta(ctx, "last_opened")
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, value)
}

func (c *Cache) setMeta(ctx context.Context, key, value string) error {
	_, err := c.writeDB.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %s: %w", key, err)
	}
	return nil
}

func (c *Cache) getMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := c.readDB.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, nil
}
