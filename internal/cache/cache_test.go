package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleFeedback() []Feedback {
	now := time.Now()
	return []Feedback{
		{ServiceID: 1, ServiceName: "Ride", Rating: 5, Comment: "Quick pickup", CreatedAt: now.Add(-1 * time.Hour)},
		{ServiceID: 5, ServiceName: "Food", Rating: 3, Comment: "Cold fries", CreatedAt: now.Add(-2 * time.Hour)},
		{ServiceID: 1, ServiceName: "Ride", Rating: 4, Comment: "Driver was late", CreatedAt: now.Add(-48 * time.Hour)},
	}
}

func seed(t *testing.T, db *Cache) []Feedback {
	t.Helper()
	var out []Feedback
	for _, fb := range sampleFeedback() {
		saved, err := db.AddFeedback(context.Background(), fb)
		if err != nil {
			t.Fatalf("AddFeedback: %v", err)
		}
		out = append(out, saved)
	}
	return out
}

func TestAddAndGetFeedback(t *testing.T) {
	db := testDB(t)
	saved := seed(t, db)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 feedback rows, got %d", len(got))
	}
	// Newest first
	if got[0].ID != saved[0].ID {
		t.Errorf("expected newest first, got %s", got[0].Comment)
	}
	if got[0].Rating != 5 || got[0].ServiceName != "Ride" {
		t.Errorf("unexpected row: %+v", got[0])
	}
}

func TestAddFeedbackAssignsIDAndTime(t *testing.T) {
	db := testDB(t)
	fb, err := db.AddFeedback(context.Background(), Feedback{ServiceID: 2, ServiceName: "Reserve", Rating: 4, Comment: "  fine  "})
	require.NoError(t, err)

	assert.NotEmpty(t, fb.ID)
	assert.WithinDuration(t, time.Now(), fb.CreatedAt, 5*time.Second)
	assert.Equal(t, "fine", fb.Comment)
}

func TestAddFeedbackRejectsBadRating(t *testing.T) {
	db := testDB(t)
	for _, r := range []int{0, 6, -1} {
		_, err := db.AddFeedback(context.Background(), Feedback{ServiceID: 1, ServiceName: "Ride", Rating: r})
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", r, err)
		}
	}
}

func TestQueryByService(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{ServiceID: 1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, fb := range got {
		assert.Equal(t, "Ride", fb.ServiceName)
	}
}

func TestQuerySince(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{Since: time.Now().Add(-3 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQuerySearchAndMinRating(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{Search: "late"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Rating)

	got, err = db.GetFeedback(context.Background(), FeedbackQuery{MinRating: 4})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = db.GetFeedback(context.Background(), FeedbackQuery{Search: "food", MinRating: 4})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryLimit(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAverageRating(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	avg, n, err := db.AverageRating(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 4.5, avg, 0.001)

	avg, n, err = db.AverageRating(context.Background(), 9)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, avg)
}

func TestEmptyDB(t *testing.T) {
	db := testDB(t)

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 rows in empty db, got %d", len(got))
	}
}

func TestPruneDeletesOldFeedback(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// The third entry is 48h old.
	deleted, err := db.Prune(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	got, _ := db.GetFeedback(context.Background(), FeedbackQuery{})
	if len(got) != 2 {
		t.Errorf("expected 2 remaining rows, got %d", len(got))
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	deleted, err := db.Prune(context.Background(), 365*24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestPruneRejectsNonPositiveRetention(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	for _, d := range []time.Duration{0, -24 * time.Hour, -5 * time.Minute} {
		deleted, err := db.Prune(context.Background(), d)
		assert.ErrorIs(t, err, ErrInvalidRetention, "retention %s", d)
		assert.Zero(t, deleted)
	}

	all, err := db.GetFeedback(context.Background(), FeedbackQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3, "nothing may be deleted")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "★★★★★", Stars(9))
}

func TestStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	seed(t, db)

	count, size, err := db.Stats(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NotZero(t, size)
}

func TestLastOpened(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetLastOpened(ctx); err == nil {
		t.Error("expected error when no last_opened set")
	}

	require.NoError(t, db.SetLastOpened(ctx))
	got, err := db.GetLastOpened(ctx)
	require.NoError(t, err)
	if time.Since(got) > 2*time.Second {
		t.Errorf("last opened too old: %v", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	require.NoError(t, err)
	seed(t, db)
	require.NoError(t, db.Close())

	db, err = Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.GetFeedback(context.Background(), FeedbackQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestOpenCreatesDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}

func TestOpenFailsWhenMigrationFails(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := Open(filepath.Join(t.TempDir(), "test.db"))
	assert.ErrorContains(t, err, "migrating schema")
}
