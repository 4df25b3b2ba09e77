package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/flexigo/internal/cache"
	"github.com/matheuskafuri/flexigo/internal/catalog"
)

func TestParseRating(t *testing.T) {
	n, err := parseRating(" 4 ")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = parseRating("6")
	assert.True(t, errors.Is(err, cache.ErrInvalidRating))

	_, err = parseRating("0")
	assert.True(t, errors.Is(err, cache.ErrInvalidRating))

	_, err = parseRating("five")
	assert.Error(t, err)
}

func TestFeedbackQuery(t *testing.T) {
	cat := catalog.New(catalog.DefaultItems())
	now := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
	setFlags := func(service, since, search string, minRating int) {
		flagFeedbackFor, flagFeedbackSince, flagFeedbackSearch, flagFeedbackMinRating = service, since, search, minRating
	}
	t.Cleanup(func() { setFlags("", "", "", 0) })

	setFlags("boda boda", "7d", " late ", 4)
	q, err := feedbackQuery(cat, now)
	require.NoError(t, err)
	assert.Equal(t, 7, q.ServiceID)
	assert.Equal(t, now.Add(-7*24*time.Hour), q.Since)
	assert.Equal(t, "late", q.Search)
	assert.Equal(t, 4, q.MinRating)

	setFlags("", "", "", 0)
	q, err = feedbackQuery(cat, now)
	require.NoError(t, err)
	assert.Zero(t, q.ServiceID)
	assert.True(t, q.Since.IsZero())
	assert.Zero(t, q.MinRating)

	setFlags("", "", "", 6)
	_, err = feedbackQuery(cat, now)
	assert.ErrorIs(t, err, cache.ErrInvalidRating)

	setFlags("", "0d", "", 0)
	_, err = feedbackQuery(cat, now)
	assert.Error(t, err)

	setFlags("", "-1d", "", 0)
	_, err = feedbackQuery(cat, now)
	assert.Error(t, err)

	setFlags("boats", "", "", 0)
	_, err = feedbackQuery(cat, now)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "2.0 KB", formatBytes(2048))
	assert.Equal(t, "1.5 MB", formatBytes(3<<19))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "90d", formatDuration(90*24*time.Hour))
	assert.Equal(t, "12h", formatDuration(12*time.Hour))
}

func TestWriteFeedback(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	var buf bytes.Buffer
	err := writeFeedback(&buf, []cache.Feedback{
		{ServiceName: "Ride", Rating: 5, Comment: "fast", CreatedAt: at},
		{ServiceName: "Food", Rating: 2, CreatedAt: at},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"2026-03-01 09:30\tRide\t★★★★★\tfast\n"+
			"2026-03-01 09:30\tFood\t★★☆☆☆\t-\n",
		buf.String())
}
