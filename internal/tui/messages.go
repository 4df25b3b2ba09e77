package tui

import (
	"time"

	"github.com/matheuskafuri/flexigo/internal/cache"
)

// ratingSummary is the aggregated feedback shown next to a service.
type ratingSummary struct {
	avg   float64
	count int
	last  time.Time
}

type ratingsLoadedMsg struct {
	ratings map[int]ratingSummary
}

type feedbackSavedMsg struct {
	feedback cache.Feedback
	summary  ratingSummary
}

type errMsg struct {
	err error
}
