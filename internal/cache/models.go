package cache

import (
	"strings"
	"time"
)

// Feedback is one "rate our services" submission.
type Feedback struct {
	ID          string
	ServiceID   int
	ServiceName string
	Rating      int
	Comment     string
	CreatedAt   time.Time
}

type FeedbackQuery struct {
	ServiceID int // 0 = all services
	Search    string
	Since     time.Time
	MinRating int
	Limit     int
}

// Stars renders a rating as five filled or empty stars, clamped to 0..5.
func Stars(rating int) string {
	n := min(max(rating, 0), 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
