package response

import (
	"time"

	"movie-watchlist/internal/data/entity"
)

// StarStates returns one entry per rating star, true where the movie's
// rating reaches it.
func StarStates(rating int) []bool {
	stars := make([]bool, entity.MaxRating)
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}

// LastWatchedLabel formats the last watched date, or "" if never watched.
func LastWatchedLabel(m *entity.Movie) string {
	if m == nil || m.LastWatched == nil {
		return ""
	}
	return m.LastWatched.UTC().Format("02 Jan 2006")
}

// IsWatchedOn reports whether m was last watched on the same UTC day as day.
func IsWatchedOn(m *entity.Movie, day time.Time) bool {
	if m == nil || m.LastWatched == nil {
		return false
	}
	y1, m1, d1 := m.LastWatched.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
