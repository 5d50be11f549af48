package entity

import (
	"time"
)

const (
	MinMovieYear = 1878
	MaxMovieYear = 2023

	MaxRating = 5
)

type Movie struct {
	ID          string     `db:"id" bson:"_id"`
	Title       string     `db:"title" bson:"title"`
	Director    string     `db:"director" bson:"director"`
	Year        int        `db:"year" bson:"year"`
	Cast        []string   `db:"cast_members" bson:"cast"`
	Series      []string   `db:"series" bson:"series"`
	Tags        []string   `db:"tags" bson:"tags"`
	Description string     `db:"description" bson:"description"`
	VideoLink   string     `db:"video_link" bson:"video_link"`
	Rating      int        `db:"rating" bson:"rating"`
	LastWatched *time.Time `db:"last_watched" bson:"last_watched"`
	Timestamps  `bson:",inline"`
}

// NewMovie builds a movie from the basic form fields; everything else starts empty.
func NewMovie(id, title, director string, year int, now time.Time) *Movie {
	return &Movie{
		ID:         id,
		Title:      title,
		Director:   director,
		Year:       year,
		Cast:       []string{},
		Series:     []string{},
		Tags:       []string{},
		Timestamps: NewTimestamps(now),
	}
}

// MovieUpdate is a partial update. Nil fields are left untouched.
type MovieUpdate struct {
	Title       *string
	Director    *string
	Year        *int
	Cast        []string
	Series      []string
	Tags        []string
	Description *string
	VideoLink   *string
	Rating      *int
	LastWatched *time.Time
}

// Fields returns the set fields keyed by their stored name (the bson names;
// the postgres repository translates them to columns).
func (u MovieUpdate) Fields() map[string]any {
	fields := make(map[string]any)
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Director != nil {
		fields["director"] = *u.Director
	}
	if u.Year != nil {
		fields["year"] = *u.Year
	}
	if u.Cast != nil {
		fields["cast"] = u.Cast
	}
	if u.Series != nil {
		fields["series"] = u.Series
	}
	if u.Tags != nil {
		fields["tags"] = u.Tags
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.VideoLink != nil {
		fields["video_link"] = *u.VideoLink
	}
	if u.Rating != nil {
		fields["rating"] = *u.Rating
	}
	if u.LastWatched != nil {
		fields["last_watched"] = *u.LastWatched
	}
	return fields
}

// Apply writes the set fields onto m.
func (u MovieUpdate) Apply(m *Movie) {
	if u.Title != nil {
		m.Title = *u.Title
	}
	if u.Director != nil {
		m.Director = *u.Director
	}
	if u.Year != nil {
		m.Year = *u.Year
	}
	if u.Cast != nil {
		m.Cast = append([]string{}, u.Cast...)
	}
	if u.Series != nil {
		m.Series = append([]string{}, u.Series...)
	}
	if u.Tags != nil {
		m.Tags = append([]string{}, u.Tags...)
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.VideoLink != nil {
		m.VideoLink = *u.VideoLink
	}
	if u.Rating != nil {
		m.Rating = *u.Rating
	}
	if u.LastWatched != nil {
		t := *u.LastWatched
		m.LastWatched = &t
	}
}
