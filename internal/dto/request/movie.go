package request

import (
	"strconv"
	"strings"

	"movie-watchlist/internal/data/entity"
)

type MovieForm struct {
	Title    string `schema:"title" validate:"required"`
	Director string `schema:"director" validate:"required"`
	Year     string `schema:"year" validate:"required,movieyear" errorMsg:"Please enter a year in the format YYYY."`
}

// YearValue is only meaningful once the form has validated.
func (f MovieForm) YearValue() int {
	year, _ := strconv.Atoi(strings.TrimSpace(f.Year))
	return year
}

// ExtendedMovieForm edits every user-facing movie field. List fields hold the
// raw textarea text.
type ExtendedMovieForm struct {
	MovieForm
	Cast        string `schema:"cast"`
	Series      string `schema:"series"`
	Tags        string `schema:"tags"`
	Description string `schema:"description"`
	VideoLink   string `schema:"video_link" validate:"omitempty,url"`
}

// ExtendedMovieFormFrom pre-fills the edit form with the stored movie.
func ExtendedMovieFormFrom(m *entity.Movie) ExtendedMovieForm {
	return ExtendedMovieForm{
		MovieForm: MovieForm{
			Title:    m.Title,
			Director: m.Director,
			Year:     strconv.Itoa(m.Year),
		},
		Cast:        JoinStringList(m.Cast),
		Series:      JoinStringList(m.Series),
		Tags:        JoinStringList(m.Tags),
		Description: m.Description,
		VideoLink:   m.VideoLink,
	}
}

// Update converts a validated form into a full-field update.
func (f ExtendedMovieForm) Update() entity.MovieUpdate {
	title := f.Title
	director := f.Director
	year := f.YearValue()
	description := f.Description
	videoLink := f.VideoLink

	return entity.MovieUpdate{
		Title:       &title,
		Director:    &director,
		Year:        &year,
		Cast:        ParseStringList(f.Cast),
		Series:      ParseStringList(f.Series),
		Tags:        ParseStringList(f.Tags),
		Description: &description,
		VideoLink:   &videoLink,
	}
}
