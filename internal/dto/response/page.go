package response

import (
	"movie-watchlist/internal/data/entity"
	"movie-watchlist/pkg/utils"
)

// Page carries what every template needs.
type Page struct {
	Title         string
	Theme         entity.Theme
	Email         string
	Authenticated bool
	CSRFToken     string
	CurrentPath   string
	Flashes       []entity.Flash
}

type IndexPage struct {
	Page
	Movies []*entity.Movie
}

type MovieDetailPage struct {
	Page
	Movie        *entity.Movie
	WatchedToday bool
}

// FormPage renders any form with its values and field messages.
type FormPage struct {
	Page
	Form   any
	Errors utils.FormErrors
	Action string
}

type ErrorPage struct {
	Page
	Status  int
	Message string
}
