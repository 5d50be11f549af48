package entity

import (
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashDanger  FlashCategory = "danger"
)

type Flash struct {
	Category FlashCategory `json:"category" bson:"category"`
	Message  string        `json:"message" bson:"message"`
}

// Session is the server-side state behind the session cookie. UserID and
// Email are always set and cleared together.
type Session struct {
	Token      string     `db:"token" bson:"_id"`
	UserID     *string    `db:"user_id" bson:"user_id"`
	Email      *string    `db:"email" bson:"email"`
	Theme      Theme      `db:"theme" bson:"theme"`
	CSRFToken  string     `db:"csrf_token" bson:"csrf_token"`
	Flashes    []Flash    `db:"flashes" bson:"flashes"`
	ExpiresAt  time.Time  `db:"expires_at" bson:"expires_at"`
	Timestamps `bson:",inline"`

	// Modified marks sessions that must be written back before the response.
	Modified bool `db:"-" bson:"-"`
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID != nil && s.Email != nil
}

func (s *Session) SetIdentity(userID, email string) {
	s.UserID = &userID
	s.Email = &email
	s.Modified = true
}

// ClearIdentity logs the session out. Clearing an anonymous session is a no-op.
func (s *Session) ClearIdentity() {
	if s.UserID == nil && s.Email == nil {
		return
	}
	s.UserID = nil
	s.Email = nil
	s.Modified = true
}

// CurrentTheme treats an unset theme as light.
func (s *Session) CurrentTheme() Theme {
	if s.Theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Session) ToggleTheme() Theme {
	if s.CurrentTheme() == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	s.Modified = true
	return s.Theme
}

func (s *Session) AddFlash(category FlashCategory, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
	s.Modified = true
}

// PopFlashes returns pending flashes and empties the queue.
func (s *Session) PopFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	s.Modified = true
	return flashes
}
