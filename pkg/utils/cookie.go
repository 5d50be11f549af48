package utils

import (
	"net/http"
	"time"
)

// SetSessionCookie writes the session token cookie. It is never readable
// from scripts.
func SetSessionCookie(w http.ResponseWriter, config SessionConfig, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
