package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func statusOnly(w http.ResponseWriter, r *http.Request, status int) {
	w.WriteHeader(status)
}

func withSession(r *http.Request, session *entity.Session) *http.Request {
	return r.WithContext(utils.SetSessionContext(r.Context(), session))
}

func TestRequireLogin(t *testing.T) {
	log := zap.NewNop()

	t.Run("authenticated", func(t *testing.T) {
		session := &entity.Session{}
		session.SetIdentity("u1", "a@example.com")
		recorder := httptest.NewRecorder()
		request := withSession(httptest.NewRequest(http.MethodGet, "/", nil), session)

		RequireLogin(log)(okHandler).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
		recorder := httptest.NewRecorder()
		request := withSession(httptest.NewRequest(http.MethodGet, "/add", nil), &entity.Session{})

		RequireLogin(log)(next).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, LoginPath, recorder.Header().Get("Location"))
		assert.False(t, called)
	})

	t.Run("no session at all", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		RequireLogin(log)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
	})
}

func TestCSRF(t *testing.T) {
	log := zap.NewNop()
	session := &entity.Session{CSRFToken: "token-123"}

	post := func(values url.Values) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(values.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return withSession(r, session)
	}

	t.Run("get passes", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		CSRF(statusOnly, log)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/add", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("matching token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		CSRF(statusOnly, log)(okHandler).ServeHTTP(recorder, post(url.Values{CSRFField: {"token-123"}}))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		CSRF(statusOnly, log)(okHandler).ServeHTTP(recorder, post(url.Values{"title": {"x"}}))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		CSRF(statusOnly, log)(okHandler).ServeHTTP(recorder, post(url.Values{CSRFField: {"token-456"}}))
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

type stubLoader struct {
	session *entity.Session
	err     error
	token   string
}

func (s *stubLoader) Load(_ context.Context, token string) (*entity.Session, error) {
	s.token = token
	return s.session, s.err
}

func TestSession(t *testing.T) {
	log := zap.NewNop()

	t.Run("loads session into context", func(t *testing.T) {
		loader := &stubLoader{session: &entity.Session{Token: "abc"}}
		var seen *entity.Session
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = utils.SessionFromContext(r.Context())
		})

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		Session(loader, "session", statusOnly, log)(next).ServeHTTP(httptest.NewRecorder(), request)

		assert.Equal(t, "abc", loader.token)
		require.NotNil(t, seen)
		assert.Equal(t, "abc", seen.Token)
	})

	t.Run("store failure", func(t *testing.T) {
		loader := &stubLoader{err: errors.New("down")}
		recorder := httptest.NewRecorder()
		Session(loader, "session", statusOnly, log)(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, "", loader.token)
	})
}

func TestRecover(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	recorder := httptest.NewRecorder()
	Recover(statusOnly, zap.NewNop())(panicky).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRateLimit(t *testing.T) {
	log := zap.NewNop()
	limiter := NewRateLimiter(utils.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := RateLimit(limiter, statusOnly, log)(okHandler)
	send := func(method, addr string) int {
		request := httptest.NewRequest(method, "/login", nil)
		request.RemoteAddr = addr
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "10.0.0.1:1002"))

	// other clients and GETs are unaffected
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.2:1000"))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "10.0.0.1:1003"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:1004"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(utils.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1})
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")

	now = start.Add(3 * time.Minute)
	limiter.Allow("10.0.0.1")
	assert.Len(t, limiter.clients, 2)

	// first sweep since start: only the client idle past the TTL goes
	now = start.Add(6 * time.Minute)
	limiter.Allow("10.0.0.3")
	assert.Contains(t, limiter.clients, "10.0.0.1")
	assert.NotContains(t, limiter.clients, "10.0.0.2")
	assert.Equal(t, now, limiter.lastSweep)

	// no second sweep inside the same window
	now = start.Add(10 * time.Minute)
	limiter.Allow("10.0.0.4")
	assert.Len(t, limiter.clients, 3)
	assert.Equal(t, start.Add(6*time.Minute), limiter.lastSweep)
}
