package wire

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"movie-watchlist/internal/data/repository"
	"movie-watchlist/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	csrfPattern    = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)
	movieIDPattern = regexp.MustCompile(`href="/movie/([0-9a-f]{32})"`)
)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
	repo   *repository.Repository
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	return newTestClientWithConfig(t, testConfig())
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session:   utils.SessionConfig{CookieName: "session", TTL: time.Hour},
		Security:  utils.SecurityConfig{BcryptCost: 4},
		RateLimit: utils.RateLimitConfig{Enabled: false},
	}
}

func newTestClientWithConfig(t *testing.T, config *utils.Config) *testClient {
	t.Helper()

	repo := repository.NewMemoryRepository()

	app, err := Wiring(repo, nil, config, zap.NewNop())
	require.NoError(t, err)

	server := httptest.NewServer(app.Router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:      t,
		server: server,
		repo:   repo,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) get(path string) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

// submit loads formPath for a CSRF token and posts values to it.
func (c *testClient) submit(formPath string, values url.Values) (*http.Response, string) {
	c.t.Helper()
	return c.submitWithHeader(formPath, values, nil)
}

func (c *testClient) submitWithHeader(formPath string, values url.Values, header http.Header) (*http.Response, string) {
	c.t.Helper()
	_, page := c.get(formPath)
	match := csrfPattern.FindStringSubmatch(page)
	require.Len(c.t, match, 2, "no csrf token on %s", formPath)

	values.Set("csrf_token", match[1])
	req, err := http.NewRequest(http.MethodPost, c.server.URL+formPath, strings.NewReader(values.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, vals := range header {
		req.Header[key] = vals
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp, readBody(c.t, resp)
}

func (c *testClient) register(email, password string) *http.Response {
	resp, _ := c.submit("/register", url.Values{
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
	return resp
}

func (c *testClient) login(email, password string) *http.Response {
	resp, _ := c.submit("/login", url.Values{"email": {email}, "password": {password}})
	return resp
}

func (c *testClient) addMovie(title, director, year string) string {
	c.t.Helper()
	resp, _ := c.submit("/add", url.Values{"title": {title}, "director": {director}, "year": {year}})
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)

	_, index := c.get("/")
	matches := movieIDPattern.FindAllStringSubmatch(index, -1)
	require.NotEmpty(c.t, matches)
	return matches[len(matches)-1][1]
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegisterAndLogin(t *testing.T) {
	c := newTestClient(t)

	resp := c.register("a@example.com", "secret")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// registering does not log the user in
	resp, _ = c.get("/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, page := c.get("/login")
	assert.Contains(t, page, "User registered successfully")

	resp = c.login("a@example.com", "secret")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, page = c.get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "a@example.com")

	// authenticated visitors are sent home
	resp, _ = c.get("/login")
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = c.get("/logout")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp, _ = c.get("/")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	c := newTestClient(t)
	require.Equal(t, http.StatusSeeOther, c.register("a@example.com", "secret").StatusCode)

	resp, page := c.submit("/register", url.Values{
		"email":            {"a@example.com"},
		"password":         {"another"},
		"confirm_password": {"another"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, page, "An account with this email already exists.")
}

func TestRegisterValidationErrors(t *testing.T) {
	c := newTestClient(t)

	resp, page := c.submit("/register", url.Values{
		"email":            {"not-an-email"},
		"password":         {"abc"},
		"confirm_password": {"abd"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, page, "Invalid email address.")
	assert.Contains(t, page, "Your password must be between 4 and 20 characters long.")
	assert.Contains(t, page, "This password did not match the one in the password.")
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	c := newTestClient(t)
	require.Equal(t, http.StatusSeeOther, c.register("a@example.com", "secret").StatusCode)
	c.get("/login") // consume the registration flash

	wrongPassword := c.login("a@example.com", "wrong")
	_, wrongPasswordPage := c.get("/login")

	unknownEmail := c.login("b@example.com", "secret")
	_, unknownEmailPage := c.get("/login")

	assert.Equal(t, http.StatusSeeOther, wrongPassword.StatusCode)
	assert.Equal(t, wrongPassword.StatusCode, unknownEmail.StatusCode)
	assert.Equal(t, "/login", wrongPassword.Header.Get("Location"))
	assert.Equal(t, wrongPassword.Header.Get("Location"), unknownEmail.Header.Get("Location"))
	assert.Contains(t, wrongPasswordPage, "Login credentials not correct!")
	assert.Contains(t, unknownEmailPage, "Login credentials not correct!")
}

func TestMovieFlow(t *testing.T) {
	c := newTestClient(t)
	require.Equal(t, http.StatusSeeOther, c.register("a@example.com", "secret").StatusCode)
	require.Equal(t, http.StatusSeeOther, c.login("a@example.com", "secret").StatusCode)

	id := c.addMovie("Alien", "Ridley Scott", "1979")

	t.Run("index lists the movie and the owner references it", func(t *testing.T) {
		_, page := c.get("/")
		assert.Contains(t, page, "Alien")

		user, err := c.repo.User.FindByEmail(t.Context(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{id}, user.Movies)
	})

	t.Run("invalid year is rejected", func(t *testing.T) {
		resp, page := c.submit("/add", url.Values{"title": {"Old"}, "director": {"X"}, "year": {"1877"}})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, page, "Please enter a year in the format YYYY.")
	})

	t.Run("rate persists", func(t *testing.T) {
		resp, _ := c.get("/movie/" + id + "/rate?rating=5")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/movie/"+id, resp.Header.Get("Location"))

		_, page := c.get("/movie/" + id)
		assert.Contains(t, page, `data-rating="5"`)
		_, page = c.get("/movie/" + id)
		assert.Contains(t, page, `data-rating="5"`)
	})

	t.Run("bad ratings", func(t *testing.T) {
		for _, query := range []string{"", "?rating=", "?rating=abc", "?rating=6", "?rating=-1"} {
			resp, _ := c.get("/movie/" + id + "/rate" + query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", query)
		}
	})

	t.Run("watch today", func(t *testing.T) {
		resp, _ := c.get("/movie/" + id + "/watch")
		assert.Equal(t, "/movie/"+id, resp.Header.Get("Location"))

		movie, err := c.repo.Movie.FindByID(t.Context(), id)
		require.NoError(t, err)
		require.NotNil(t, movie.LastWatched)

		_, page := c.get("/movie/" + id)
		assert.Contains(t, page, `class="watched-today"`)
	})

	t.Run("edit", func(t *testing.T) {
		resp, page := c.submit("/edit/"+id, url.Values{
			"title":      {"Alien"},
			"director":   {"Ridley Scott"},
			"year":       {"1979"},
			"cast":       {"A\nB\n\nC"},
			"video_link": {"https://example.com/alien"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, page)
		assert.Equal(t, "/movie/"+id, resp.Header.Get("Location"))

		movie, err := c.repo.Movie.FindByID(t.Context(), id)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "", "C"}, movie.Cast)
		assert.Equal(t, 5, movie.Rating)
	})

	t.Run("unknown movie", func(t *testing.T) {
		missing := strings.Repeat("0", 32)
		for _, path := range []string{
			"/movie/" + missing,
			"/edit/" + missing,
			"/movie/" + missing + "/rate?rating=3",
			"/movie/" + missing + "/watch",
		} {
			resp, _ := c.get(path)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		}
	})
}

func TestProtectedRoutesRedirect(t *testing.T) {
	c := newTestClient(t)
	for _, path := range []string{"/", "/add", "/edit/abc", "/movie/abc/rate?rating=1", "/movie/abc/watch"} {
		resp, _ := c.get(path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestToggleTheme(t *testing.T) {
	c := newTestClient(t)

	_, page := c.get("/login")
	assert.Contains(t, page, `data-theme="light"`)

	resp, _ := c.get("/toggle-theme?current_page=/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, page = c.get("/login")
	assert.Contains(t, page, `data-theme="dark"`)

	resp, _ = c.get("/toggle-theme?current_page=//evil.example")
	assert.Equal(t, "/", resp.Header.Get("Location"))
	_, page = c.get("/login")
	assert.Contains(t, page, `data-theme="light"`)

	// a tab after the first slash turns into "//" in a browser
	for _, target := range []string{"/%09/evil.example", "/%0B/evil", "/%09%5Cevil"} {
		resp, _ = c.get("/toggle-theme?current_page=" + target)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, target)
		assert.Equal(t, "/", resp.Header.Get("Location"), target)
	}
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	config := testConfig()
	config.RateLimit = utils.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	c := newTestClientWithConfig(t, config)

	var statuses []int
	for i := 0; i < 3; i++ {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("10.9.9.%d", i))
		header.Set("X-Real-IP", fmt.Sprintf("10.9.8.%d", i))

		resp, _ := c.submitWithHeader("/login", url.Values{"email": {"a@example.com"}, "password": {"secret"}}, header)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusSeeOther, http.StatusTooManyRequests, http.StatusTooManyRequests}, statuses)
}

func TestRateLimitTrustsProxyWhenConfigured(t *testing.T) {
	config := testConfig()
	config.App.TrustProxy = true
	config.RateLimit = utils.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	c := newTestClientWithConfig(t, config)

	for i := 0; i < 3; i++ {
		header := http.Header{}
		header.Set("X-Forwarded-For", fmt.Sprintf("10.9.9.%d", i))

		resp, _ := c.submitWithHeader("/login", url.Values{"email": {"a@example.com"}, "password": {"secret"}}, header)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "client %d", i)
	}
}

func TestCSRFRequired(t *testing.T) {
	c := newTestClient(t)
	c.get("/register")

	resp, err := c.http.PostForm(c.server.URL+"/register", url.Values{
		"email":            {"a@example.com"},
		"password":         {"secret"},
		"confirm_password": {"secret"},
	})
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNotFoundAndHealth(t *testing.T) {
	c := newTestClient(t)

	resp, _ := c.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := c.get("/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload utils.Response
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.True(t, payload.Status)
	assert.Equal(t, "OK", payload.Message)
}
