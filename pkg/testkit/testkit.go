// Package testkit provides the fixtures shared by package tests: a migrated
// and seeded in-memory database and a cookie-carrying HTTP client that
// submits forms the way a browser does.
package testkit

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/eatn/database/migrations"
	"github.com/shashiranjanraj/eatn/database/seeders"
	"github.com/shashiranjanraj/eatn/pkg/database"
	"github.com/shashiranjanraj/eatn/pkg/migration"
)

var dbSeq atomic.Int64

// DB returns a fresh in-memory SQLite database with every migration applied
// and the reference data seeded.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:eatn_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("testkit: open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if _, err := migration.New(db, io.Discard).Run(); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	if err := seeders.RunAll(db, io.Discard); err != nil {
		t.Fatalf("testkit: seed: %v", err)
	}
	return db
}

// Client drives an http.Handler with a cookie jar.
type Client struct {
	t   testing.TB
	h   http.Handler
	jar http.CookieJar
}

var base, _ = url.Parse("http://eatn.test/")

func NewClient(t testing.TB, h http.Handler) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{t: t, h: h, jar: jar}
}

func (c *Client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.jar.Cookies(base) {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	c.jar.SetCookies(base, rec.Result().Cookies())
	return rec
}

// Get issues a GET for path.
func (c *Client) Get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

var tokenRE = regexp.MustCompile(`name="_token" value="([0-9a-f]+)"`)

// Token loads page and returns the CSRF token embedded in its form.
func (c *Client) Token(page string) string {
	c.t.Helper()
	rec := c.Get(page)
	m := tokenRE.FindStringSubmatch(rec.Body.String())
	if m == nil {
		c.t.Fatalf("testkit: no CSRF token on %s (status %d)", page, rec.Code)
	}
	return m[1]
}

// Submit posts form to path after fetching a CSRF token from the same path,
// exactly as a browser submitting the rendered form would.
func (c *Client) Submit(path string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("_token", c.Token(path))
	return c.Post(path, form)
}

// Post sends form as-is.
func (c *Client) Post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// Location returns the redirect target of rec, decoded.
func Location(rec *httptest.ResponseRecorder) string {
	loc := rec.Header().Get("Location")
	if u, err := url.QueryUnescape(loc); err == nil {
		return u
	}
	return loc
}
