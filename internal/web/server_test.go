package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// visitorStorages hands each visitor its own MemoryStorage.
type visitorStorages struct {
	mu sync.Mutex
	m  map[string]*theme.MemoryStorage
}

func (v *visitorStorages) For(id string) theme.Storage {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.m == nil {
		v.m = make(map[string]*theme.MemoryStorage)
	}
	s, ok := v.m[id]
	if !ok {
		s = theme.NewMemoryStorage()
		v.m[id] = s
	}
	return s
}

func testConfig() config.Config {
	return config.Config{
		Addr:            "127.0.0.1:0",
		ImagesDir:       ".",
		HideThreshold:   80,
		SectionMargin:   120,
		RevealThreshold: 0.15,
		TypeInterval:    5 * time.Millisecond,
		DeleteInterval:  5 * time.Millisecond,
		PauseInterval:   10 * time.Millisecond,
	}
}

func newTestServer(t *testing.T) (*Server, *visitorStorages) {
	t.Helper()
	storages := &visitorStorages{}
	srv, err := NewServer(testConfig(), storages.For, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })
	return srv, storages
}

func visitorCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == visitorCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", visitorCookie)
	return nil
}

func TestIndexRendersPage(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, id := range []string{"hero", "about", "projects", "blog", "experience", "contact"} {
		assert.Contains(t, body, `id="`+id+`"`)
		assert.Contains(t, body, `data-nav="`+id+`"`)
	}
	assert.Contains(t, body, "<strong>actually matters</strong>")
	assert.Contains(t, body, `data-level="90"`)
	assert.NotContains(t, body, `class="dark"`)

	visitorCookieFrom(t, w)
}

func TestIndexKeepsValidVisitorCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: visitorCookie, Value: "5b4c2a9e-0c1f-4a8e-9d3b-2f6e7a1c0d11"})
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies(), "a valid cookie should not be reissued")
}

func TestThemeToggleSurvivesReload(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/theme", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := visitorCookieFrom(t, w)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["darkMode"])

	req := httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["darkMode"])
	tokens := body["tokens"].(map[string]any)
	assert.Equal(t, theme.StyleFor(true).Background, tokens["background"])

	// Reload the page with the same visitor.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="dark"`)

	// A different visitor is unaffected.
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/theme", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["darkMode"])
}

type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, error) { return "", theme.ErrNotFound }
func (brokenStorage) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestThemeToggleFailureReportsError(t *testing.T) {
	srv, err := NewServer(testConfig(), func(string) theme.Storage { return brokenStorage{} },
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Stop() })

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/theme/toggle", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "error")
	assert.NotContains(t, body, "darkMode")

	// The page script must not apply an error body as a theme.
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "if (!r.ok)")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["sessions"])
}

func TestStaticAssetsServed(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/static/app.js", "/static/site.css"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Result().Cookies(), "static assets skip the visitor cookie")
	}
}

func TestStartStop(t *testing.T) {
	srv, _ := newTestServer(t)
	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Stop())
}
