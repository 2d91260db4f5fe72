package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/atelier/internal/content"
	"github.com/roach88/atelier/internal/page"
)

const testToken = "s3cret"

const testManifest = `
name: portfolio
sections:
  - id: hero
    elements:
      - id: hero-title
        text: Arshma Batool
      - id: hero-portrait
        kind: image
        url: https://example.com/portrait.jpg
`

type testServer struct {
	backend *content.MemoryBackend
	text    *content.Store
	images  *content.Store
	page    *page.Page
	handler http.Handler
}

func newTestServer(t *testing.T, activate bool) *testServer {
	t.Helper()
	m, err := page.ParseYAML([]byte(testManifest))
	require.NoError(t, err)

	ts := &testServer{backend: content.NewMemoryBackend()}
	ts.text = content.NewStore(ts.backend, content.NamespaceContent)
	ts.images = content.NewStore(ts.backend, content.NamespaceImages)
	ts.page, err = page.New(m, ts.text, ts.images)
	require.NoError(t, err)
	if activate {
		ts.page.Activate(context.Background())
	}

	srv, err := New(Config{
		Page:      ts.page,
		Text:      ts.text,
		Images:    ts.images,
		Authorize: TokenAuthorizer(testToken),
	})
	require.NoError(t, err)
	ts.handler = srv.Handler()
	return ts
}

func (ts *testServer) do(method, path, body string, admin bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set(AdminHeader, testToken)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func TestNew_RequiresStores(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPutContent(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodPut, "/api/content/hero-title", `{"text":"Jane Doe"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, content.Entry{ID: "hero-title", Text: "Jane Doe"}, decodeBody[content.Entry](t, rec))

	rec = ts.do(http.MethodGet, "/api/content", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"hero-title": "Jane Doe"}, decodeBody[map[string]string](t, rec))

	raw, ok := ts.backend.Raw(string(content.NamespaceContent))
	require.True(t, ok)
	assert.Equal(t, `{"entries":{"hero-title":"Jane Doe"},"version":1}`, raw)
}

func TestPutContent_RequiresAdmin(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodPut, "/api/content/hero-title", `{"text":"Jane Doe"}`, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, ts.backend.Writes())

	el, _ := ts.page.Element("hero-title")
	assert.Equal(t, "Arshma Batool", el.Text())
}

func TestPutContent_Errors(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"bad json", "/api/content/hero-title", `{"text":`, http.StatusBadRequest},
		{"missing text", "/api/content/hero-title", `{}`, http.StatusBadRequest},
		{"unknown element", "/api/content/nope", `{"text":"x"}`, http.StatusNotFound},
		{"image element", "/api/content/hero-portrait", `{"text":"x"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(http.MethodPut, tt.path, tt.body, true)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Contains(t, decodeBody[map[string]string](t, rec), "error")
		})
	}
}

func TestPutContent_NotActivated(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodPut, "/api/content/hero-title", `{"text":"Jane Doe"}`, true)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = ts.do(http.MethodGet, "/api/page", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPutContent_PersistFailureThenFlush(t *testing.T) {
	ts := newTestServer(t, true)
	ts.backend.FailWrites(errors.New("quota exceeded"))

	rec := ts.do(http.MethodPut, "/api/content/hero-title", `{"text":"Jane Doe"}`, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = ts.do(http.MethodPost, "/api/flush", "", true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = ts.do(http.MethodGet, "/api/content", "", false)
	assert.Equal(t, "true", rec.Header().Get(PendingHeader))
	assert.Equal(t, map[string]string{"hero-title": "Jane Doe"}, decodeBody[map[string]string](t, rec))

	ts.backend.FailWrites(nil)
	rec = ts.do(http.MethodPost, "/api/flush", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/api/content", "", false)
	assert.Empty(t, rec.Header().Get(PendingHeader))

	raw, _ := ts.backend.Raw(string(content.NamespaceContent))
	assert.Equal(t, `{"entries":{"hero-title":"Jane Doe"},"version":1}`, raw)
}

func TestPutImage(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodPut, "/api/images/hero-portrait", `{"url":"https://cdn.example.com/new.jpg"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, content.ImageEntry{
		Key: "https://example.com/portrait.jpg",
		URL: "https://cdn.example.com/new.jpg",
	}, decodeBody[content.ImageEntry](t, rec))

	rec = ts.do(http.MethodGet, "/api/images", "", false)
	assert.Equal(t, map[string]string{
		"https://example.com/portrait.jpg": "https://cdn.example.com/new.jpg",
	}, decodeBody[map[string]string](t, rec))
}

func TestPutImage_InvalidURL(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodPut, "/api/images/hero-portrait", `{"url":"javascript:alert(1)"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ts.backend.Writes())
}

func TestGetPage(t *testing.T) {
	ts := newTestServer(t, true)
	ts.do(http.MethodPut, "/api/content/hero-title", `{"text":"Jane Doe"}`, true)

	rec := ts.do(http.MethodGet, "/api/page", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[page.Snapshot](t, rec)
	assert.Equal(t, "portfolio", snap.Name)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "Jane Doe", snap.Sections[0].Elements[0].Text)
	assert.True(t, snap.Sections[0].Elements[0].Overridden)
}

func TestAddSection(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(http.MethodPost, "/api/sections", `{"type":"gallery"}`, true)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = ts.do(http.MethodPost, "/api/sections", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/sections", `{"type":"gallery"}`, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTokenAuthorizer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, TokenAuthorizer("")(req))

	req.Header.Set(AdminHeader, "wrong")
	assert.False(t, TokenAuthorizer(testToken)(req))

	req.Header.Set(AdminHeader, testToken)
	assert.True(t, TokenAuthorizer(testToken)(req))
}
