package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hishmat-dev/job-listing-app/internal/app"
)

func TestServer_Starts(t *testing.T) {
	srv := NewServer(&Config{Port: 0}, nil, nil)

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Stop(context.Background()) }()

	require.Eventually(t, func() bool {
		if srv.listener == nil {
			return false
		}
		resp, err := http.Get(srv.BaseURL() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 50*time.Millisecond)
}

func TestServer_HealthEndpoint(t *testing.T) {
	ts := httptest.NewServer(NewServer(&Config{}, nil, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, Version, health.Version)
}

func TestServer_ServesEmbeddedStatic(t *testing.T) {
	ts := httptest.NewServer(NewServer(&Config{}, nil, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/static/css/app.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
}

func TestServer_ServesStaticDir(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "css"), 0o755))
	cssContent := "body { background: #fff; }"
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "css", "app.css"), []byte(cssContent), 0o644))

	ts := httptest.NewServer(NewServer(&Config{StaticDir: staticDir}, nil, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/static/css/app.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, cssContent, string(body))
}

func TestServer_WebSocketReceivesEvents(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Close()

	ts := httptest.NewServer(NewServer(&Config{}, nil, hub).Router())
	defer ts.Close()

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/ws"

	c, wsResp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer c.Close()
	if wsResp != nil && wsResp.Body != nil {
		defer wsResp.Body.Close()
	}

	// registration races with the first publish; keep publishing until one
	// arrives
	received := make(chan []byte, 1)
	go func() {
		_, msg, err := c.ReadMessage()
		if err == nil {
			received <- msg
		}
	}()

	require.Eventually(t, func() bool {
		_ = hub.Publish(context.Background(), app.Event{Type: app.EventJobsLoaded, Payload: app.JobsLoadedPayload{Count: 3}})
		select {
		case msg := <-received:
			assert.Contains(t, string(msg), `"type":"jobs.loaded"`)
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_NoWebSocketWithoutHub(t *testing.T) {
	ts := httptest.NewServer(NewServer(&Config{}, nil, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type stubPages struct{ called string }

func (s *stubPages) List(w http.ResponseWriter, _ *http.Request)          { s.called = "list" }
func (s *stubPages) NewJob(w http.ResponseWriter, _ *http.Request)        { s.called = "new" }
func (s *stubPages) EditJob(w http.ResponseWriter, _ *http.Request)       { s.called = "edit" }
func (s *stubPages) ConfirmDelete(w http.ResponseWriter, _ *http.Request) { panic("boom") }
func (s *stubPages) Create(w http.ResponseWriter, _ *http.Request)        { s.called = "create" }
func (s *stubPages) Update(w http.ResponseWriter, _ *http.Request)        { s.called = "update" }
func (s *stubPages) Delete(w http.ResponseWriter, _ *http.Request)        { s.called = "delete" }
func (s *stubPages) Retry(w http.ResponseWriter, _ *http.Request)         { s.called = "retry" }
func (s *stubPages) DismissError(w http.ResponseWriter, _ *http.Request)  { s.called = "dismiss-error" }
func (s *stubPages) DismissToast(w http.ResponseWriter, _ *http.Request)  { s.called = "dismiss-toast" }

func TestServer_RegisterPages(t *testing.T) {
	templates := NewTemplateEngine(EmbeddedTemplates(), false)
	require.NoError(t, templates.Load())

	srv := NewServer(&Config{}, templates, nil)
	stub := &stubPages{}
	srv.RegisterPages(stub, stub)

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/", "list"},
		{http.MethodGet, "/jobs/new", "new"},
		{http.MethodGet, "/jobs/4/edit", "edit"},
		{http.MethodPost, "/jobs", "create"},
		{http.MethodPost, "/jobs/4", "update"},
		{http.MethodPost, "/jobs/4/delete", "delete"},
		{http.MethodPost, "/retry", "retry"},
		{http.MethodPost, "/dismiss-error", "dismiss-error"},
		{http.MethodPost, "/toasts/abc/dismiss", "dismiss-toast"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			stub.called = ""
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, stub.called)
		})
	}

	t.Run("panic renders fallback page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/4/delete", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Something went wrong")
		assert.Contains(t, rec.Body.String(), `href="/jobs/4/delete"`)
	})
}
