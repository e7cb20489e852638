package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := New(Options{Level: "debug", File: path, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
	assert.FileExists(t, path)
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Options{Level: "loud"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

func TestGet_BeforeInit(t *testing.T) {
	Global = nil
	assert.NotNil(t, Get())
}

func TestMiddleware_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zerolog.New(&buf)}

	h := Middleware(l.Component("web"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "web", line["component"])
	assert.Equal(t, "/jobs", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
}
