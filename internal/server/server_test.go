package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/server/middleware"
	"github.com/jonathan/portfolio-builder/internal/site"
)

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(nil, Config{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Equal(t, int64(config.DefaultMaxUploadBytes), s.maxUpload)
	assert.Equal(t, config.DefaultTimeout, s.timeout)
	assert.Equal(t, site.DefaultArchiveName, s.archiveName)
	assert.Nil(t, s.publisher)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `action="/generate/zip"`)
	assert.Contains(t, rec.Body.String(), `name="resume"`)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	assert.Equal(t, http.StatusNotFound, serve(s, httptest.NewRequest(http.MethodGet, "/nope", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(s, httptest.NewRequest(http.MethodGet, "/generate", nil)).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	rec := serve(s, httptest.NewRequest(http.MethodOptions, "/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Run-ID")
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, newStub(), Config{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(rec.Header().Get(middleware.RequestIDHeader))
	assert.NoError(t, err)

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, given)
	rec = serve(s, req)
	assert.Equal(t, given, rec.Header().Get(middleware.RequestIDHeader))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_GracefulShutdown(t *testing.T) {
	port := freePort(t)
	s := newTestServer(t, newStub(), Config{Port: port})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
