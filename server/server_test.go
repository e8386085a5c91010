package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ecowattch-server/confs"
	"ecowattch-server/logger"
	"ecowattch-server/repositories"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *confs.Config {
	return &confs.Config{
		Port:            "0",
		BcryptCost:      bcrypt.MinCost,
		PaletteCacheTTL: time.Minute,
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := repositories.NewMemoryStore(true)
	s, err := NewServer(testConfig(), Repositories{
		Users:     store.Users(),
		Dorms:     store.Dorms(),
		Offerings: store.Offerings(),
	}, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestNewServer_InvalidCost(t *testing.T) {
	cfg := testConfig()
	cfg.BcryptCost = 99
	store := repositories.NewMemoryStore(true)
	_, err := NewServer(cfg, Repositories{Users: store.Users(), Dorms: store.Dorms(), Offerings: store.Offerings()}, logger.Nop())
	assert.Error(t, err)
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/signup", `{"usernames":"alice","passwords":"pw"}`, http.StatusCreated},
		{http.MethodPost, "/login", `{"usernames":"alice","passwords":"pw"}`, http.StatusOK},
		{http.MethodPost, "/dorm_points", `{"Tinsley_total_points":1,"Sechrist_total_points":2,"Gabaldon_total_points":3}`, http.StatusCreated},
		{http.MethodGet, "/dorm_points", "", http.StatusOK},
		{http.MethodGet, "/palettes", "", http.StatusOK},
		{http.MethodPost, "/update_user_points", `{"username":"alice","spendablePoints":40}`, http.StatusOK},
		{http.MethodPost, "/purchase_palette", `{"username":"alice","paletteName":"Sunset","pointsToDeduct":10}`, http.StatusOK},
		{http.MethodPost, "/palettes/refresh", "", http.StatusOK},
		{http.MethodGet, "/palettes/cache", "", http.StatusOK},
		{http.MethodGet, "/ws/standings", "", http.StatusBadRequest},
		{http.MethodGet, "/ws/standings/subscribers", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestServer_RequestID(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "http://client.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
