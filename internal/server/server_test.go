package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/allergyaid/backend/config"
	"github.com/pageza/allergyaid/backend/internal/app"
	"github.com/pageza/allergyaid/backend/internal/middleware"
	"github.com/pageza/allergyaid/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, port string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:      config.Test,
		ServerHost:       "127.0.0.1",
		ServerPort:       port,
		CORSOrigins:      []string{"http://localhost:5173"},
		StoreBackend:     config.StoreGorm,
		SeedDefaults:     true,
		DBDriver:         config.DriverSQLite,
		SQLitePath:       filepath.Join(t.TempDir(), "allergyaid.db"),
		OpenFoodFactsURL: "http://127.0.0.1:1",
		LookupTimeout:    time.Second,
		LookupRateLimit:  30,
		LookupRateWindow: time.Minute,
		BackupKeep:       7,
	}

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return New(cfg, a)
}

func TestNew(t *testing.T) {
	srv := newTestServer(t, "0")

	w := testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/api/v1/allergens", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Peanuts")

	// lookups fail fast against the closed port without Redis rate limiting
	w = testhelpers.PerformRequest(t, srv.Handler(), http.MethodGet, "/api/v1/scan/barcode/12345678", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, _ := net.SplitHostPort(l.Addr().String())
	require.NoError(t, l.Close())

	srv := newTestServer(t, port)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + port + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
