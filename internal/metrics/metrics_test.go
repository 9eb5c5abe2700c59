package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTP(t *testing.T) {
	r := NewRecorder()

	r.ObserveHTTP("get", "/api/fridge/{userId}", http.StatusOK, 20*time.Millisecond)
	r.ObserveHTTP("GET", "/api/fridge/{userId}", http.StatusOK, 10*time.Millisecond)
	r.ObserveHTTP("GET", "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/fridge/{userId}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestTrackInFlight(t *testing.T) {
	r := NewRecorder()

	done := r.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(r.httpInFlight))
}

func TestObserveUpstreamAndHandler(t *testing.T) {
	r := NewRecorder()
	r.ObserveUpstream("complex_search", "ok", 150*time.Millisecond)
	r.ObserveUpstream("complex_search", "timeout", 30*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("complex_search", "timeout")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `mealplanner_upstream_requests_total{endpoint="complex_search",outcome="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.db"), make([]byte, 2048), 0o600))

	h := GetSysHealth(dir)
	assert.Positive(t, h.Goroutines)
	assert.Equal(t, "2.0 KB", h.DataDiskSize)

	assert.Empty(t, GetSysHealth("").DataDiskSize)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "3.0 MB", formatBytes(3*1024*1024))
}
