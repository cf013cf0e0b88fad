package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LinkCreated()
	m.LinkCreated()
	m.Redirect(OutcomeActive)
	m.Redirect(OutcomeActive)
	m.Redirect(OutcomeExpired)
	m.AllocationConflict()
	m.AllocationExhausted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.linksCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.redirects.WithLabelValues(OutcomeActive)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.redirects.WithLabelValues(OutcomeExpired)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.redirects.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocationConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allocationExhausted))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/links", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/links", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/links", http.StatusCreated, 5*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.LinkCreated()
		m.Redirect(OutcomeActive)
		m.AllocationConflict()
		m.AllocationExhausted()
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.LinkCreated()

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "minilink_links_created_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
