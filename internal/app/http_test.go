package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/metrics"
	"github.com/trustcall/trustcall-directory-service/internal/repository/memory"
)

func healthy(context.Context) error { return nil }

func TestHealthAllDependenciesUp(t *testing.T) {
	deps := []dependency{
		{name: "store", ping: memory.NewStore().Ping},
		{name: "cache", ping: cache.NewMemory().Ping},
	}
	srv := httptest.NewServer(newOpsRouter(deps, prometheus.NewRegistry(), zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"store": "ok", "cache": "ok"}, body.Checks)
}

func TestHealthReportsFailingDependency(t *testing.T) {
	deps := []dependency{
		{name: "store", ping: healthy},
		{name: "cache", ping: func(context.Context) error { return errors.New("connection refused") }},
	}
	srv := httptest.NewServer(newOpsRouter(deps, prometheus.NewRegistry(), zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["store"])
	assert.Equal(t, "connection refused", body.Checks["cache"])
}

func TestMetricsEndpointExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.RecordSpamReport("accepted")

	srv := httptest.NewServer(newOpsRouter(nil, reg, zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `outcome="accepted"`)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	srv := httptest.NewServer(newOpsRouter(nil, prometheus.NewRegistry(), zerolog.Nop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
