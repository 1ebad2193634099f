package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
)

type fakeFilterProvider struct {
	filter  models.FilterState
	changed string
}

func (f *fakeFilterProvider) FilterOptions(_ context.Context, _ models.Session, filter models.FilterState, changed string) (*dto.FilterOptions, error) {
	f.filter = filter
	f.changed = changed
	return &dto.FilterOptions{
		Filter:        filter,
		ShowReporting: true,
		ReportingManagers: []models.DirectoryEntry{
			{Email: "rm1@example.com", Name: "Ravi"},
		},
	}, nil
}

func TestFilterHandlerOptions(t *testing.T) {
	provider := &fakeFilterProvider{}
	handler := NewFilterHandler(provider)
	c, rec := newHandlerContext("/filters/options?selectedRM=rm1@example.com&changed=rm", zmClaims)

	handler.Options(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rm", provider.changed)
	assert.Equal(t, "rm1@example.com", provider.filter.SelectedRM)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Data["showReportingManagers"])
	assert.Len(t, envelope.Data["reportingManagers"], 1)
}

type fakeInvalidator struct {
	viewer string
	all    bool
	err    error
}

func (f *fakeInvalidator) ClearViewer(_ context.Context, viewer string) (int64, error) {
	f.viewer = viewer
	return 3, f.err
}

func (f *fakeInvalidator) ClearAll(context.Context) (int64, error) {
	f.all = true
	return 9, f.err
}

func TestCacheHandlerClearMine(t *testing.T) {
	cache := &fakeInvalidator{}
	handler := NewCacheHandler(cache)
	c, rec := newHandlerContext("/cache/me", zmClaims)

	handler.ClearMine(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, zmClaims.Email, cache.viewer)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(3), envelope.Data["removed"])
}

func TestCacheHandlerClearAllError(t *testing.T) {
	cache := &fakeInvalidator{err: errors.New("redis down")}
	handler := NewCacheHandler(cache)
	c, rec := newHandlerContext("/cache", zmClaims)

	handler.ClearAll(c)

	assert.True(t, cache.all)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	c, rec := newHandlerContext("/ready", nil)

	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "connection refused", body.Checks["redis"])
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordTaskFailure("quota")
	handler := NewMetricsHandler(metrics, nil)
	c, rec := newHandlerContext("/metrics/summary", nil)

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	failures := envelope.Data["task_failures"].(map[string]interface{})
	assert.Equal(t, float64(1), failures["quota"])
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordExport("orders", "csv")
	handler := NewMetricsHandler(metrics, nil)
	c, rec := newHandlerContext("/metrics", nil)

	handler.Prometheus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders")
}
