package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/middleware"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
)

type fakeDashboardSrv struct {
	summary   *dto.DashboardSummary
	samples   *dto.SamplePage
	orders    *dto.OrderPage
	customers *dto.CustomerPage
	hit       bool
	err       error

	lastSession models.Session
	lastReq     service.PageRequest
}

func (f *fakeDashboardSrv) record(session models.Session, req service.PageRequest) {
	f.lastSession = session
	f.lastReq = req
}

func (f *fakeDashboardSrv) Summary(_ context.Context, session models.Session, req service.PageRequest) (*dto.DashboardSummary, bool, error) {
	f.record(session, req)
	return f.summary, f.hit, f.err
}

func (f *fakeDashboardSrv) Samples(_ context.Context, session models.Session, req service.PageRequest) (*dto.SamplePage, bool, error) {
	f.record(session, req)
	return f.samples, f.hit, f.err
}

func (f *fakeDashboardSrv) Orders(_ context.Context, session models.Session, req service.PageRequest) (*dto.OrderPage, bool, error) {
	f.record(session, req)
	return f.orders, f.hit, f.err
}

func (f *fakeDashboardSrv) Customers(_ context.Context, session models.Session, req service.PageRequest) (*dto.CustomerPage, bool, error) {
	f.record(session, req)
	return f.customers, f.hit, f.err
}

type responseEnvelope struct {
	Data       map[string]interface{} `json:"data"`
	Error      map[string]interface{} `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func newHandlerContext(target string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

var zmClaims = &models.JWTClaims{Email: "zm@example.com", Name: "Zed", Role: models.RoleZonalManager}

func TestDashboardHandlerRequiresSession(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{})
	c, rec := newHandlerContext("/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerRejectsBadDate(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv)
	c, rec := newHandlerContext("/dashboard?startDate=01-07-2025", zmClaims)

	handler.Summary(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, srv.lastSession.Email)
}

func TestDashboardHandlerRejectsBadPage(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{})
	c, rec := newHandlerContext("/samples?page=0", zmClaims)

	handler.Samples(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerSummary(t *testing.T) {
	srv := &fakeDashboardSrv{
		summary: &dto.DashboardSummary{
			Samples: dto.SampleKPIs{SampleOrderPlaced: 3},
			Quota:   dto.QuotaSummary{MaxQuota: 100, QuotaUsed: 75, Remaining: 25, Percentage: 75},
		},
		hit: true,
	}
	handler := NewDashboardHandler(srv)
	c, rec := newHandlerContext("/dashboard?startDate=2025-07-01&endDate=2025-07-31&selectedRM=rm@example.com&refresh=true", zmClaims)

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.NotContains(t, envelope.Meta, "degraded")
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	quota := envelope.Data["quota"].(map[string]interface{})
	assert.Equal(t, float64(75), quota["percentage"])

	assert.Equal(t, models.RoleZonalManager, srv.lastSession.Role)
	assert.Equal(t, "2025-07-01", srv.lastReq.Filter.StartDate)
	assert.Equal(t, "rm@example.com", srv.lastReq.Filter.SelectedRM)
	assert.True(t, srv.lastReq.Refresh)
}

func TestDashboardHandlerSamplesMovesPagination(t *testing.T) {
	srv := &fakeDashboardSrv{
		samples: &dto.SamplePage{
			Requests:   []models.SampleRequest{{SubmissionID: "S-1"}},
			Pagination: &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
			Degraded:   []string{"quota"},
		},
	}
	handler := NewDashboardHandler(srv)
	c, rec := newHandlerContext("/samples?page=2&pageSize=10&search=%20S-1%20", zmClaims)

	handler.Samples(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 11, envelope.Pagination.TotalCount)
	assert.NotContains(t, envelope.Data, "pagination")
	assert.Equal(t, []interface{}{"quota"}, envelope.Meta["degraded"])
	assert.Equal(t, false, envelope.Meta["cache_hit"])

	assert.Equal(t, 2, srv.lastReq.Page)
	assert.Equal(t, 10, srv.lastReq.PageSize)
	assert.Equal(t, "S-1", srv.lastReq.Filter.Search)
}

func TestDashboardHandlerOrders(t *testing.T) {
	srv := &fakeDashboardSrv{
		orders: &dto.OrderPage{
			KPIs:       dto.OrderKPIs{TotalInvoiceAmount: decimal.NewFromInt(1500), TotalOrderPlaced: 2},
			Pagination: &models.Pagination{Page: 1, PageSize: 25, TotalCount: 2},
		},
	}
	handler := NewDashboardHandler(srv)
	c, rec := newHandlerContext("/orders?status=Delivered&selectedCustomer=Acme", zmClaims)

	handler.Orders(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	kpis := envelope.Data["kpis"].(map[string]interface{})
	assert.Equal(t, "1500", kpis["totalInvoiceAmount"])
	assert.Equal(t, "Delivered", srv.lastReq.Filter.Status)
	assert.Equal(t, "Acme", srv.lastReq.Filter.SelectedCustomer)
}

func TestDashboardHandlerCustomersError(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})
	c, rec := newHandlerContext("/orders/customers", zmClaims)

	handler.Customers(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
