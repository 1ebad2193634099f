package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, session models.Session, req service.PageRequest) (*dto.DashboardSummary, bool, error)
	Samples(ctx context.Context, session models.Session, req service.PageRequest) (*dto.SamplePage, bool, error)
	Orders(ctx context.Context, session models.Session, req service.PageRequest) (*dto.OrderPage, bool, error)
	Customers(ctx context.Context, session models.Session, req service.PageRequest) (*dto.CustomerPage, bool, error)
}

// DashboardHandler serves the page view models.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Sample KPIs, quota summary and order KPIs for the viewer's scope. The status filter does not apply.
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param selectedZM query string false "Zonal manager email or ALL"
// @Param selectedRM query string false "Reporting manager email or ALL"
// @Param selectedEmployee query string false "Employee email or ALL"
// @Param refresh query bool false "Bypass the result cache"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	session, query, ok := h.prepare(c)
	if !ok {
		return
	}
	start := time.Now()
	summary, hit, err := h.service.Summary(c.Request.Context(), session, query.request())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondPage(c, start, summary, nil, hit, summary.Degraded)
}

// Samples godoc
// @Summary Sample request page
// @Description Paginated sample requests with KPIs, quota utilisation and book rankings.
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param selectedZM query string false "Zonal manager email or ALL"
// @Param selectedRM query string false "Reporting manager email or ALL"
// @Param selectedEmployee query string false "Employee email or ALL"
// @Param status query string false "Status label or ALL"
// @Param search query string false "Submission id fragment"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param refresh query bool false "Bypass the result cache"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /samples [get]
func (h *DashboardHandler) Samples(c *gin.Context) {
	session, query, ok := h.prepare(c)
	if !ok {
		return
	}
	start := time.Now()
	page, hit, err := h.service.Samples(c.Request.Context(), session, query.request())
	if err != nil {
		response.Error(c, err)
		return
	}
	body := *page
	body.Pagination = nil
	respondPage(c, start, body, page.Pagination, hit, page.Degraded)
}

// Orders godoc
// @Summary Order overview page
// @Description Paginated order rows with KPIs, customer analysis and book rankings.
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param selectedZM query string false "Zonal manager email or ALL"
// @Param selectedRM query string false "Reporting manager email or ALL"
// @Param selectedEmployee query string false "Employee email or ALL"
// @Param selectedCustomer query string false "Customer name or ALL"
// @Param status query string false "Status label or ALL"
// @Param search query string false "Submission id fragment"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Param refresh query bool false "Bypass the result cache"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /orders [get]
func (h *DashboardHandler) Orders(c *gin.Context) {
	session, query, ok := h.prepare(c)
	if !ok {
		return
	}
	start := time.Now()
	page, hit, err := h.service.Orders(c.Request.Context(), session, query.request())
	if err != nil {
		response.Error(c, err)
		return
	}
	body := *page
	body.Pagination = nil
	respondPage(c, start, body, page.Pagination, hit, page.Degraded)
}

// Customers godoc
// @Summary Customer-wise analysis
// @Tags Dashboard
// @Produce json
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param selectedZM query string false "Zonal manager email or ALL"
// @Param selectedRM query string false "Reporting manager email or ALL"
// @Param selectedEmployee query string false "Employee email or ALL"
// @Param selectedCustomer query string false "Customer name or ALL"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /orders/customers [get]
func (h *DashboardHandler) Customers(c *gin.Context) {
	session, query, ok := h.prepare(c)
	if !ok {
		return
	}
	start := time.Now()
	page, hit, err := h.service.Customers(c.Request.Context(), session, query.request())
	if err != nil {
		response.Error(c, err)
		return
	}
	body := *page
	body.Pagination = nil
	respondPage(c, start, body, page.Pagination, hit, page.Degraded)
}

func (h *DashboardHandler) prepare(c *gin.Context) (models.Session, pageQuery, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return models.Session{}, pageQuery{}, false
	}
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.Session{}, pageQuery{}, false
	}
	query, err := bindPageQuery(c)
	if err != nil {
		response.Error(c, err)
		return models.Session{}, pageQuery{}, false
	}
	return session, query, true
}
