package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/export"
	"github.com/noah-isme/sales-dashboard-api/pkg/response"
)

type exportService interface {
	Samples(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*service.ExportFile, error)
	Orders(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*service.ExportFile, error)
	Customers(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*service.ExportFile, error)
}

type exportFunc func(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*service.ExportFile, error)

// ExportHandler streams listing exports as file downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Samples godoc
// @Summary Export sample requests
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "xlsx, csv or pdf" Enums(xlsx, csv, pdf)
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD), inclusive"
// @Param status query string false "Status label or ALL"
// @Param search query string false "Submission id fragment"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /samples/export [get]
func (h *ExportHandler) Samples(c *gin.Context) {
	h.serve(c, h.service.Samples)
}

// Orders godoc
// @Summary Export orders
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "xlsx, csv or pdf" Enums(xlsx, csv, pdf)
// @Param status query string false "Status label or ALL"
// @Param selectedCustomer query string false "Customer name or ALL"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /orders/export [get]
func (h *ExportHandler) Orders(c *gin.Context) {
	h.serve(c, h.service.Orders)
}

// Customers godoc
// @Summary Export customer-wise totals
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "xlsx, csv or pdf" Enums(xlsx, csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /orders/customers/export [get]
func (h *ExportHandler) Customers(c *gin.Context) {
	h.serve(c, h.service.Customers)
}

func (h *ExportHandler) serve(c *gin.Context, fn exportFunc) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	query, err := bindPageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := fn(c.Request.Context(), session, query.FilterState, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
