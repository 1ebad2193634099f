package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/response"
)

type filterOptionsProvider interface {
	FilterOptions(ctx context.Context, session models.Session, filter models.FilterState, changed string) (*dto.FilterOptions, error)
}

// FilterHandler serves the filter bar dropdowns.
type FilterHandler struct {
	directory filterOptionsProvider
}

// NewFilterHandler constructs the handler.
func NewFilterHandler(directory filterOptionsProvider) *FilterHandler {
	return &FilterHandler{directory: directory}
}

// Options godoc
// @Summary Filter options
// @Description Zonal manager, reporting manager and employee lists visible to the viewer. Changing a higher level resets the levels below it.
// @Tags Filters
// @Produce json
// @Param selectedZM query string false "Zonal manager email or ALL"
// @Param selectedRM query string false "Reporting manager email or ALL"
// @Param selectedEmployee query string false "Employee email or ALL"
// @Param changed query string false "Level that was just changed" Enums(zm, rm, employee)
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /filters/options [get]
func (h *FilterHandler) Options(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query, err := bindPageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	opts, err := h.directory.FilterOptions(c.Request.Context(), session, query.FilterState, c.Query("changed"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, opts, nil)
}
