package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sales-dashboard-api/internal/middleware"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/response"
)

var queryValidator = validator.New()

// pageQuery is the query string shared by page and export endpoints.
type pageQuery struct {
	models.FilterState
	Page     int  `form:"page" validate:"omitempty,min=1"`
	PageSize int  `form:"pageSize" validate:"omitempty,min=1"`
	Refresh  bool `form:"refresh"`
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func sessionFromContext(c *gin.Context) (models.Session, bool) {
	claims := claimsFromContext(c)
	if claims == nil || claims.Email == "" {
		return models.Session{}, false
	}
	return claims.Session(), true
}

func bindPageQuery(c *gin.Context) (pageQuery, error) {
	var query pageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return query, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")
	}
	if err := queryValidator.Struct(query); err != nil {
		return query, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")
	}
	query.Search = strings.TrimSpace(query.Search)
	return query, nil
}

func (q pageQuery) request() service.PageRequest {
	return service.PageRequest{Filter: q.FilterState, Page: q.Page, PageSize: q.PageSize, Refresh: q.Refresh}
}

// respondPage writes a composed page with cache and degradation details in meta.
func respondPage(c *gin.Context, start time.Time, data interface{}, pagination *models.Pagination, cacheHit bool, degraded []string) {
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetDegraded(c, degraded)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, pagination, meta)
}
