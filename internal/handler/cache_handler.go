package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/response"
)

type cacheInvalidator interface {
	ClearViewer(ctx context.Context, viewer string) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
}

// CacheHandler lets viewers drop cached dashboard pages.
type CacheHandler struct {
	cache cacheInvalidator
}

// NewCacheHandler constructs the handler.
func NewCacheHandler(cache cacheInvalidator) *CacheHandler {
	return &CacheHandler{cache: cache}
}

// ClearMine godoc
// @Summary Clear my cached pages
// @Tags Cache
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cache/me [delete]
func (h *CacheHandler) ClearMine(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	removed, err := h.cache.ClearViewer(c.Request.Context(), session.Email)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to clear cache"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}

// ClearAll godoc
// @Summary Clear every cached page
// @Description Program team only
// @Tags Cache
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /cache [delete]
func (h *CacheHandler) ClearAll(c *gin.Context) {
	removed, err := h.cache.ClearAll(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to clear cache"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
