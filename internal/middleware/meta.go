package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"

	metaCacheHit       = "cache_hit"
	metaDegraded       = "degraded"
	metaProcessingTime = "processing_time_ms"
)

// WithResponseMeta prepares the per-request meta map and stamps the processing time once handlers
// are done, unless a handler already set it.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
		meta := metaOf(c)
		if _, set := meta[metaProcessingTime]; !set {
			meta[metaProcessingTime] = time.Since(start).Milliseconds()
		}
	}
}

// SetCacheHit records whether the page came from the result cache.
func SetCacheHit(c *gin.Context, hit bool) {
	metaOf(c)[metaCacheHit] = hit
}

// SetDegraded lists the page sections that fell back to defaults. An empty list is not recorded.
func SetDegraded(c *gin.Context, sections []string) {
	if len(sections) == 0 {
		return
	}
	metaOf(c)[metaDegraded] = sections
}

// ExtractMeta returns the meta map of the request, nil when none was prepared.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	value, _ := c.Get(responseMetaKey)
	meta, _ := value.(map[string]interface{})
	return meta
}

func metaOf(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	meta := map[string]interface{}{}
	c.Set(responseMetaKey, meta)
	return meta
}
