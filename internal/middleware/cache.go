package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/cache"
	"github.com/tonicwater/backend/internal/logger"
)

// CacheResponses serves cached GET responses verbatim with an X-Cache: HIT
// marker, and captures successful misses into the cache with the TTL of
// their namespace. Uncached paths pass straight through.
func CacheResponses(baseLog *logger.Logger, c *cache.Cache) gin.HandlerFunc {
	log := baseLog.With("middleware", "CacheResponses")
	return func(gc *gin.Context) {
		if gc.Request.Method != http.MethodGet {
			gc.Next()
			return
		}
		ttl := cache.TTLFor(gc.Request.URL.Path)
		if ttl <= 0 {
			gc.Next()
			return
		}

		key := cache.Key(gc.Request.URL.Path, gc.Request.URL.RawQuery)
		if payload, ok := c.Get(gc.Request.Context(), key); ok {
			gc.Header("X-Cache", "HIT")
			gc.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			gc.Abort()
			return
		}

		gc.Header("X-Cache", "MISS")
		w := &captureWriter{ResponseWriter: gc.Writer}
		gc.Writer = w
		gc.Next()

		if w.Status() == http.StatusOK && w.body.Len() > 0 {
			c.Set(gc.Request.Context(), key, w.body.Bytes(), ttl)
			log.Debug("Cached response", "key", key, "ttl", ttl)
		}
	}
}

// captureWriter tees the response body so a miss can be stored after the
// handler runs.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
