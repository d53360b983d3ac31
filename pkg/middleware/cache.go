package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SebInfo/AeroportsProches/pkg/cache"
	"github.com/SebInfo/AeroportsProches/pkg/logger"
)

// CacheConfig holds cache middleware configuration
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	SkipPaths []string
}

// responseWriter wraps gin.ResponseWriter to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// CachedResponse represents a cached HTTP response
type CachedResponse struct {
	StatusCode  int               `json:"status_code"`
	Headers     map[string]string `json:"headers"`
	Body        []byte            `json:"body"`
	ContentType string            `json:"content_type"`
	CachedAt    time.Time         `json:"cached_at"`
}

// ResponseCache creates a middleware that caches successful JSON GET
// responses. The dataset behind them is immutable, so the only reason for a
// TTL at all is to bound memory in the shared Redis.
func ResponseCache(cacheManager *cache.CacheManager, config CacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		for _, skipPath := range config.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, skipPath) {
				c.Next()
				return
			}
		}

		cacheKey := generateCacheKey(config.KeyPrefix, c.Request)

		// Try to get from cache
		var cachedResponse CachedResponse
		err := cacheManager.GetJSON(c.Request.Context(), cacheKey, &cachedResponse)
		if err == nil {
			logger.WithField("cache_key", cacheKey).Debug("Cache hit")

			for key, value := range cachedResponse.Headers {
				c.Header(key, value)
			}
			c.Header("X-Cache", "HIT")

			c.Data(cachedResponse.StatusCode, cachedResponse.ContentType, cachedResponse.Body)
			c.Abort() // stop remaining handlers from executing
			return
		}

		if err != cache.ErrCacheMiss {
			logger.WithField("cache_key", cacheKey).Error(err, "Cache get error")
		}

		// Cache miss: execute the request with a capturing writer. The
		// header has to go out before the handler writes the body.
		c.Header("X-Cache", "MISS")
		body := &bytes.Buffer{}
		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           body,
		}
		c.Writer = writer

		c.Next()

		if !strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") {
			return
		}

		// Only cache successful responses (2xx status codes)
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			cachedResp := CachedResponse{
				StatusCode:  c.Writer.Status(),
				Headers:     make(map[string]string),
				Body:        body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				CachedAt:    time.Now(),
			}

			for key, values := range c.Writer.Header() {
				if len(values) > 0 && shouldCacheHeader(key) {
					cachedResp.Headers[key] = values[0]
				}
			}

			if err := cacheManager.SetJSON(c.Request.Context(), cacheKey, cachedResp, config.TTL); err != nil {
				logger.WithField("cache_key", cacheKey).Error(err, "Cache set error")
			} else {
				logger.WithField("cache_key", cacheKey).Debug("Response cached")
			}
		}
	}
}

// generateCacheKey creates a cache key from the HTTP request
func generateCacheKey(prefix string, req *http.Request) string {
	keyData := fmt.Sprintf("%s:%s:%s", req.Method, req.URL.Path, req.URL.RawQuery)

	// Hash the key data to create a consistent, shorter key
	hash := md5.Sum([]byte(keyData))
	hashStr := fmt.Sprintf("%x", hash)

	if prefix != "" {
		return fmt.Sprintf("%s:response:%s", prefix, hashStr)
	}
	return fmt.Sprintf("response:%s", hashStr)
}

// shouldCacheHeader determines if a header should be cached
func shouldCacheHeader(header string) bool {
	header = strings.ToLower(header)
	cacheable := []string{
		"content-type",
		"content-encoding",
		"cache-control",
		"etag",
		"last-modified",
	}

	for _, h := range cacheable {
		if header == h {
			return true
		}
	}
	return false
}
