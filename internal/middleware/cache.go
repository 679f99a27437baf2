package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header for responses that rarely change.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
		c.Next()
	}
}

// ETag tags responses with a fixed version and answers a matching
// If-None-Match with 304 Not Modified.
func ETag(version string) gin.HandlerFunc {
	tag := `"` + version + `"`
	return func(c *gin.Context) {
		c.Header("ETag", tag)
		if c.Request.Method == http.MethodGet && matchesETag(c.GetHeader("If-None-Match"), tag) {
			c.AbortWithStatus(http.StatusNotModified)
			return
		}
		c.Next()
	}
}

func matchesETag(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag || candidate == "*" {
			return true
		}
	}
	return false
}
