package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies at roughly 10MB.
const MaxBodyBytes = 10 << 20

// BodyLimit wraps the request body so oversized payloads fail during bind
// instead of being buffered whole.
func BodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}
