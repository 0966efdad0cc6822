package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multistore/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose body exceeds maxBytes. Streaming bodies
// without a Content-Length are cut off by MaxBytesReader.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithStatus(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest, "Request body exceeds maximum allowed size")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
