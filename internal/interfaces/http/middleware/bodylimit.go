package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MsgRequestTooLarge is shown when an upload exceeds the body limit
const MsgRequestTooLarge = "Il file caricato supera la dimensione massima consentita."

// BodyLimit returns a middleware that limits request body size.
// Requests announcing a larger body are rejected up front; bodies without
// a length are cut by http.MaxBytesReader while the handler reads them.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.Data(http.StatusRequestEntityTooLarge, "text/plain; charset=utf-8", []byte(MsgRequestTooLarge))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether reading the body hit the BodyLimit cap
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
