package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/pkg/identifier"
)

const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID tags every request with a correlation id in the same
// prefixed form the API uses for record ids. A caller-supplied id is
// kept so upstream traces carry through.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if rid == "" {
			rid = identifier.NewRequestID()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
