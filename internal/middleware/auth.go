package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booker-api/pkg/httputil"
)

const (
	HeaderAPIKey = "X-API-Key"
	QueryAPIKey  = "api_key"
)

// SharedSecret guards mutating endpoints with a static shared secret,
// accepted from header or query parameter. With no secret configured
// the check is disabled.
func SharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(HeaderAPIKey)
		if provided == "" {
			provided = c.Query(QueryAPIKey)
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
				Success: false,
				Error: &httputil.Error{
					Code:    http.StatusUnauthorized,
					Message: "unauthorized",
				},
			})
			return
		}
		c.Next()
	}
}
