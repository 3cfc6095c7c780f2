package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/protected", SharedSecret(secret), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSharedSecretDisabledWhenUnset(t *testing.T) {
	r := setupAuthRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSharedSecretHeader(t *testing.T) {
	r := setupAuthRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/protected", nil)
	req.Header.Set(HeaderAPIKey, "s3cret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSharedSecretQueryParam(t *testing.T) {
	r := setupAuthRouter("s3cret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/protected?api_key=s3cret", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSharedSecretRejectsMismatch(t *testing.T) {
	r := setupAuthRouter("s3cret")

	for _, key := range []string{"", "wrong", "s3cret "} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/protected", nil)
		if key != "" {
			req.Header.Set(HeaderAPIKey, key)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "key %q", key)
	}
}
