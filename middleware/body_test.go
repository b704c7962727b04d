package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodySizeLimiterRejectsBeforeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var handlerRan bool

	r := gin.New()
	r.POST("/", BodySizeLimiter(10), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 100)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, handlerRan, "an oversized request must never reach the handler")
}

func TestBodySizeLimiterPassesSmallBodies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var handlerRan bool

	r := gin.New()
	r.POST("/", BodySizeLimiter(1024), func(c *gin.Context) {
		handlerRan = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerRan)
}
