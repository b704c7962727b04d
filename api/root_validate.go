package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate only exists to run the JWT middleware. Reaching the handler
// means the token was good.
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
