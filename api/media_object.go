package api

import (
	"bitwise74/media-api/aws"
	"bitwise74/media-api/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaObject streams one object by its exact storage key. Only keys
// under the media prefix are served, everything else in the bucket is
// off limits.
func (a *API) MediaObject(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	key := c.Query("key")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No object key provided",
			"requestID": requestID,
		})
		return
	}

	if !strings.HasPrefix(key, service.KeyPrefix) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid object key",
			"requestID": requestID,
		})
		return
	}

	body, info, err := a.S3.Get(c.Request.Context(), key)
	if err != nil {
		if aws.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Object not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch object", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, nil)
}
