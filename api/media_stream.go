package api

import (
	"bitwise74/media-api/aws"
	"bitwise74/media-api/model"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Accepted quality labels, numeric shorthands included
var qualityAliases = map[string]string{
	"original": "original",
	"360":      "360p",
	"360p":     "360p",
	"720":      "720p",
	"720p":     "720p",
	"1080":     "1080p",
	"1080p":    "1080p",
}

// MediaStream serves a video at the requested quality. Qualities that
// were never generated for this asset return 404 rather than silently
// falling back to another one.
func (a *API) MediaStream(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No media ID provided",
			"requestID": requestID,
		})
		return
	}

	quality, ok := qualityAliases[strings.ToLower(c.DefaultQuery("quality", "original"))]
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid quality",
			"requestID": requestID,
		})
		return
	}

	var media model.Media

	if err := a.DB.Where("id = ?", id).First(&media).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Media not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch media record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	key := media.KeyForQuality(quality)
	if key == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "This quality was never generated for this media",
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
