package api

import (
	"bitwise74/media-api/model"
	"bitwise74/media-api/service"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaFetch rebuilds one asset purely from object store metadata. It
// doesn't touch the database at all, which makes it the recovery path
// when a record is missing but the objects survived.
func (a *API) MediaFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No media ID provided",
			"requestID": requestID,
		})
		return
	}

	asset, err := service.FindAssetByID(c.Request.Context(), a.S3, id)
	if err != nil {
		if errors.Is(err, service.ErrAssetNotFound) {
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

		zap.L().Error("Failed to scan for asset", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	resp := gin.H{
		"id":          asset.Tags.ID,
		"name":        asset.Tags.Name,
		"description": asset.Tags.Description,
		"tags":        asset.Tags.Tags,
		"media_type":  asset.Tags.MediaType,
		"created_at":  asset.Tags.CreatedAt,
		"original":    asset.Original,
		"variants":    asset.Variants,
	}

	if asset.Thumb != nil {
		resp["thumbnail"] = asset.Thumb
	}

	// Images are small enough to inline whole
	if asset.Tags.MediaType == model.MediaTypeImage {
		body, _, err := a.S3.Get(c.Request.Context(), asset.Original.Key)
		if err != nil {
			zap.L().Warn("Failed to fetch image payload",
				zap.String("key", asset.Original.Key),
				zap.Error(err),
				zap.String("requestID", requestID))
		} else {
			data, err := io.ReadAll(body)
			body.Close()

			if err == nil {
				resp["data"] = base64.StdEncoding.EncodeToString(data)
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
