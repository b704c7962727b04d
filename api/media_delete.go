package api

import (
	"bitwise74/media-api/model"
	"bitwise74/media-api/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaDelete removes an asset best-effort. Every stored object is
// attempted, failed keys are reported back and the database record is
// removed no matter what. An orphaned object costs storage, a dangling
// record lies to the user.
func (a *API) MediaDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No media ID provided",
			"requestID": requestID,
		})
		return
	}

	var media model.Media

	err := a.DB.
		Where("user_id = ? AND id = ?", userID, id).
		First(&media).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Media not found. It either doesn't exist or you don't own it",
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

	failed, err := service.RemoveVariants(c.Request.Context(), a.S3, media.VariantKeys())
	if err != nil {
		zap.L().Warn("Some objects could not be deleted",
			zap.Strings("failedKeys", failed),
			zap.Error(err),
			zap.String("requestID", requestID))
	}

	if err := a.DB.Delete(&media).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete media record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          len(failed) == 0,
		"failed_keys": failed,
	})
}
