package api

import (
	"bitwise74/media-api/model"
	"bitwise74/media-api/storemeta"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaList returns the caller's media records newest first, each with
// its thumbnail inlined when one exists. A thumbnail that can't be
// fetched is skipped, the record itself is still returned.
func (a *API) MediaList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var entries []model.Media

	err := a.DB.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch media records", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	uploads := make([]gin.H, 0, len(entries))

	for _, m := range entries {
		item := gin.H{
			"id":           m.ID,
			"name":         m.Name,
			"description":  m.Description,
			"tags":         storemeta.SplitTags(m.Tags),
			"media_type":   m.MediaType,
			"mime_type":    m.MimeType,
			"size":         m.Size,
			"created_at":   m.CreatedAt,
			"original_key": m.OriginalKey,
			"has_360":      m.Has360,
			"has_720":      m.Has720,
			"has_1080":     m.Has1080,
		}

		if m.ThumbKey != "" {
			body, _, err := a.S3.Get(c.Request.Context(), m.ThumbKey)
			if err != nil {
				zap.L().Warn("Failed to fetch thumbnail",
					zap.String("id", m.ID),
					zap.String("key", m.ThumbKey),
					zap.Error(err))
			} else {
				thumb, err := io.ReadAll(body)
				body.Close()

				if err == nil {
					item["thumb"] = base64.StdEncoding.EncodeToString(thumb)
				}
			}
		}

		uploads = append(uploads, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"uploads": uploads,
	})
}
