package api

import (
	"bitwise74/media-api/service"
	"bitwise74/media-api/storemeta"
	"bitwise74/media-api/validators"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaUpload ingests one file synchronously. By the time the response
// is written, the original, every variant that could be derived and the
// database record all exist.
func (a *API) MediaUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid content type",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["file"]
	if len(files) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, contentType, err := validators.FileValidator(files[0])
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))
			err = errors.New("Internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	res, err := a.Ingest.Ingest(c.Request.Context(), &service.UploadInput{
		Data:        data,
		ContentType: contentType,
		Filename:    files[0].Filename,
		UserID:      userID,
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
	})
	if err != nil {
		if errors.Is(err, service.ErrNoPayload) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Empty file provided",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to ingest upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	rec := res.Media

	if err := a.DB.Create(rec).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save media record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           rec.ID,
		"name":         rec.Name,
		"description":  rec.Description,
		"tags":         storemeta.SplitTags(rec.Tags),
		"media_type":   rec.MediaType,
		"mime_type":    rec.MimeType,
		"size":         rec.Size,
		"created_at":   rec.CreatedAt,
		"original_key": rec.OriginalKey,
		"thumb_key":    rec.ThumbKey,
		"thumb":        res.ThumbInline,
		"variants":     res.Variants,
	})
}
