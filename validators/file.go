// Package validators checks user input before it reaches any side
// effect
package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrNoFile          = errors.New("no file provided")
)

const maxFileNameSize = 255

// FileValidator checks the upload before any processing happens and
// returns the opened file plus the content type to classify it with.
// The declared header type wins, sniffed bytes are the fallback for
// clients that don't send one.
func FileValidator(fh *multipart.FileHeader) (int, multipart.File, string, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, nil, "", ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, nil, "", ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		mime, err := mimetype.DetectReader(f)
		if err != nil {
			f.Close()
			return http.StatusInternalServerError, nil, "", err
		}

		contentType = mime.String()
	}

	// Sniffing consumed the head of the file. A failed rewind would
	// silently truncate the stored payload.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, "", err
	}

	return 0, f, contentType, nil
}
