package service

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	thumbWidth   = 480
	thumbQuality = 80
)

// MakeImageThumbnail downscales an in-memory image to the fixed
// thumbnail width, preserving aspect ratio, and re-encodes it as JPEG
func MakeImageThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)

	buf := &bytes.Buffer{}
	err = imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(thumbQuality))
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail, %w", err)
	}

	return buf.Bytes(), nil
}
