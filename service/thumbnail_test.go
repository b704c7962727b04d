package service

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeImageThumbnail(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 960, 540))))

	thumb, err := MakeImageThumbnail(buf.Bytes())
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(thumb))
	require.NoError(t, err, "thumbnails are always JPEG regardless of the source format")

	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 270, img.Bounds().Dy(), "aspect ratio must be preserved")
}

func TestMakeImageThumbnailBadInput(t *testing.T) {
	_, err := MakeImageThumbnail([]byte("definitely not an image"))
	assert.Error(t, err)
}
