package service

import (
	"bytes"
	"context"
	"testing"

	"bitwise74/media-api/storemeta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putTagged(t *testing.T, store *fakeStore, key, contentType string, tags storemeta.Tags) {
	t.Helper()

	err := store.Put(context.Background(), key, bytes.NewReader([]byte("x")), 1, contentType, tags.Encode())
	require.NoError(t, err)
}

func TestFindAssetByID(t *testing.T) {
	store := newFakeStore()

	base := storemeta.Tags{
		ID:        "abcdefgh",
		Name:      "clip",
		MediaType: "video",
		CreatedAt: 1700000000,
	}

	orig := base
	orig.Variant = storemeta.VariantOriginal
	putTagged(t, store, "media/abcdefgh/1_original.mp4", "video/mp4", orig)

	thumb := base
	thumb.Variant = storemeta.VariantThumbnail
	thumb.OriginalKey = "media/abcdefgh/1_original.mp4"
	putTagged(t, store, "media/abcdefgh/1_thumbnail.jpg", "image/jpeg", thumb)

	v720 := base
	v720.Variant = storemeta.Variant720
	v720.OriginalKey = "media/abcdefgh/1_original.mp4"
	putTagged(t, store, "media/abcdefgh/1_720p.mp4", "video/mp4", v720)

	// Another asset under the same prefix that must not match
	other := storemeta.Tags{ID: "zzzzzzzz", Variant: storemeta.VariantOriginal}
	putTagged(t, store, "media/zzzzzzzz/1_original.png", "image/png", other)

	asset, err := FindAssetByID(context.Background(), store, "abcdefgh")
	require.NoError(t, err)

	assert.Equal(t, "clip", asset.Tags.Name)
	assert.Equal(t, "media/abcdefgh/1_original.mp4", asset.Original.Key)
	assert.Equal(t, "video/mp4", asset.Original.ContentType)

	require.NotNil(t, asset.Thumb)
	assert.Equal(t, "media/abcdefgh/1_thumbnail.jpg", asset.Thumb.Key)

	require.Len(t, asset.Variants, 1)
	assert.Equal(t, "media/abcdefgh/1_720p.mp4", asset.Variants[storemeta.Variant720].Key)
}

func TestFindAssetByIDNotFound(t *testing.T) {
	store := newFakeStore()

	orig := storemeta.Tags{ID: "abcdefgh", Variant: storemeta.VariantOriginal}
	putTagged(t, store, "media/abcdefgh/1_original.png", "image/png", orig)

	_, err := FindAssetByID(context.Background(), store, "missing")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestFindAssetByIDIgnoresForeignObjects(t *testing.T) {
	store := newFakeStore()

	// An object under the prefix that this service never tagged
	err := store.Put(context.Background(), "media/stray.bin", bytes.NewReader([]byte("x")), 1, "application/octet-stream", nil)
	require.NoError(t, err)

	_, err = FindAssetByID(context.Background(), store, "stray")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}
