package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveVariants(t *testing.T) {
	store := newFakeStore()

	for _, k := range []string{"media/a/1_original.mp4", "media/a/1_thumbnail.jpg", "media/a/1_360p.mp4"} {
		require.NoError(t, store.Put(context.Background(), k, bytes.NewReader([]byte("x")), 1, "", nil))
	}

	failed, err := RemoveVariants(context.Background(), store, []string{
		"media/a/1_original.mp4",
		"",
		"media/a/1_thumbnail.jpg",
		"media/a/1_360p.mp4",
	})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Empty(t, store.objects)
}

func TestRemoveVariantsBestEffort(t *testing.T) {
	store := newFakeStore()
	boom := errors.New("access denied")

	for _, k := range []string{"media/a/1_original.mp4", "media/a/1_thumbnail.jpg", "media/a/1_360p.mp4"} {
		require.NoError(t, store.Put(context.Background(), k, bytes.NewReader([]byte("x")), 1, "", nil))
	}

	store.delFail = map[string]error{"media/a/1_thumbnail.jpg": boom}

	failed, err := RemoveVariants(context.Background(), store, []string{
		"media/a/1_original.mp4",
		"media/a/1_thumbnail.jpg",
		"media/a/1_360p.mp4",
	})

	assert.Equal(t, []string{"media/a/1_thumbnail.jpg"}, failed)
	assert.ErrorIs(t, err, boom)

	// The failing key must not have stopped the others
	assert.Len(t, store.objects, 1)
	assert.Contains(t, store.objects, "media/a/1_thumbnail.jpg")
}
