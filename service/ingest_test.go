package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"sort"
	"sync"
	"testing"

	"bitwise74/media-api/aws"
	"bitwise74/media-api/model"
	"bitwise74/media-api/storemeta"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	data        []byte
	contentType string
	meta        map[string]string
}

// fakeStore is an in-memory ObjectStore for pipeline tests
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]storedObject

	putErr  error
	delFail map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]storedObject{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string, meta map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = storedObject{data: data, contentType: contentType, meta: meta}
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (io.ReadCloser, *aws.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.objects[key]
	if !ok {
		return nil, nil, os.ErrNotExist
	}

	return io.NopCloser(bytes.NewReader(o.data)), &aws.ObjectInfo{
		Key:         key,
		Size:        int64(len(o.data)),
		ContentType: o.contentType,
		Metadata:    o.meta,
	}, nil
}

func (f *fakeStore) Head(_ context.Context, key string) (*aws.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}

	return &aws.ObjectInfo{
		Key:         key,
		Size:        int64(len(o.data)),
		ContentType: o.contentType,
		Metadata:    o.meta,
	}, nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]aws.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []aws.ObjectInfo

	for k, o := range f.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, aws.ObjectInfo{Key: k, Size: int64(len(o.data))})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.delFail[key]; ok {
		return err
	}

	delete(f.objects, key)
	return nil
}

func (f *fakeStore) keysByVariant() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := map[string]string{}
	for k, o := range f.objects {
		out[o.meta["variant"]] = k
	}

	return out
}

// fakeCodec fakes the external media tool. Outputs are real files so
// the pipeline's read-back of its own temp files stays exercised.
type fakeCodec struct {
	width, height int

	probeErr     error
	thumbErr     error
	transcodeErr error
}

func (f *fakeCodec) Probe(_ context.Context, _ string) (int, int, error) {
	if f.probeErr != nil {
		return 0, 0, f.probeErr
	}

	return f.width, f.height, nil
}

func (f *fakeCodec) ExtractThumbnail(_ context.Context, _, out string) error {
	if f.thumbErr != nil {
		return f.thumbErr
	}

	return os.WriteFile(out, []byte("frame"), 0o644)
}

func (f *fakeCodec) Transcode(_ context.Context, _, out string, height int) error {
	if f.transcodeErr != nil {
		return f.transcodeErr
	}

	return os.WriteFile(out, []byte("encoded"), 0o644)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	return buf.Bytes()
}

func TestIngestImage(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        pngBytes(t),
		ContentType: "image/png",
		Filename:    "cat.png",
		UserID:      "u1",
		Tags:        "cats, pets",
	})
	require.NoError(t, err)

	rec := res.Media
	assert.Equal(t, model.MediaTypeImage, rec.MediaType)
	assert.Equal(t, "cat.png", rec.Name, "name should fall back to the filename")
	assert.Equal(t, "cats,pets", rec.Tags)

	byVariant := store.keysByVariant()
	assert.Len(t, store.objects, 2, "an image stores exactly original + thumbnail")
	assert.Equal(t, rec.OriginalKey, byVariant[storemeta.VariantOriginal])
	assert.Equal(t, rec.ThumbKey, byVariant[storemeta.VariantThumbnail])

	assert.NotEmpty(t, res.ThumbInline)
	assert.Empty(t, res.Variants)
	assert.False(t, rec.Has360)
	assert.False(t, rec.Has720)
	assert.False(t, rec.Has1080)

	thumb := store.objects[rec.ThumbKey]
	assert.Equal(t, "image/jpeg", thumb.contentType)
	assert.Equal(t, rec.OriginalKey, thumb.meta["original_key"])
	assert.Equal(t, rec.ID, thumb.meta["id"])
}

func TestIngestVideoLadderBound(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{width: 854, height: 480}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        []byte("not really a video"),
		ContentType: "video/mp4",
		Filename:    "clip.mp4",
		UserID:      "u1",
	})
	require.NoError(t, err)

	rec := res.Media
	assert.Len(t, store.objects, 3, "480p source stores original + thumbnail + 360p")
	assert.True(t, rec.Has360)
	assert.False(t, rec.Has720, "720p must not be derived from a 480p source")
	assert.False(t, rec.Has1080)
	assert.NotEmpty(t, rec.ThumbKey)
	assert.Equal(t, rec.Key360, res.Variants[storemeta.Variant360])
}

func TestIngestVideoFullLadder(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{width: 1920, height: 1080}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        []byte("payload"),
		ContentType: "video/mp4",
		Filename:    "movie.mkv",
		UserID:      "u1",
	})
	require.NoError(t, err)

	rec := res.Media
	assert.Len(t, store.objects, 5)
	assert.True(t, rec.Has360)
	assert.True(t, rec.Has720)
	assert.True(t, rec.Has1080)
	assert.Len(t, res.Variants, 3)
}

func TestIngestVideoProbeFailure(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{probeErr: os.ErrInvalid}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        []byte("garbage"),
		ContentType: "video/mp4",
		Filename:    "broken.mp4",
		UserID:      "u1",
	})
	require.NoError(t, err, "an unreadable video still ingests, original only")

	rec := res.Media
	assert.Len(t, store.objects, 1)
	assert.NotEmpty(t, rec.OriginalKey)
	assert.Empty(t, rec.ThumbKey)
	assert.Empty(t, res.Variants)
}

func TestIngestThumbnailFailureContinues(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{width: 1280, height: 720, thumbErr: os.ErrInvalid}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        []byte("payload"),
		ContentType: "video/mp4",
		Filename:    "clip.mp4",
		UserID:      "u1",
	})
	require.NoError(t, err)

	rec := res.Media
	assert.Empty(t, rec.ThumbKey)
	assert.Empty(t, res.ThumbInline)
	assert.True(t, rec.Has360, "a failed thumbnail must not stop the ladder")
	assert.True(t, rec.Has720)
}

func TestIngestOtherTypeNoDerivation(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{}}

	res, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        []byte("%PDF-1.7"),
		ContentType: "application/pdf",
		Filename:    "doc.pdf",
		UserID:      "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MediaTypeOther, res.Media.MediaType)
	assert.Len(t, store.objects, 1)
	assert.Empty(t, res.Media.ThumbKey)
}

func TestIngestEmptyPayload(t *testing.T) {
	ing := &Ingestor{Store: newFakeStore(), FFmpeg: &fakeCodec{}}

	_, err := ing.Ingest(context.Background(), &UploadInput{
		ContentType: "image/png",
		Filename:    "empty.png",
		UserID:      "u1",
	})
	assert.ErrorIs(t, err, ErrNoPayload)
}

func TestIngestOriginalPutFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.putErr = os.ErrPermission

	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{}}

	_, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        pngBytes(t),
		ContentType: "image/png",
		Filename:    "cat.png",
		UserID:      "u1",
	})
	require.Error(t, err)
	assert.Empty(t, store.objects, "a failed original upload must leave nothing behind")
}

func TestIngestNoDeduplication(t *testing.T) {
	store := newFakeStore()
	ing := &Ingestor{Store: store, FFmpeg: &fakeCodec{}}

	data := pngBytes(t)

	first, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        data,
		ContentType: "image/png",
		Filename:    "cat.png",
		UserID:      "u1",
	})
	require.NoError(t, err)

	second, err := ing.Ingest(context.Background(), &UploadInput{
		Data:        data,
		ContentType: "image/png",
		Filename:    "cat.png",
		UserID:      "u1",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Media.ID, second.Media.ID)
	assert.NotEqual(t, first.Media.OriginalKey, second.Media.OriginalKey)
	assert.Len(t, store.objects, 4, "both uploads keep their own objects")
}
