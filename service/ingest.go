package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"bitwise74/media-api/model"
	"bitwise74/media-api/storemeta"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var ErrNoPayload = errors.New("no file payload provided")

// Ingestor runs the upload pipeline: classify, store the original,
// derive and store per-type variants, and assemble the media record.
// The record itself is persisted by the caller once Ingest returns.
type Ingestor struct {
	Store  ObjectStore
	FFmpeg Transcoder
}

type UploadInput struct {
	Data        []byte
	ContentType string
	Filename    string
	UserID      string
	Name        string
	Description string
	// Raw comma-separated tag string as the user typed it
	Tags string
}

type UploadResult struct {
	Media *model.Media
	// Base64 JPEG preview, set for images and videos when thumbnail
	// derivation succeeded
	ThumbInline string
	// Resolution label -> storage key, videos only
	Variants map[string]string
}

// Ingest processes one upload end to end. Only two failures abort the
// request: an empty payload and a failed upload of the original bytes.
// Everything derived (thumbnail, resolution rungs) degrades instead,
// the asset just ends up with fewer variants.
//
// Calling Ingest twice with the same bytes produces two independent
// assets, there is no deduplication.
func (ing *Ingestor) Ingest(ctx context.Context, in *UploadInput) (*UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrNoPayload
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate asset ID, %w", err)
	}

	now := time.Now()

	name := in.Name
	if name == "" {
		name = in.Filename
	}

	tags := storemeta.SplitTags(in.Tags)

	rec := &model.Media{
		ID:          id,
		UserID:      in.UserID,
		Name:        name,
		Description: in.Description,
		Tags:        strings.Join(tags, ","),
		MediaType:   model.MediaTypeOf(in.ContentType),
		MimeType:    in.ContentType,
		Size:        int64(len(in.Data)),
		CreatedAt:   now.Unix(),
	}

	base := storemeta.Tags{
		ID:          id,
		Name:        name,
		Description: in.Description,
		Tags:        tags,
		MediaType:   rec.MediaType,
		CreatedAt:   rec.CreatedAt,
	}

	ext := path.Ext(in.Filename)
	origKey := keyFor(id, now, storemeta.VariantOriginal, ext)

	origTags := base
	origTags.Variant = storemeta.VariantOriginal

	// The original upload is the one mandatory write. Nothing has been
	// stored before it, so a failure here aborts cleanly.
	err = ing.Store.Put(ctx, origKey, bytes.NewReader(in.Data), rec.Size, in.ContentType, origTags.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to upload original, %w", err)
	}
	rec.OriginalKey = origKey

	res := &UploadResult{
		Media:    rec,
		Variants: map[string]string{},
	}

	base.OriginalKey = origKey

	switch rec.MediaType {
	case model.MediaTypeImage:
		ing.deriveImage(ctx, in.Data, rec, res, now, base)
	case model.MediaTypeVideo:
		ing.deriveVideo(ctx, in.Data, rec, res, now, base, ext)
	}

	return res, nil
}

func (ing *Ingestor) deriveImage(ctx context.Context, data []byte, rec *model.Media, res *UploadResult, now time.Time, base storemeta.Tags) {
	thumb, err := MakeImageThumbnail(data)
	if err != nil {
		zap.L().Error("Failed to derive image thumbnail",
			zap.String("id", rec.ID),
			zap.Error(err))
		return
	}

	key := keyFor(rec.ID, now, storemeta.VariantThumbnail, ".jpg")

	t := base
	t.Variant = storemeta.VariantThumbnail

	err = ing.Store.Put(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg", t.Encode())
	if err != nil {
		zap.L().Error("Failed to upload thumbnail",
			zap.String("id", rec.ID),
			zap.String("key", key),
			zap.Error(err))
		return
	}

	rec.ThumbKey = key
	res.ThumbInline = base64.StdEncoding.EncodeToString(thumb)
}

func (ing *Ingestor) deriveVideo(ctx context.Context, data []byte, rec *model.Media, res *UploadResult, now time.Time, base storemeta.Tags, ext string) {
	if ext == "" {
		ext = ".mp4"
	}

	temp, err := os.CreateTemp("", "ingest-*"+ext)
	if err != nil {
		zap.L().Error("Failed to create temporary file", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	defer os.Remove(temp.Name())

	_, err = temp.Write(data)
	temp.Close()
	if err != nil {
		zap.L().Error("Failed to stage video payload", zap.String("id", rec.ID), zap.Error(err))
		return
	}

	_, h, err := ing.FFmpeg.Probe(ctx, temp.Name())
	if err != nil {
		// No readable video stream, the asset keeps its original only
		zap.L().Warn("Failed to probe video, skipping derivation",
			zap.String("id", rec.ID),
			zap.Error(err))
		return
	}

	ing.videoThumbnail(ctx, temp.Name(), rec, res, now, base)

	for _, height := range PlanLadder(h) {
		ing.transcodeRung(ctx, temp.Name(), height, rec, res, now, base)
	}
}

func (ing *Ingestor) videoThumbnail(ctx context.Context, src string, rec *model.Media, res *UploadResult, now time.Time, base storemeta.Tags) {
	out := filepath.Join(os.TempDir(), "thumb_"+rec.ID+".jpg")
	defer os.Remove(out)

	if err := ing.FFmpeg.ExtractThumbnail(ctx, src, out); err != nil {
		zap.L().Error("Failed to extract video thumbnail",
			zap.String("id", rec.ID),
			zap.Error(err))
		return
	}

	thumb, err := os.ReadFile(out)
	if err != nil {
		zap.L().Error("Failed to read extracted thumbnail", zap.String("id", rec.ID), zap.Error(err))
		return
	}

	key := keyFor(rec.ID, now, storemeta.VariantThumbnail, ".jpg")

	t := base
	t.Variant = storemeta.VariantThumbnail

	err = ing.Store.Put(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), "image/jpeg", t.Encode())
	if err != nil {
		zap.L().Error("Failed to upload thumbnail",
			zap.String("id", rec.ID),
			zap.String("key", key),
			zap.Error(err))
		return
	}

	rec.ThumbKey = key
	res.ThumbInline = base64.StdEncoding.EncodeToString(thumb)
}

func (ing *Ingestor) transcodeRung(ctx context.Context, src string, height int, rec *model.Media, res *UploadResult, now time.Time, base storemeta.Tags) {
	variant := storemeta.VariantForHeight(height)
	out := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s.mp4", rec.ID, variant))

	// The output is removed as soon as its upload finishes, failed or
	// not, so a long ladder never piles up temp files
	defer os.Remove(out)

	if err := ing.FFmpeg.Transcode(ctx, src, out, height); err != nil {
		zap.L().Error("Failed to transcode variant",
			zap.String("id", rec.ID),
			zap.String("variant", variant),
			zap.Error(err))
		return
	}

	f, err := os.Open(out)
	if err != nil {
		zap.L().Error("Failed to open transcoded file", zap.String("id", rec.ID), zap.Error(err))
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		zap.L().Error("Failed to stat transcoded file", zap.String("id", rec.ID), zap.Error(err))
		return
	}

	key := keyFor(rec.ID, now, variant, ".mp4")

	t := base
	t.Variant = variant

	if err := ing.Store.Put(ctx, key, f, stat.Size(), "video/mp4", t.Encode()); err != nil {
		zap.L().Error("Failed to upload variant",
			zap.String("id", rec.ID),
			zap.String("key", key),
			zap.Error(err))
		return
	}

	switch height {
	case 360:
		rec.Key360, rec.Has360 = key, true
	case 720:
		rec.Key720, rec.Has720 = key, true
	case 1080:
		rec.Key1080, rec.Has1080 = key, true
	}

	res.Variants[variant] = key
}

// keyFor builds the object key for one variant. Asset id, timestamp
// and variant kind all end up in the path, which keeps bucket listings
// readable when debugging by hand.
func keyFor(id string, t time.Time, variant, ext string) string {
	return fmt.Sprintf("%s%s/%d_%s%s", KeyPrefix, id, t.UnixMilli(), variant, ext)
}
