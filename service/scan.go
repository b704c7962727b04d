package service

import (
	"context"
	"errors"

	"bitwise74/media-api/storemeta"

	"go.uber.org/zap"
)

var ErrAssetNotFound = errors.New("asset not found")

// VariantDescriptor describes one stored variant found during a scan
type VariantDescriptor struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ScannedAsset is a media record rebuilt purely from object metadata,
// without touching the database
type ScannedAsset struct {
	Tags     *storemeta.Tags
	Original VariantDescriptor
	Thumb    *VariantDescriptor
	// Variant kind -> descriptor, thumbnail excluded
	Variants map[string]VariantDescriptor
}

// FindAssetByID rebuilds an asset from the bucket alone by listing the
// media prefix and inspecting each object's metadata for a matching
// id. This is an O(n) scan over everything stored, the database record
// is the fast path and this exists as the fallback behind it.
func FindAssetByID(ctx context.Context, store ObjectStore, id string) (*ScannedAsset, error) {
	objs, err := store.List(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}

	asset := &ScannedAsset{
		Variants: map[string]VariantDescriptor{},
	}
	found := false

	for _, o := range objs {
		info, err := store.Head(ctx, o.Key)
		if err != nil {
			zap.L().Warn("Failed to head object during scan",
				zap.String("key", o.Key),
				zap.Error(err))
			continue
		}

		t, ok := storemeta.Decode(info.Metadata)
		if !ok || t.ID != id {
			continue
		}

		desc := VariantDescriptor{
			Key:         o.Key,
			ContentType: info.ContentType,
			Size:        info.Size,
		}

		switch t.Variant {
		case storemeta.VariantOriginal:
			asset.Original = desc
			asset.Tags = t
		case storemeta.VariantThumbnail:
			asset.Thumb = &desc
		default:
			asset.Variants[t.Variant] = desc
		}

		found = true
	}

	if !found || asset.Tags == nil {
		return nil, ErrAssetNotFound
	}

	return asset, nil
}
