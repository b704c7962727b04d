// Package model defines database models
package model

import "strings"

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
	MediaTypeOther = "other"
)

// MediaTypeOf buckets an upload by its declared content type. This is
// computed once at ingestion and never recomputed afterwards.
func MediaTypeOf(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return MediaTypeVideo
	case strings.HasPrefix(contentType, "audio/"):
		return MediaTypeAudio
	default:
		return MediaTypeOther
	}
}

// Media is the relational projection of one uploaded asset plus the
// storage key of each of its variants. A row is only created after
// every object it references has been written, so a key stored here is
// guaranteed to exist in the bucket (the reverse doesn't hold, a crash
// mid-upload can leave orphaned objects without a row).
type Media struct {
	ID     string `gorm:"primaryKey" json:"id"`
	UserID string `json:"-"`

	Name        string `json:"name"`
	Description string `json:"description"`
	// Stored comma-joined, split before leaving the API
	Tags      string `json:"-"`
	MediaType string `json:"media_type"`
	MimeType  string `json:"mime_type"`
	// Bytes of the original payload, derived artifacts not included
	Size int64 `json:"size"`

	OriginalKey string `json:"original_key"`
	ThumbKey    string `json:"thumb_key,omitempty"`

	Key360  string `json:"-"`
	Key720  string `json:"-"`
	Key1080 string `json:"-"`
	Has360  bool   `json:"has_360"`
	Has720  bool   `json:"has_720"`
	Has1080 bool   `json:"has_1080"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`
}

// KeyForQuality maps a normalized quality label to the stored key.
// Returns an empty string when that variant was never generated.
func (m *Media) KeyForQuality(quality string) string {
	switch quality {
	case "original":
		return m.OriginalKey
	case "360p":
		return m.Key360
	case "720p":
		return m.Key720
	case "1080p":
		return m.Key1080
	default:
		return ""
	}
}

// VariantKeys returns every storage key this record knows about,
// original and thumbnail included.
func (m *Media) VariantKeys() []string {
	var keys []string

	for _, k := range []string{m.OriginalKey, m.ThumbKey, m.Key360, m.Key720, m.Key1080} {
		if k != "" {
			keys = append(keys, k)
		}
	}

	return keys
}
