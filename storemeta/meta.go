// Package storemeta implements the metadata tag set attached to every
// object this service writes. The tags duplicate the media record, so
// the read paths can rebuild a record straight from the bucket without
// touching the database.
package storemeta

import (
	"strconv"
	"strings"
)

// Variant kinds. Exactly one original per asset, a thumbnail for
// images and videos, resolution rungs only for videos.
const (
	VariantOriginal  = "original"
	VariantThumbnail = "thumbnail"
	Variant360       = "360p"
	Variant720       = "720p"
	Variant1080      = "1080p"
)

// Metadata field names. Every writer must set all of them, the read
// paths treat this as a secondary index.
const (
	keyID          = "id"
	keyName        = "name"
	keyDescription = "description"
	keyTags        = "tags"
	keyMediaType   = "mediatype"
	keyCreatedAt   = "created_at"
	keyVariant     = "variant"
	keyOriginalKey = "original_key"
)

// Tags is the decoded form of one object's metadata
type Tags struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	MediaType   string
	CreatedAt   int64
	Variant     string
	// Set on every variant except the original itself, so derived
	// objects can be correlated without the database
	OriginalKey string
}

// Encode flattens the tag set into the string map the object store
// accepts as user metadata
func (t *Tags) Encode() map[string]string {
	m := map[string]string{
		keyID:          t.ID,
		keyName:        t.Name,
		keyDescription: t.Description,
		keyTags:        strings.Join(t.Tags, ","),
		keyMediaType:   t.MediaType,
		keyCreatedAt:   strconv.FormatInt(t.CreatedAt, 10),
		keyVariant:     t.Variant,
	}

	if t.OriginalKey != "" {
		m[keyOriginalKey] = t.OriginalKey
	}

	return m
}

// Decode rebuilds a tag set from object metadata. Returns false when
// the object wasn't written by this service (no id tag).
func Decode(m map[string]string) (*Tags, bool) {
	id := m[keyID]
	if id == "" {
		return nil, false
	}

	createdAt, _ := strconv.ParseInt(m[keyCreatedAt], 10, 64)

	return &Tags{
		ID:          id,
		Name:        m[keyName],
		Description: m[keyDescription],
		Tags:        SplitTags(m[keyTags]),
		MediaType:   m[keyMediaType],
		CreatedAt:   createdAt,
		Variant:     m[keyVariant],
		OriginalKey: m[keyOriginalKey],
	}, true
}

// SplitTags turns the user-supplied comma-separated tag string into a
// clean list. Entries are trimmed and empty ones dropped, order is
// preserved.
func SplitTags(raw string) []string {
	var tags []string

	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		tags = append(tags, t)
	}

	return tags
}

// VariantForHeight maps a ladder rung height to its variant kind
func VariantForHeight(h int) string {
	switch h {
	case 360:
		return Variant360
	case 720:
		return Variant720
	case 1080:
		return Variant1080
	default:
		return ""
	}
}
