// Package service implements the media ingestion pipeline and the
// pieces it orchestrates: ffmpeg invocations, image thumbnailing,
// ladder planning and the metadata-scan read path.
package service

import (
	"context"
	"io"

	"bitwise74/media-api/aws"
)

// KeyPrefix is the bucket prefix every object this service writes
// lives under
const KeyPrefix = "media/"

// ObjectStore is the subset of the S3 gateway the pipeline and read
// paths use. *aws.S3Client implements it, tests swap in a fake.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string, meta map[string]string) error
	Get(ctx context.Context, key string) (io.ReadCloser, *aws.ObjectInfo, error)
	Head(ctx context.Context, key string) (*aws.ObjectInfo, error)
	List(ctx context.Context, prefix string) ([]aws.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// Transcoder wraps the external media tool. All three calls block
// until the tool exits and surface its failure as an opaque error,
// nothing is retried.
type Transcoder interface {
	// Probe returns the dimensions of the first video stream in the
	// file at path, or an error if there is none
	Probe(ctx context.Context, path string) (width, height int, err error)
	// ExtractThumbnail writes exactly one still frame, captured one
	// second in, to the out path
	ExtractThumbnail(ctx context.Context, in, out string) error
	// Transcode re-encodes the input to the target height, preserving
	// aspect ratio, writing a single output file
	Transcode(ctx context.Context, in, out string, height int) error
}
