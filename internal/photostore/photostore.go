// Package photostore stores uploaded item photos as blobs.
package photostore

import (
	"context"
	"io"
)

// PhotoStore saves and serves photo blobs. Keys are opaque to callers; URL
// turns a key into an address a client can fetch the photo from.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
	URL(storageKey string) string
}

// ExtForMIME returns the file extension used for an image MIME type.
func ExtForMIME(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
