// Package storage uploads binary assets (invoice thumbnails, company logos)
// to external object storage and hands back durable URLs.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Upload presets; choosing the preset is the caller's responsibility.
const (
	PresetThumbnail = "invoices-thumbnail"
	PresetLogo      = "company-logos"
)

// ObjectStorage accepts raw bytes or a data URI and returns a durable URL.
type ObjectStorage interface {
	Upload(ctx context.Context, data string, preset string) (string, error)
}

// UploadError reports a failed asset upload. A save that hits one aborts
// before the invoice store is ever contacted.
type UploadError struct {
	Preset string
	Status int // HTTP status when the service answered, zero otherwise
	Err    error
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upload %s: storage returned status %d", e.Preset, e.Status)
	}
	return fmt.Sprintf("upload %s: %v", e.Preset, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DecodeDataURI splits a data URI into its payload bytes and MIME type.
// Non-URI input is returned as-is with an empty MIME type so callers can pass
// raw bytes through the same path.
func DecodeDataURI(data string) ([]byte, string, error) {
	if !strings.HasPrefix(data, "data:") {
		return []byte(data), "", nil
	}
	rest := strings.TrimPrefix(data, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data uri")
	}
	mime, _, _ := strings.Cut(meta, ";")
	if strings.Contains(meta, "base64") {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data uri payload: %w", err)
		}
		return raw, mime, nil
	}
	return []byte(payload), mime, nil
}

// IsRemoteURL reports whether ref already points at hosted storage, in which
// case a re-upload can be skipped and the URL reused as-is.
func IsRemoteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
