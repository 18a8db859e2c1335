package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
)

// Scale is the fixed oversampling factor applied when capturing, so the
// bitmap is export quality rather than screen resolution.
const Scale = 2

// Bitmap is a captured raster snapshot of the rendered invoice.
type Bitmap struct {
	PNG    []byte
	Width  int // pixels, already scaled
	Height int
}

// Empty reports whether the bitmap is missing or zero-sized.
func (b Bitmap) Empty() bool {
	return len(b.PNG) == 0 || b.Width <= 0 || b.Height <= 0
}

// DataURI encodes the bitmap the way the object-storage API accepts inline
// payloads.
func (b Bitmap) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b.PNG)
}

// FromPNG validates raw PNG bytes and wraps them as a Bitmap.
func FromPNG(data []byte) (Bitmap, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Bitmap{}, &CaptureError{Reason: "decode captured image", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Bitmap{}, &CaptureError{Reason: "captured image has zero size"}
	}
	return Bitmap{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// Capturer produces a raster snapshot of the laid-out invoice page.
type Capturer interface {
	// Capture renders html and screenshots the invoice element. The snapshot
	// covers the element's full bounds independent of any scroll position.
	Capture(ctx context.Context, html string) (Bitmap, error)
}

// CaptureError reports a failed capture. No partial bitmap accompanies it.
type CaptureError struct {
	Reason string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture failed: %s: %v", e.Reason, e.Err)
	}
	return "capture failed: " + e.Reason
}

func (e *CaptureError) Unwrap() error { return e.Err }
