// Package export converts a captured invoice bitmap into a paginated,
// downloadable PDF sized to a standard printable page.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/webappproject/geninvoico/internal/render"
)

// A4 portrait with a uniform margin; all page math is in millimetres.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	marginMM     = 10.0
)

// ExportError reports that no document could be produced.
type ExportError struct {
	Reason string
	Err    error
}

func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export failed: %s: %v", e.Reason, e.Err)
	}
	return "export failed: " + e.Reason
}

func (e *ExportError) Unwrap() error { return e.Err }

// Filename derives the download name from the moment of export, so repeated
// exports in one session never collide.
func Filename(now time.Time) string {
	return "invoice_" + strconv.FormatInt(now.UnixMilli(), 10) + ".pdf"
}

// slices computes the pixel height of each page slice for a source bitmap of
// heightPx pixels when at most slicePx pixels fit one printable page. The
// slice heights always sum to heightPx exactly.
func slices(heightPx, slicePx int) []int {
	if heightPx <= 0 || slicePx <= 0 {
		return nil
	}
	var out []int
	for remaining := heightPx; remaining > 0; remaining -= slicePx {
		h := slicePx
		if remaining < slicePx {
			h = remaining
		}
		out = append(out, h)
	}
	return out
}

// PDF lays the bitmap onto A4 pages: scaled to the printable width with its
// aspect ratio preserved, sliced vertically across as many pages as the
// scaled height requires. It returns the document bytes and the generated
// filename.
func PDF(bmp render.Bitmap) ([]byte, string, error) {
	if bmp.Empty() {
		return nil, "", &ExportError{Reason: "no bitmap to export"}
	}
	src, err := png.Decode(bytes.NewReader(bmp.PNG))
	if err != nil {
		return nil, "", &ExportError{Reason: "decode bitmap", Err: err}
	}
	bounds := src.Bounds()
	widthPx, heightPx := bounds.Dx(), bounds.Dy()
	if widthPx <= 0 || heightPx <= 0 {
		return nil, "", &ExportError{Reason: "bitmap has zero size"}
	}

	printableW := pageWidthMM - 2*marginMM
	printableH := pageHeightMM - 2*marginMM
	mmPerPx := printableW / float64(widthPx)
	// Source pixels that fill one printable page height at that scale.
	slicePx := int(printableH / mmPerPx)
	if slicePx < 1 {
		slicePx = 1
	}

	sub, ok := src.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, "", &ExportError{Reason: "bitmap image type does not support slicing"}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	y := 0
	for i, h := range slices(heightPx, slicePx) {
		rect := image.Rect(bounds.Min.X, bounds.Min.Y+y, bounds.Max.X, bounds.Min.Y+y+h)
		var sliceBuf bytes.Buffer
		if err := png.Encode(&sliceBuf, sub.SubImage(rect)); err != nil {
			return nil, "", &ExportError{Reason: "encode page slice", Err: err}
		}
		name := "slice-" + strconv.Itoa(i)
		pdf.RegisterImageOptionsReader(name, opts, &sliceBuf)
		pdf.AddPage()
		pdf.ImageOptions(name, marginMM, marginMM, printableW, float64(h)*mmPerPx, false, opts, 0, "")
		y += h
	}
	if pdf.Err() {
		return nil, "", &ExportError{Reason: "assemble document", Err: pdf.Error()}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", &ExportError{Reason: "write document", Err: err}
	}
	return out.Bytes(), Filename(time.Now()), nil
}
