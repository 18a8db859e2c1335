package render

import (
	"context"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// ChromeCapturer captures the rendered invoice through headless Chromium.
// Screenshotting the invoice element (rather than the viewport) makes the
// capture independent of scroll position, and loading images through the
// browser's own fetch keeps cross-origin logos intact in the output.
type ChromeCapturer struct {
	// ExecPath overrides the Chromium binary location; empty uses the
	// chromedp default discovery.
	ExecPath string
	// Timeout bounds one capture run. Zero relies entirely on ctx.
	Timeout time.Duration
}

const captureSelector = "#invoice"

// viewport sized to the invoice sheet; the element screenshot clips to the
// element's bounds, so the height only needs to be large enough to lay out.
const (
	viewportWidth  = 900
	viewportHeight = 1200
)

func NewChromeCapturer(execPath string) *ChromeCapturer {
	return &ChromeCapturer{ExecPath: execPath}
}

func (c *ChromeCapturer) Capture(ctx context.Context, html string) (Bitmap, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	if c.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, c.Timeout)
		defer cancelTimeout()
	}

	white := &cdp.RGBA{R: 255, G: 255, B: 255, A: 1}
	dataURL := "data:text/html," + url.PathEscape(html)

	var buf []byte
	err := chromedp.Run(runCtx,
		// Invoices never export with a transparent or dark background.
		emulation.SetDefaultBackgroundColorOverride().WithColor(white),
		chromedp.EmulateViewport(viewportWidth, viewportHeight, chromedp.EmulateScale(Scale)),
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible(captureSelector, chromedp.ByID),
		chromedp.Screenshot(captureSelector, &buf, chromedp.NodeVisible, chromedp.ByID),
	)
	if err != nil {
		return Bitmap{}, &CaptureError{Reason: "headless render", Err: err}
	}
	return FromPNG(buf)
}
