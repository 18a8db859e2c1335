// Package bridge orchestrates the capture/upload/save pipeline that turns the
// on-screen invoice into persisted assets and a stored record.
package bridge

import (
	"context"
	"fmt"

	"github.com/webappproject/geninvoico/internal/export"
	"github.com/webappproject/geninvoico/internal/model"
	"github.com/webappproject/geninvoico/internal/render"
	"github.com/webappproject/geninvoico/internal/session"
	"github.com/webappproject/geninvoico/internal/storage"
	"github.com/webappproject/geninvoico/internal/storeapi"
)

// Step names the pipeline stage a failure came from.
type Step string

const (
	StepRender    Step = "render"
	StepCapture   Step = "capture"
	StepThumbnail Step = "thumbnail"
	StepLogo      Step = "logo"
	StepSave      Step = "save"
	StepExport    Step = "export"
	StepDelete    Step = "delete"
)

// StepError tags a pipeline failure with the stage that produced it. Each
// stage's failure short-circuits everything after it.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func fail(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}

// Bridge wires the renderer, capturer, object storage and invoice store into
// the ordered save/download/delete pipelines.
type Bridge struct {
	Renderer *render.HTMLRenderer
	Capturer render.Capturer
	Storage  storage.ObjectStorage
	Store    storeapi.Client
}

func New(capturer render.Capturer, store storeapi.Client, objStore storage.ObjectStorage) *Bridge {
	return &Bridge{
		Renderer: render.NewHTMLRenderer(),
		Capturer: capturer,
		Storage:  objStore,
		Store:    store,
	}
}

func (b *Bridge) capture(ctx context.Context, inv model.Invoice, templateID string) (render.Bitmap, error) {
	html, err := b.Renderer.Render(inv, templateID)
	if err != nil {
		return render.Bitmap{}, fail(StepRender, err)
	}
	bmp, err := b.Capturer.Capture(ctx, html)
	if err != nil {
		return render.Bitmap{}, fail(StepCapture, err)
	}
	return bmp, nil
}

// Save runs the full persistence pipeline: capture the preview, upload the
// thumbnail, upload (or pass through) the logo, assemble the payload with the
// resulting URLs and the active template, then submit it to the store. Both
// uploads must yield durable URLs before the store is contacted; the session
// only absorbs the new id and URLs after the store acknowledged the save.
func (b *Bridge) Save(ctx context.Context, sess *session.Session) (model.Invoice, error) {
	if err := sess.Begin(session.ActionSave); err != nil {
		return model.Invoice{}, err
	}
	defer sess.End(session.ActionSave)

	inv := sess.Snapshot()
	templateID := sess.Template()

	bmp, err := b.capture(ctx, inv, templateID)
	if err != nil {
		return model.Invoice{}, err
	}

	thumbnailURL, err := b.Storage.Upload(ctx, bmp.DataURI(), storage.PresetThumbnail)
	if err != nil {
		return model.Invoice{}, fail(StepThumbnail, err)
	}

	logoURL := inv.Logo
	if logoURL != "" && !storage.IsRemoteURL(logoURL) {
		logoURL, err = b.Storage.Upload(ctx, inv.Logo, storage.PresetLogo)
		if err != nil {
			return model.Invoice{}, fail(StepLogo, err)
		}
	}

	payload := inv
	payload.ThumbnailURL = thumbnailURL
	payload.Logo = logoURL
	payload.Template = templateID

	saved, err := b.Store.Save(ctx, payload)
	if err != nil {
		return model.Invoice{}, fail(StepSave, err)
	}
	sess.ApplySaved(saved)
	return saved, nil
}

// Download captures the preview and converts it into the paginated PDF
// document. It returns the document bytes and the timestamped filename.
func (b *Bridge) Download(ctx context.Context, sess *session.Session) ([]byte, string, error) {
	if err := sess.Begin(session.ActionDownload); err != nil {
		return nil, "", err
	}
	defer sess.End(session.ActionDownload)

	bmp, err := b.capture(ctx, sess.Snapshot(), sess.Template())
	if err != nil {
		return nil, "", err
	}
	data, name, err := export.PDF(bmp)
	if err != nil {
		return nil, "", fail(StepExport, err)
	}
	return data, name, nil
}

// Delete removes the invoice. An invoice that was never persisted (no id) is
// a local-only discard: no network call happens and the delete succeeds.
func (b *Bridge) Delete(ctx context.Context, sess *session.Session) error {
	if err := sess.Begin(session.ActionDelete); err != nil {
		return err
	}
	defer sess.End(session.ActionDelete)

	id := sess.Snapshot().ID
	if id == "" {
		return nil
	}
	if err := b.Store.Delete(ctx, id); err != nil {
		return fail(StepDelete, err)
	}
	return nil
}
