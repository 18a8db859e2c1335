package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/webappproject/geninvoico/internal/httpx"
	"github.com/webappproject/geninvoico/internal/model"
)

// Handler serves the invoice-store API over one table of records.
type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{DB: db} }

// List: GET /api/invoices — full records, most recently updated first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var recs []Record
	if err := h.DB.Order("last_updated_at desc").Find(&recs).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	out := make([]model.Invoice, 0, len(recs))
	for _, rec := range recs {
		inv, err := rec.invoice()
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "corrupt_invoice_record", map[string]string{"id": rec.ID})
			return
		}
		out = append(out, inv)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get: GET /api/invoices/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, id string) {
	var rec Record
	if err := h.DB.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "failed_to_load_invoice", nil)
		return
	}
	inv, err := rec.invoice()
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "corrupt_invoice_record", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Save: POST /api/invoices — create or update. A record without an id gets
// one assigned along with its creation timestamp; every save bumps
// lastUpdatedAt. The stored form is echoed back.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var inv model.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(inv.Items) == 0 {
		httpx.Error(w, http.StatusBadRequest, "validation_failed", map[string]string{"items": "required"})
		return
	}

	now := time.Now().UTC()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
		inv.CreatedAt = &now
	} else if inv.CreatedAt == nil {
		inv.CreatedAt = &now
	}
	inv.LastUpdatedAt = &now

	rec, err := toRecord(inv)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed_to_encode_invoice", nil)
		return
	}
	if err := h.DB.Save(&rec).Error; err != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed_to_save_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Delete: DELETE /api/invoices/{id} — 204 once the row is gone, 404 when it
// never existed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	res := h.DB.Delete(&Record{}, "id = ?", id)
	if res.Error != nil {
		httpx.Error(w, http.StatusInternalServerError, "failed_to_delete_invoice", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	httpx.NoContent(w)
}
