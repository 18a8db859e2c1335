// Package store is the invoice-store service: the HTTP API that persists
// full invoice records and serves them back to the editor.
package store

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/webappproject/geninvoico/internal/model"
)

// Record is the persisted row. The complete invoice travels as one JSON
// document; a few fields are lifted into columns for listing and lookup.
type Record struct {
	ID            string `gorm:"primaryKey;size:64"`
	Title         string
	Number        string `gorm:"index"`
	ThumbnailURL  string
	Document      []byte
	CreatedAt     time.Time
	LastUpdatedAt time.Time `gorm:"index"`
}

func (Record) TableName() string { return "invoices" }

// Migrate creates or updates the invoices table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}

func toRecord(inv model.Invoice) (Record, error) {
	doc, err := json.Marshal(inv)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:           inv.ID,
		Title:        inv.Title,
		Number:       inv.Meta.Number,
		ThumbnailURL: inv.ThumbnailURL,
		Document:     doc,
	}
	if inv.CreatedAt != nil {
		rec.CreatedAt = *inv.CreatedAt
	}
	if inv.LastUpdatedAt != nil {
		rec.LastUpdatedAt = *inv.LastUpdatedAt
	}
	return rec, nil
}

func (r Record) invoice() (model.Invoice, error) {
	var inv model.Invoice
	if err := json.Unmarshal(r.Document, &inv); err != nil {
		return model.Invoice{}, err
	}
	return inv, nil
}
