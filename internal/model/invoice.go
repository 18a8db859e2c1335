package model

import (
	"math/rand"
	"time"
)

// Invoice is the canonical record of one invoice. Field names follow the
// persisted record shape of the store API, so a marshalled Invoice is the
// exact save payload.
type Invoice struct {
	ID            string      `json:"id,omitempty"`
	Title         string      `json:"title"`
	Company       Party       `json:"company"`
	Billing       Party       `json:"billing"`
	Shipping      Party       `json:"shipping"`
	Meta          InvoiceMeta `json:"invoice"`
	Account       BankAccount `json:"account"`
	Items         []LineItem  `json:"items"`
	Tax           Numeric     `json:"tax"`
	Notes         string      `json:"notes"`
	Logo          string      `json:"logo"`
	Template      string      `json:"template,omitempty"`
	ThumbnailURL  string      `json:"thumbnailUrl,omitempty"`
	CreatedAt     *time.Time  `json:"createdAt,omitempty"`
	LastUpdatedAt *time.Time  `json:"lastUpdatedAt,omitempty"`
}

// Party is a name/phone/address triple used for the company, billing and
// shipping sections.
type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type InvoiceMeta struct {
	Number  string `json:"number"`
	Date    string `json:"date"`
	DueDate string `json:"dueDate"`
}

type BankAccount struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	SWIFT  string `json:"SWIFT"`
}

// LineItem is one invoice row. Quantity and UnitAmount hold raw user input
// (possibly blank or non-numeric while editing); Total is derived and never
// edited directly.
type LineItem struct {
	Name        string  `json:"name"`
	Quantity    Numeric `json:"qty"`
	UnitAmount  Numeric `json:"amount"`
	Description string  `json:"description"`
	Total       float64 `json:"total"`
}

// DefaultTitle is the display label of a freshly created invoice.
const DefaultTitle = "New Invoice"

// New returns an invoice with fresh defaults: one blank line item, zero tax,
// empty sections. The invoice number is not assigned here; see EnsureNumber.
func New() Invoice {
	return Invoice{
		Title: DefaultTitle,
		Items: []LineItem{{}},
	}
}

// EnsureNumber assigns an invoice number when none is set yet. A number that
// is already present is never overwritten. The generated form is "INV-"
// followed by a 6-digit pseudo-random integer.
func (inv *Invoice) EnsureNumber() {
	if inv.Meta.Number != "" {
		return
	}
	inv.Meta.Number = GenerateNumber()
}

// GenerateNumber produces a display invoice number in [INV-100000, INV-999999].
func GenerateNumber() string {
	n := 100000 + rand.Intn(900000)
	return "INV-" + itoa6(n)
}

func itoa6(n int) string {
	var b [6]byte
	for i := 5; i >= 0; i-- {
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[:])
}

// Clone returns a deep copy, so a snapshot handed to the export pipeline can
// never observe later edits to the session-owned invoice.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = make([]LineItem, len(inv.Items))
	copy(out.Items, inv.Items)
	if inv.CreatedAt != nil {
		t := *inv.CreatedAt
		out.CreatedAt = &t
	}
	if inv.LastUpdatedAt != nil {
		t := *inv.LastUpdatedAt
		out.LastUpdatedAt = &t
	}
	return out
}
