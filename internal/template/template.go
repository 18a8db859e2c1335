// Package template holds the fixed catalogue of invoice layouts and the
// selection rules around it.
package template

import (
	"fmt"

	"github.com/webappproject/geninvoico/internal/model"
)

// Info describes one renderable layout variant.
type Info struct {
	ID    string
	Label string
	// Accent is the primary color the renderer uses for this variant.
	Accent string
	// Banded draws the item table with alternating row backgrounds.
	Banded bool
}

// Default is the selection applied when none has been made yet.
const Default = "template1"

// catalogue order is the display order in the picker.
var catalogue = []Info{
	{ID: "template1", Label: "Classic", Accent: "#1f2937"},
	{ID: "template2", Label: "Modern", Accent: "#7c3aed", Banded: true},
	{ID: "template3", Label: "Minimal", Accent: "#111827"},
	{ID: "template4", Label: "Bold", Accent: "#b91c1c", Banded: true},
	{ID: "template5", Label: "Elegant", Accent: "#0f766e"},
}

// All returns the known templates in display order.
func All() []Info {
	out := make([]Info, len(catalogue))
	copy(out, catalogue)
	return out
}

// Known reports whether id names a template in the catalogue.
func Known(id string) bool {
	for _, t := range catalogue {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Lookup returns the template info for id, or the default when id is unknown.
func Lookup(id string) Info {
	for _, t := range catalogue {
		if t.ID == id {
			return t
		}
	}
	return catalogue[0]
}

// Selector tracks the active template. Selecting an unknown id is a no-op so
// a stale or malformed id can never break the render.
type Selector struct {
	current string
}

func NewSelector() *Selector {
	return &Selector{current: Default}
}

// Select switches to id when it is in the catalogue and keeps the current
// selection otherwise.
func (s *Selector) Select(id string) {
	if Known(id) {
		s.current = id
	}
}

// Current returns the active template id.
func (s *Selector) Current() string {
	if s.current == "" {
		return Default
	}
	return s.current
}

// ValidationError reports a line item that blocks the transition to preview.
type ValidationError struct {
	Index int // zero-based position of the offending item
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: missing %s", e.Index+1, e.Field)
}

// ValidateItems checks that every line item carries both a quantity and a
// unit amount. Callers must refuse a template-driven transition (edit to
// preview) when this fails.
func ValidateItems(items []model.LineItem) error {
	for i, it := range items {
		if it.Quantity.Blank() {
			return &ValidationError{Index: i, Field: "quantity"}
		}
		if it.UnitAmount.Blank() {
			return &ValidationError{Index: i, Field: "amount"}
		}
	}
	return nil
}
