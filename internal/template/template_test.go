package template

import (
	"errors"
	"testing"

	"github.com/webappproject/geninvoico/internal/model"
)

func TestSelectorIgnoresUnknownID(t *testing.T) {
	s := NewSelector()
	s.Select("template3")
	if s.Current() != "template3" {
		t.Fatalf("current = %q, want template3", s.Current())
	}
	s.Select("template99")
	if s.Current() != "template3" {
		t.Fatalf("unknown id must not change selection, got %q", s.Current())
	}
	s.Select("")
	if s.Current() != "template3" {
		t.Fatalf("empty id must not change selection, got %q", s.Current())
	}
}

func TestSelectorDefault(t *testing.T) {
	if got := NewSelector().Current(); got != Default {
		t.Fatalf("fresh selector = %q, want %q", got, Default)
	}
	if !Known(Default) {
		t.Fatalf("default template must be in the catalogue")
	}
}

func TestLookupFallsBack(t *testing.T) {
	if Lookup("nope").ID != Default {
		t.Fatalf("lookup of unknown id must fall back to default")
	}
	if Lookup("template4").Label != "Bold" {
		t.Fatalf("lookup returned wrong template")
	}
}

func TestValidateItems(t *testing.T) {
	ok := []model.LineItem{
		{Quantity: "2", UnitAmount: "50"},
		{Quantity: "1", UnitAmount: "30"},
	}
	if err := ValidateItems(ok); err != nil {
		t.Fatalf("valid items rejected: %v", err)
	}

	missingQty := []model.LineItem{
		{Quantity: "2", UnitAmount: "50"},
		{Quantity: "", UnitAmount: "30"},
	}
	err := ValidateItems(missingQty)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Index != 1 || verr.Field != "quantity" {
		t.Fatalf("unexpected validation detail: %+v", verr)
	}

	missingAmount := []model.LineItem{{Quantity: "1", UnitAmount: "   "}}
	if err := ValidateItems(missingAmount); err == nil {
		t.Fatalf("whitespace-only amount must fail validation")
	}
}
