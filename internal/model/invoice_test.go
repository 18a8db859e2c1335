package model

import (
	"encoding/json"
	"regexp"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	inv := New()
	if inv.Title != DefaultTitle {
		t.Fatalf("title = %q, want %q", inv.Title, DefaultTitle)
	}
	if len(inv.Items) != 1 {
		t.Fatalf("items = %d, want 1 blank line", len(inv.Items))
	}
	if inv.Meta.Number != "" {
		t.Fatalf("number assigned at construction: %q", inv.Meta.Number)
	}
}

func TestEnsureNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d{6}$`)

	inv := New()
	inv.EnsureNumber()
	if !pattern.MatchString(inv.Meta.Number) {
		t.Fatalf("generated number %q does not match INV-XXXXXX", inv.Meta.Number)
	}

	got := inv.Meta.Number
	inv.EnsureNumber()
	if inv.Meta.Number != got {
		t.Fatalf("existing number overwritten: %q -> %q", got, inv.Meta.Number)
	}
}

func TestGenerateNumberRange(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-[1-9]\d{5}$`)
	for i := 0; i < 100; i++ {
		if n := GenerateNumber(); !pattern.MatchString(n) {
			t.Fatalf("number %q outside INV-100000..INV-999999", n)
		}
	}
}

func TestNumericUnmarshal(t *testing.T) {
	var doc struct {
		Qty    Numeric `json:"qty"`
		Amount Numeric `json:"amount"`
		Tax    Numeric `json:"tax"`
	}
	// Stored records mix string and bare-number forms for the same fields.
	raw := `{"qty":"3","amount":12.5,"tax":null}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatal(err)
	}
	if v := doc.Qty.Value(); v != 3 {
		t.Errorf("qty = %v, want 3", v)
	}
	if v := doc.Amount.Value(); v != 12.5 {
		t.Errorf("amount = %v, want 12.5", v)
	}
	if !doc.Tax.Blank() {
		t.Errorf("null tax should stay blank, got %q", doc.Tax)
	}
}

func TestNumericMarshalAsString(t *testing.T) {
	out, err := json.Marshal(LineItem{Quantity: "2", UnitAmount: "65"})
	if err != nil {
		t.Fatal(err)
	}
	var round LineItem
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatal(err)
	}
	if round.Quantity != "2" || round.UnitAmount != "65" {
		t.Fatalf("round trip changed values: %+v", round)
	}
}

func TestInvoiceJSONShape(t *testing.T) {
	inv := New()
	inv.Meta.Number = "INV-123456"
	inv.Account.SWIFT = "ABCDEF"
	out, err := json.Marshal(inv)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	// The wire shape the store expects: meta under "invoice", SWIFT upper-case.
	meta, ok := doc["invoice"].(map[string]any)
	if !ok {
		t.Fatalf("missing invoice meta object in %s", out)
	}
	if meta["number"] != "INV-123456" {
		t.Errorf("invoice.number = %v", meta["number"])
	}
	account, _ := doc["account"].(map[string]any)
	if _, ok := account["SWIFT"]; !ok {
		t.Errorf("account.SWIFT key missing in %s", out)
	}
	if _, ok := doc["id"]; ok {
		t.Errorf("empty id should be omitted, got %s", out)
	}
}

func TestCloneIsolation(t *testing.T) {
	inv := New()
	inv.Items[0].Name = "design work"
	cp := inv.Clone()
	cp.Items[0].Name = "changed"
	cp.Items = append(cp.Items, LineItem{})
	if inv.Items[0].Name != "design work" {
		t.Fatalf("clone mutation leaked into original: %q", inv.Items[0].Name)
	}
	if len(inv.Items) != 1 {
		t.Fatalf("clone append leaked into original: %d items", len(inv.Items))
	}
}
