package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/webappproject/geninvoico/internal/identity"
	"github.com/webappproject/geninvoico/internal/model"
	"github.com/webappproject/geninvoico/internal/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func payload(title string) string {
	inv := model.New()
	inv.Title = title
	inv.Meta.Number = "INV-123456"
	inv.Items = []model.LineItem{{Name: "design", Quantity: "2", UnitAmount: "50", Total: 100}}
	data, _ := json.Marshal(inv)
	return string(data)
}

func TestSaveListGetDelete(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(true))

	// Create
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload("First")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}
	var created model.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.CreatedAt == nil || created.LastUpdatedAt == nil {
		t.Fatalf("created record missing id/timestamps: %+v", created)
	}

	// Update keeps the id and createdAt, bumps lastUpdatedAt.
	created.Title = "First (edited)"
	body, _ := json.Marshal(created)
	req = httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(string(body)))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var updated model.Invoice
	_ = json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.ID != created.ID {
		t.Fatalf("update must keep id, got %q", updated.ID)
	}
	if updated.CreatedAt == nil || !updated.CreatedAt.Equal(*created.CreatedAt) {
		t.Fatalf("update must keep createdAt")
	}

	// List
	req = httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var list []model.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "First (edited)" {
		t.Fatalf("list = %+v", list)
	}

	// Get
	req = httptest.NewRequest(http.MethodGet, "/api/invoices/"+created.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}
	var got model.Invoice
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Items[0].Total != 100 {
		t.Fatalf("round-tripped item total = %v", got.Items[0].Total)
	}

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/api/invoices/"+created.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/invoices/"+created.ID, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d, want 404", w.Code)
	}
}

func TestListNewestFirst(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(true))
	for _, title := range []string{"older", "newer"} {
		req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload(title)))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("save %q: %d", title, w.Code)
		}
	}
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var list []model.Invoice
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 2 || list[0].Title != "newer" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestSaveRejectsEmptyItems(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(true))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(`{"title":"x","items":[]}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty items: %d, want 400", w.Code)
	}
}

func TestMutationsRequireSignIn(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(false))
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload("x")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("save while signed out: %d, want 401", w.Code)
	}
	// Reads stay open.
	req = httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list while signed out: %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(true))
	req := httptest.NewRequest(http.MethodPut, "/api/invoices", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("put: %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := New(setupTestDB(t), identity.Static(true))
	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}
}
