package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/webappproject/geninvoico/internal/model"
)

func TestSaveRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/invoices" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var inv model.Invoice
		if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
			t.Fatalf("decode: %v", err)
		}
		inv.ID = "abc-123"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(inv)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	inv := model.New()
	inv.Title = "Quarterly"
	saved, err := c.Save(context.Background(), inv)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != "abc-123" || saved.Title != "Quarterly" {
		t.Fatalf("saved = %+v", saved)
	}
}

func TestSaveNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	_, err := c.Save(context.Background(), model.New())
	var serr *SaveError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SaveError, got %v", err)
	}
	if serr.Op != "save" || serr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected detail: %+v", serr)
	}
}

func TestListAndGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/invoices":
			_, _ = w.Write([]byte(`[{"id":"a","title":"One","items":[],"tax":0},{"id":"b","title":"Two","items":[],"tax":"5"}]`))
		case "/api/invoices/b":
			_, _ = w.Write([]byte(`{"id":"b","title":"Two","items":[{"qty":2,"amount":"30","total":60}],"tax":"5"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	list, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[1].Tax != "5" {
		t.Fatalf("list = %+v", list)
	}

	inv, err := c.Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Numeric fields accept both JSON numbers and strings.
	if inv.Items[0].Quantity != "2" || inv.Items[0].UnitAmount != "30" {
		t.Fatalf("item = %+v", inv.Items[0])
	}
}

func TestDeleteStatuses(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api")
	status = http.StatusNoContent
	if err := c.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete 204: %v", err)
	}
	status = http.StatusNotFound
	err := c.Delete(context.Background(), "a")
	var serr *SaveError
	if !errors.As(err, &serr) || serr.Op != "delete" {
		t.Fatalf("expected delete SaveError, got %v", err)
	}
}

func TestTransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:0/api")
	_, err := c.List(context.Background())
	var serr *SaveError
	if !errors.As(err, &serr) || serr.Status != 0 {
		t.Fatalf("expected transport SaveError, got %v", err)
	}
}
