// Package server assembles the HTTP surface of the invoice-store service.
package server

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/webappproject/geninvoico/internal/httpx"
	"github.com/webappproject/geninvoico/internal/identity"
	"github.com/webappproject/geninvoico/internal/store"
)

// New constructs the root handler: health endpoints plus the invoice-store
// API. Mutating routes require the identity provider to report a signed-in
// caller; reads are open, matching the original service.
func New(db *gorm.DB, idp identity.Provider) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	h := store.NewHandler(db)

	requireSignIn := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if idp != nil && !idp.SignedIn(r.Context()) {
				idp.PromptSignIn()
				httpx.Error(w, http.StatusUnauthorized, "sign_in_required", nil)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("/api/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.List(w, r)
		case http.MethodPost:
			requireSignIn(h.Save)(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})

	mux.HandleFunc("/api/invoices/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/invoices/")
		if id == "" || strings.Contains(id, "/") {
			httpx.Error(w, http.StatusNotFound, "invoice_not_found", nil)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.Get(w, r, id)
		case http.MethodDelete:
			requireSignIn(func(w http.ResponseWriter, r *http.Request) {
				h.Delete(w, r, id)
			})(w, r)
		default:
			w.Header().Set("Allow", "GET,DELETE")
			httpx.Error(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})

	return mux
}
