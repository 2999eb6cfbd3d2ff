// AngelaMos | 2026
// pages.go

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/invoice-backend/internal/config"
)

// registerPages mounts stand-ins for the browser pages so the gate's
// redirects land somewhere. The gate has already decided access by the
// time these run.
func registerPages(r chi.Router, gate config.GateConfig) {
	placeholder := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			//nolint:errcheck // best-effort response write
			_, _ = w.Write([]byte(title + "\n"))
		}
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, gate.LoginPath, http.StatusFound)
	})
	r.Get(gate.LoginPath, placeholder("login"))
	r.Get(gate.LandingPath, placeholder("dashboard"))
	r.Get("/invoice/*", placeholder("invoice"))
}
