// Package server serves generated report files for local viewing.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// New builds the router: a health endpoint plus a file server over the
// report directory.
func New(reportDir string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/*", http.FileServer(http.Dir(reportDir)))

	return r
}

// Serve blocks serving the report directory on the given address.
func Serve(addr, reportDir string) error {
	return http.ListenAndServe(addr, New(reportDir))
}
