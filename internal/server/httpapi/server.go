// Package httpapi exposes the sync server's JSON-over-HTTP API: account
// registration and login, the push/pull sync exchange, and presigned
// attachment URLs.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter assembles the API routes. Sync and attachment endpoints sit
// behind the bearer-token middleware; registration, login and health are
// public.
func NewRouter(h *Handlers, secretKey []byte) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware(secretKey))

	protected.HandleFunc("/sync/push", h.Push).Methods(http.MethodPost)
	protected.HandleFunc("/sync/pull", h.Pull).Methods(http.MethodGet)
	protected.HandleFunc("/attachments/presign-put", h.PresignPut).Methods(http.MethodPost)
	protected.HandleFunc("/attachments/presign-get", h.PresignGet).Methods(http.MethodGet)

	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Shutdown drains the server with a bounded grace period.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
