// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/party-registry/cliparse"
	"github.com/danielhkuo/party-registry/handlers"
	"github.com/danielhkuo/party-registry/middleware"
	"github.com/danielhkuo/party-registry/registry"
	"github.com/danielhkuo/party-registry/uploads"
)

// NewRouter registers every endpoint and wraps the mux in the CORS
// allow-list, so refused origins never reach a handler
func NewRouter(reg *registry.Registry, files *uploads.Resolver, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	partyHandler := handlers.NewPartyHandler(reg, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Party registry
	mux.HandleFunc("GET /api/parties", middleware.WithLogging(partyHandler.ListParties))
	mux.HandleFunc("POST /api/parties", middleware.WithLogging(partyHandler.CreateParty))
	mux.HandleFunc("GET /api/parties/stats", middleware.WithLogging(partyHandler.GetPartyStats))
	mux.HandleFunc("GET /api/parties/{id}", middleware.WithLogging(partyHandler.GetParty))
	mux.HandleFunc("PUT /api/parties/{id}", middleware.WithLogging(partyHandler.UpdateParty))
	mux.HandleFunc("DELETE /api/parties/{id}", middleware.WithLogging(partyHandler.DeleteParty))

	// Stored logos, read-only
	mux.HandleFunc("GET "+uploads.URLPrefix+"{filename}", middleware.WithLogging(files.Handler().ServeHTTP))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("party-registry API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigins)(mux)
}
