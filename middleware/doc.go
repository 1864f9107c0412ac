// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/parties", middleware.WithLogging(h.List))

Logs request start (method, path, remote) and completion (status,
duration_ms). Each request is also counted in the HTTP metrics under the
route pattern it matched.

# CORS Middleware

Only origins on the allow-list may call the API from a browser:

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
	}

A request whose Origin is not listed gets 403 with ErrOriginNotAllowed
and never reaches the mux. Requests without an Origin header pass.
Preflight OPTIONS from a listed origin answers 204.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, party)
	middleware.ErrorResponse(w, http.StatusNotFound, "party not found")
	middleware.ValidationErrorResponse(w, ve)

Parse JSON request bodies:

	var in models.PartyInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
