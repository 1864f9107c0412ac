// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the party registry API.

# Route Registration

NewRouter creates the handler tree with all endpoints, wrapped in the CORS
allow-list from the configuration:

	handler := router.NewRouter(reg, files, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Parties:

	GET    /api/parties        - List active parties (?ideology=&limit=&offset=)
	POST   /api/parties        - Register a party (JSON or multipart with logo)
	GET    /api/parties/stats  - Counts per ideology
	GET    /api/parties/{id}   - Get one party
	PUT    /api/parties/{id}   - Replace a party's fields
	DELETE /api/parties/{id}   - Soft-delete a party

Logos:

	GET /uploads/{filename}
*/
package router
