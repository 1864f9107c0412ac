// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the party registry API server.

The registry keeps political party records (name, abbreviation, ideology,
founding date, headquarters, colour and logo) behind a small REST API.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first if present:

	DATABASE_URL=postgres://... go run .

Or with flags, against a local SQLite file:

	go run . -t sqlite -d ./registry.db -p 3001

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string or SQLite path

Optional settings:

  - DATABASE_TYPE (-t): postgres (default) or sqlite
  - PORT (-p): Server port (default: 3001)
  - ALLOWED_ORIGINS (-origins): comma-separated CORS allow-list
  - UPLOAD_DIR (-uploads): logo directory (default: ./uploads)
  - MAX_UPLOAD_SIZE (-max-upload): logo size cap, e.g. 5MB
  - DB_MAX_OPEN_CONNS (-max-conns): pool size (default: 10)
  - DB_QUEUE_TIMEOUT (-queue-timeout): wait for a pool slot (default: 5s)
  - LOG_LEVEL, LOG_FORMAT, LOG_FILE: see package logging

# Architecture

  - handlers: HTTP request handlers (parties)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS allow-list, logging, JSON helpers
  - registry: validate, attach logo, persist
  - validation: field rules and date normalization
  - uploads: logo storage and serving
  - store: persistence with admission control
  - models: wire and storage types plus the field mapping
  - db: connection and schema creation
  - metrics: prometheus collectors
  - logging: slog handler setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
