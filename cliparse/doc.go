// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3001)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "postgres" (default) or "sqlite"
  - AllowedOrigins: CORS allow-list (default: http://localhost:5173)
  - UploadDir: Directory for stored logos (default: ./uploads)
  - MaxUploadSize: Logo size cap in bytes (default: 5MB)
  - MaxOpenConns: Database pool size (default: 10)
  - QueueTimeout: Maximum wait for a pool slot (default: 5s)
  - LogLevel, LogFormat, LogFile: slog settings

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type
	--origins       Allowed origins
	--uploads       Upload directory
	--max-upload    Logo size cap ("5MB", "512 KiB", ...)
	--max-conns     Pool size
	--queue-timeout Pool wait timeout
	--log-level     debug, info, warn, error
	--log-format    text or json
	--log-file      Rotating log file

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ALLOWED_ORIGINS   → --origins
	UPLOAD_DIR        → --uploads
	MAX_UPLOAD_SIZE   → --max-upload
	DB_MAX_OPEN_CONNS → --max-conns
	DB_QUEUE_TIMEOUT  → --queue-timeout
	LOG_LEVEL         → --log-level
	LOG_FORMAT        → --log-format
	LOG_FILE          → --log-file

CLI flags take precedence over environment variables. main.go loads a
.env file (if present) before parsing, so the same names work there.

# Validation

ParseFlags returns an error if DATABASE_URL is missing, the database type
is unknown, or a numeric/size/duration value does not parse.
*/
package cliparse
