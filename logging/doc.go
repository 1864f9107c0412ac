// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logging builds the process-wide slog handler.

	closer, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	defer closer.Close()

Text or JSON output goes to stderr, or to a size-rotated file (50 MB,
seven backups, fourteen days, gzip) when File is set.
*/
package logging
