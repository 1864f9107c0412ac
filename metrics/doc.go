// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics holds the Prometheus collectors for the registry.

All collectors are registered with the default registry in init, so the
router only has to mount promhttp.Handler() on /metrics:

	mux.Handle("GET /metrics", promhttp.Handler())

# Collectors

  - http_requests_total: requests by route pattern, method and status
  - http_request_duration_seconds: latency by route pattern
  - party_mutations_total: create/update/delete by outcome
  - logo_upload_bytes_total: bytes written to the upload directory
  - store_queue_timeouts_total: callers that gave up waiting for a connection
  - cors_rejections_total: requests refused by the origin allow-list
*/
package metrics
