// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Mutation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Mutating operations
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route pattern, method, and status code.",
		}, []string{"route", "method", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})

	PartyMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "party_mutations_total",
			Help: "Party create/update/delete attempts by outcome.",
		}, []string{"operation", "outcome"})

	LogoUploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "logo_upload_bytes_total",
			Help: "Bytes written to the logo upload directory.",
		})

	StoreQueueTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "store_queue_timeouts_total",
			Help: "Store operations rejected because no connection slot freed up in time.",
		})

	CORSRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cors_rejections_total",
			Help: "Requests rejected because their Origin is not allow-listed.",
		})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		PartyMutationsTotal,
		LogoUploadBytes,
		StoreQueueTimeoutsTotal,
		CORSRejectionsTotal,
	)
}
