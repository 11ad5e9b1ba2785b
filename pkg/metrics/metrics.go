// Package metrics provides Prometheus metrics for the external sync layer.
//
// All collectors are registered at package load via promauto. Labels are
// kept to provider/operation/status so cardinality stays bounded by the
// small, closed set of providers.
//
// Example:
//
//	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("airtable", "create_record"))
//	defer timer.ObserveDuration()
//	metrics.RequestsTotal.WithLabelValues("airtable", "create_record", "success").Inc()
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts provider HTTP requests.
	// Labels: provider, operation, status (success/error/rate_limited)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordsync_requests_total",
			Help: "Total number of provider HTTP requests",
		},
		[]string{"provider", "operation", "status"},
	)

	// RequestDuration tracks provider request latency in seconds.
	// Labels: provider, operation
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recordsync_request_duration_seconds",
			Help:    "Provider request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	// RetriesTotal counts retry attempts after rate limiting or transport failure.
	// Labels: provider, reason (rate_limit/transport)
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordsync_retries_total",
			Help: "Total number of retried provider requests",
		},
		[]string{"provider", "reason"},
	)

	// RecordsSynced counts submitted records written to providers.
	// Labels: provider, status (success/soft_failure/error)
	RecordsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordsync_records_synced_total",
			Help: "Total number of records written to external providers",
		},
		[]string{"provider", "status"},
	)

	// FieldsSkipped counts submitted form fields skipped during a write.
	// Labels: provider, reason (empty/file/unknown_field)
	FieldsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordsync_fields_skipped_total",
			Help: "Total number of form fields skipped during record writes",
		},
		[]string{"provider", "reason"},
	)

	// SheetSyncStageFailures counts sheet pipeline failures by stage.
	// Labels: stage (download/parse/append/encode/init_upload/upload)
	SheetSyncStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordsync_sheet_sync_stage_failures_total",
			Help: "Sheet sync pipeline failures by stage",
		},
		[]string{"stage"},
	)
)
