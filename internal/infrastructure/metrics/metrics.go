package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Order workflow metrics
	OrdersCreated   prometheus.Counter
	OrdersApproved  prometheus.Counter
	OrdersRejected  prometheus.Counter
	OrdersExpired   prometheus.Counter
	ApproveDuration prometheus.Histogram

	// Wallet charge metrics
	ChargesCreated   prometheus.Counter
	ChargesCompleted prometheus.Counter
	ChargesRejected  prometheus.Counter
	ChargesExpired   prometheus.Counter
	ChargeAmount     prometheus.Histogram

	// Ledger metrics
	EntriesCreated *prometheus.CounterVec
	ReconcileDrift prometheus.Counter
	LedgerErrors   *prometheus.CounterVec

	// Service lifecycle metrics
	ServicesProvisioned prometheus.Counter
	ServicesExpired     prometheus.Counter
	ProvisionFailures   prometheus.Counter

	// Notification metrics
	NotificationsEmitted *prometheus.CounterVec
	NotificationsDeduped *prometheus.CounterVec

	// Sweep metrics
	SweepRuns      prometheus.Counter
	SweepDuration  prometheus.Histogram
	SweepItemFails prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxLag       prometheus.Gauge
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Order workflow metrics
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_orders_created_total",
			Help: "Total number of orders created",
		}),
		OrdersApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_orders_approved_total",
			Help: "Total number of orders approved",
		}),
		OrdersRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_orders_rejected_total",
			Help: "Total number of orders rejected",
		}),
		OrdersExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_orders_expired_total",
			Help: "Total number of orders expired by the sweep",
		}),
		ApproveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "subledger_order_approve_duration_seconds",
			Help:    "Duration of order approvals including provisioning",
			Buckets: prometheus.DefBuckets,
		}),

		// Wallet charge metrics
		ChargesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_charges_created_total",
			Help: "Total number of wallet charges created",
		}),
		ChargesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_charges_completed_total",
			Help: "Total number of wallet charges completed",
		}),
		ChargesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_charges_rejected_total",
			Help: "Total number of wallet charges rejected",
		}),
		ChargesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_charges_expired_total",
			Help: "Total number of wallet charges expired by the sweep",
		}),
		ChargeAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "subledger_charge_amount",
			Help:    "Wallet charge amounts",
			Buckets: []float64{1000, 10000, 50000, 100000, 500000, 1000000},
		}),

		// Ledger metrics
		EntriesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_ledger_entries_total",
				Help: "Total ledger entries by kind",
			},
			[]string{"kind"},
		),
		ReconcileDrift: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_reconcile_drift_total",
			Help: "Total balance drifts corrected by reconciliation",
		}),
		LedgerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_ledger_errors_total",
				Help: "Total ledger errors by type",
			},
			[]string{"error_type"},
		),

		// Service lifecycle metrics
		ServicesProvisioned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_services_provisioned_total",
			Help: "Total number of services provisioned",
		}),
		ServicesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_services_expired_total",
			Help: "Total number of services expired",
		}),
		ProvisionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_provision_failures_total",
			Help: "Total provisioner failures after retries",
		}),

		// Notification metrics
		NotificationsEmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_notifications_emitted_total",
				Help: "Total notification events emitted by kind",
			},
			[]string{"kind"},
		),
		NotificationsDeduped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_notifications_deduped_total",
				Help: "Total notification attempts suppressed by dedup",
			},
			[]string{"kind"},
		),

		// Sweep metrics
		SweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_sweep_runs_total",
			Help: "Total sweep runs",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "subledger_sweep_duration_seconds",
			Help:    "Duration of sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
		SweepItemFails: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_sweep_item_failures_total",
			Help: "Total items a sweep run failed to process",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "subledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "subledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxLag: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "subledger_outbox_lag",
			Help: "Unpublished outbox events at last poll",
		}),
	}
}
