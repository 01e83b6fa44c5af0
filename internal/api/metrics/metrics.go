// Package metrics defines the custom Prometheus metrics for the BOLO API.
// It is the single source of truth for metric names, labels, and help
// strings; HTTP-level request metrics come from the echoprometheus
// middleware instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bolo"

// UsersRegisteredTotal counts successful account registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

// AuthFailuresTotal counts failed login attempts. Unknown usernames and
// wrong passwords are indistinguishable and share one counter.
var AuthFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected login attempts.",
	},
)

// BoloWritesTotal counts bolo create/update attempts.
// Labels:
//   - op: "create" or "update"
//   - result: "success" or "failure"
var BoloWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_total",
		Help:      "Total number of bolo write operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// StorageFailuresTotal counts backing-store failures surfaced to clients.
// Labels:
//   - op: the failed store operation, e.g. "user.insert"
var StorageFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_failures_total",
		Help:      "Total number of storage failures, by operation.",
	},
	[]string{"op"},
)

// AttachmentBytesTotal accumulates the size of uploaded attachment media.
var AttachmentBytesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attachment_bytes_total",
		Help:      "Total bytes of attachment media accepted for upload.",
	},
)
