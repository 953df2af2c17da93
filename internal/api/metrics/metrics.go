// Package metrics defines and registers all custom Prometheus metrics for
// the cargo portal account service. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init;
// the /metrics route exposes them alongside the echoprometheus HTTP stats.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cargo_portal"

// RegistrationsTotal counts successful registrations.
// Label:
//   - role: the role selected at registration (e.g. "driver")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through registration.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure" (all failure modes share one value,
//     mirroring the generic error returned to the client)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts explicit session terminations.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of sessions terminated via logout.",
	},
)

// DashboardDeniedTotal counts role-guard rejections on role-specific
// dashboards.
// Labels:
//   - role: the caller's actual role
//   - required: the role the endpoint serves
var DashboardDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_denied_total",
		Help:      "Total number of dashboard requests denied by the role guard.",
	},
	[]string{"role", "required"},
)
