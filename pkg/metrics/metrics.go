package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "workflow", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "workflow", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	Propagations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "workflow", Name: "propagations_total", Help: "Per-locale propagation outcomes by mode (patch, force, force-node)."},
		[]string{"mode", "outcome"},
	)
	UnresolvedReferences = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "workflow", Name: "unresolved_references_total", Help: "Relationship ids with no counterpart in the target locale."},
	)
	PatchOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "workflow", Name: "patch_ops", Help: "Patch operations computed, by kind."},
		[]string{"op"},
	)
	Commits = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "workflow", Name: "commits_total", Help: "Draft commits written to live."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(Propagations)
	reg.MustRegister(UnresolvedReferences)
	reg.MustRegister(PatchOps)
	reg.MustRegister(Commits)
}
