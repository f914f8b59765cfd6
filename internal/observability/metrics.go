package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engagement event kinds.
const (
	EventLike     = "like"
	EventComment  = "comment"
	EventFollow   = "follow"
	EventPost     = "post"
	EventRegister = "register"
)

var (
	// EngagementEvents counts domain mutations by kind and resulting state.
	EngagementEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_engagement_events_total",
		Help: "Total number of engagement mutations by kind and resulting state",
	}, []string{"kind", "state"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_redis_errors_total",
		Help: "Total number of Redis errors by operation",
	}, []string{"operation"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})
)

// RecordEngagement increments the engagement counter.
func RecordEngagement(kind, state string) {
	EngagementEvents.WithLabelValues(kind, state).Inc()
}
