package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PostsMutated counts admin post mutations by action.
	PostsMutated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_posts_mutated_total",
		Help: "Total number of post creates, updates and deletes",
	}, []string{"action"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_like_toggles_total",
		Help: "Total number of like toggles by result",
	}, []string{"result"})

	// CommentsCreated counts stored comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dealboard_comments_created_total",
		Help: "Total number of comments created",
	})

	// Logins counts OAuth callback outcomes.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_logins_total",
		Help: "Total number of OAuth logins by result",
	}, []string{"result"})

	// GuardDenials counts requests rejected by the authorization guard.
	GuardDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_guard_denials_total",
		Help: "Total number of requests rejected by the authorization guard",
	}, []string{"reason"})

	// WebSocketConnections is the gauge of live feed connections.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dealboard_websocket_connections",
		Help: "Number of active live feed WebSocket connections",
	})

	// InboundSubmissions counts newsletter and contact submissions.
	InboundSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dealboard_inbound_submissions_total",
		Help: "Total number of newsletter and contact form submissions",
	}, []string{"kind"})
)
