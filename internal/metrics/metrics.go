package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerconnect_posts_created_total",
		Help: "Total number of posts created, including reshares.",
	})

	LikesToggled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerconnect_likes_toggled_total",
		Help: "Total number of like/unlike toggles applied.",
	})

	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerconnect_comments_created_total",
		Help: "Total number of comments created.",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokerconnect_messages_sent_total",
		Help: "Total number of chat messages sent.",
	})

	NotificationsFanout = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokerconnect_notifications_fanout_total",
		Help: "Total number of notifications fanned out, by type.",
	}, []string{"type"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokerconnect_ws_connections",
		Help: "Number of live WebSocket connections.",
	})
)
