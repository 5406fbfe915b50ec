package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondchat_messages_sent_total",
			Help: "Total messages sent",
		},
		[]string{"type"},
	)

	ReactionsToggled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondchat_reactions_toggled_total",
			Help: "Total reaction toggles",
		},
	)

	TipsTransferred = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondchat_tips_transferred_total",
			Help: "Total completed tip transfers",
		},
	)

	TipCoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondchat_tip_coins_total",
			Help: "Total coins moved by tips",
		},
	)

	EventsRouted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bondchat_events_routed_total",
			Help: "Change-feed events applied to open sessions",
		},
		[]string{"stream"},
	)

	UnreadFanoutFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bondchat_unread_fanout_failures_total",
			Help: "Per-member unread increments that failed",
		},
	)

	ClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bondchat_ws_clients_connected",
			Help: "Currently connected websocket clients",
		},
	)
)
