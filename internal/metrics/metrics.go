package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счетчики сервера; экспортируются через /metrics
var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "truco_rooms_active",
		Help: "Number of live rooms.",
	})

	ClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "truco_clients_connected",
		Help: "Number of open websocket connections.",
	})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truco_commands_total",
		Help: "Room commands processed, by kind and result.",
	}, []string{"kind", "result"})

	HandsPlayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "truco_hands_played_total",
		Help: "Hands resolved across all rooms.",
	})

	MatchesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "truco_matches_completed_total",
		Help: "Matches finished, by winning team.",
	}, []string{"team"})
)
