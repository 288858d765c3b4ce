package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tictactoe"

// Metrics - game counters exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	GamesCreated  prometheus.Counter
	GamesWon      *prometheus.CounterVec
	MovesApplied  prometheus.Counter
	MovesRejected *prometheus.CounterVec
	Jumps         prometheus.Counter
}

func New() *Metrics {
	that := &Metrics{
		registry: prometheus.NewRegistry(),

		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Total number of games created",
		}),
		GamesWon: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_won_total",
			Help:      "Total number of winning moves, by mark",
		}, []string{"mark"}),
		MovesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_applied_total",
			Help:      "Total number of moves placed on a board",
		}),
		MovesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_rejected_total",
			Help:      "Total number of rejected moves, by reason",
		}, []string{"reason"}),
		Jumps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_jumps_total",
			Help:      "Total number of jumps through the move history",
		}),
	}

	that.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		that.GamesCreated,
		that.GamesWon,
		that.MovesApplied,
		that.MovesRejected,
		that.Jumps,
	)

	return that
}

func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{Registry: that.registry})
}
