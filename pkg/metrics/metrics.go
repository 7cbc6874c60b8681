// Package metrics wires the server's tick health, connection, and traffic
// counters into Prometheus, exported on a small debug HTTP listener
// separate from the UDP game port. Grounded on
// annel0-mmo-game/internal/eventbus/metrics.go's MetricsExporter shape:
// fields of prometheus.Counter/Gauge registered once in the constructor via
// prometheus.MustRegister, served by promhttp.Handler().
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter owns every metric this server reports.
type Exporter struct {
	TicksRun           prometheus.Counter
	TickDurationMs     prometheus.Histogram
	InputsIngested     prometheus.Counter
	BulletsSpawned     prometheus.Counter
	BulletsDestroyed   prometheus.Counter
	EnemiesSpawned     prometheus.Counter
	EnemiesKilled      prometheus.Counter
	PlayersConnected   prometheus.Gauge
	DecodeErrors       prometheus.Counter
	PeerRTTMs          prometheus.Gauge
	PeerJitterMs       prometheus.Gauge
	PeerLossPercent    prometheus.Gauge
}

// New builds and registers every metric. Call once per process.
func New() *Exporter {
	e := &Exporter{
		TicksRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "ticks_total",
			Help: "Total simulation ticks run.",
		}),
		TickDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "tick_duration_ms",
			Help:    "Wall-clock duration of each simulation tick.",
			Buckets: []float64{1, 2, 5, 10, 16, 25, 50, 100},
		}),
		InputsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "inputs_ingested_total",
			Help: "PlayerInput messages applied to the simulation.",
		}),
		BulletsSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "bullets_spawned_total",
			Help: "Bullets created, by player fire or enemy AI.",
		}),
		BulletsDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "bullets_destroyed_total",
			Help: "Bullets removed, by hit, expiry, or going out of bounds.",
		}),
		EnemiesSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "enemies_spawned_total",
			Help: "Enemies created to maintain the population cap.",
		}),
		EnemiesKilled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "enemies_killed_total",
			Help: "Enemies killed by player bullets.",
		}),
		PlayersConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "players_connected",
			Help: "Currently connected players.",
		}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "decode_errors_total",
			Help: "Datagrams dropped for failing to decode.",
		}),
		PeerRTTMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "peer_rtt_ms_avg",
			Help: "Average peer round-trip time, mirrored from netstats.",
		}),
		PeerJitterMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "peer_jitter_ms_avg",
			Help: "Average peer RTT jitter, mirrored from netstats.",
		}),
		PeerLossPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tankarena", Subsystem: "server", Name: "peer_loss_percent_avg",
			Help: "Average peer packet loss percentage, mirrored from netstats.",
		}),
	}

	prometheus.MustRegister(
		e.TicksRun, e.TickDurationMs, e.InputsIngested, e.BulletsSpawned,
		e.BulletsDestroyed, e.EnemiesSpawned, e.EnemiesKilled, e.PlayersConnected,
		e.DecodeErrors, e.PeerRTTMs, e.PeerJitterMs, e.PeerLossPercent,
	)
	return e
}

// Serve starts the Prometheus debug listener in a goroutine. It never
// blocks; callers that need to observe listener failure should inspect the
// error channel via ListenAndServe directly if that matters to them, which
// this simulation core does not.
func (e *Exporter) Serve(addr string) {
	go http.ListenAndServe(addr, promhttp.Handler())
}
