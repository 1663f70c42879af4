// Package metrics provides Prometheus observability for the simulation
// server: tick throughput, ledger write/read volume and WebSocket load.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksTotal counts completed simulation ticks.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_ticks_total",
		Help: "Total simulation ticks processed.",
	})

	// TransfersRecorded counts ledger appends by direction (sent/received).
	TransfersRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargorutas_transfers_recorded_total",
		Help: "Total transfer entries appended to cargo ledgers.",
	}, []string{"direction"})

	// LedgerQueries counts aggregate queries answered for the presentation
	// layer.
	LedgerQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_ledger_queries_total",
		Help: "Total ledger aggregation queries served.",
	})

	// EventsPersisted counts events written through to durable storage.
	EventsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_events_persisted_total",
		Help: "Total events written to the transfer store.",
	})

	// EventPersistErrors counts failed write-throughs.
	EventPersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_event_persist_errors_total",
		Help: "Total event persistence failures.",
	})

	// BrokerPublishErrors counts transfer messages the broker rejected.
	BrokerPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_broker_publish_errors_total",
		Help: "Total failed broker publishes of transfer messages.",
	})

	// CacheErrors counts failed totals cache writes and invalidations.
	CacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_cache_errors_total",
		Help: "Total failed totals cache operations.",
	})

	// WSClients tracks active WebSocket viewer connections.
	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cargorutas_ws_clients",
		Help: "Active WebSocket viewer connections.",
	})

	// WSMessagesOut counts broadcast messages pushed to viewers.
	WSMessagesOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargorutas_ws_messages_out_total",
		Help: "Total WebSocket messages broadcast to viewers.",
	})
)

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
