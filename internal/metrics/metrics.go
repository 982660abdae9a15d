package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service counters in a dedicated registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	faucetRequests *prometheus.CounterVec
	faucetDispatch *prometheus.CounterVec
	transactions   *prometheus.CounterVec
	events         *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	faucetRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decibling",
		Name:      "faucet_requests_total",
		Help:      "Faucet requests by result.",
	}, []string{"result"})

	faucetDispatch := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decibling",
		Name:      "faucet_dispatch_total",
		Help:      "Faucet transfers by kind and status.",
	}, []string{"kind", "status"})

	transactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decibling",
		Name:      "chain_transactions_total",
		Help:      "Submitted transactions by final status.",
	}, []string{"status"})

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "decibling",
		Name:      "listener_events_total",
		Help:      "Decoded contract events by contract and event name.",
	}, []string{"contract", "event"})

	reg.MustRegister(faucetRequests, faucetDispatch, transactions, events)

	return &Recorder{
		registry:       reg,
		faucetRequests: faucetRequests,
		faucetDispatch: faucetDispatch,
		transactions:   transactions,
		events:         events,
	}
}

// Registry returns the registry backing the recorder
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) FaucetRequest(result string) {
	if r == nil {
		return
	}
	r.faucetRequests.WithLabelValues(result).Inc()
}

func (r *Recorder) FaucetDispatch(kind string, status string) {
	if r == nil {
		return
	}
	r.faucetDispatch.WithLabelValues(kind, status).Inc()
}

func (r *Recorder) Transaction(status string) {
	if r == nil {
		return
	}
	r.transactions.WithLabelValues(status).Inc()
}

func (r *Recorder) Event(contract string, event string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(contract, event).Inc()
}
