// Package metrics exposes prometheus meters for the ledger dispatcher.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stakepool"

var (
	// Operations counts processed instructions by opcode and outcome.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Ledger operations processed, by opcode and result.",
	}, []string{"op", "result"})

	// TotalStaked tracks the pool's aggregate staked balance after the most
	// recent successful operation.
	TotalStaked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "total_staked",
		Help:      "Aggregate staked balance of the pool.",
	})
)

// Handler returns the http handler for scraping metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
