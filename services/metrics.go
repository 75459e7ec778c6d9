package services

import "github.com/prometheus/client_golang/prometheus"

var (
	ProductWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogo",
			Subsystem: "products",
			Name:      "writes_total",
			Help:      "Product writes by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	ShipmentsReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "catalogo",
			Subsystem: "shipments",
			Name:      "received_total",
			Help:      "Shipments transitioned to received",
		},
	)

	OpenDrafts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "catalogo",
			Subsystem: "drafts",
			Name:      "open",
			Help:      "Product drafts currently held in memory",
		},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
