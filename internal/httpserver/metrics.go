package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "wordlebot",
	Name:      "sessions_active",
	Help:      "Number of live assistant sessions.",
})
