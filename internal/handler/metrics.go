package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var favoritesToggles = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "favorites_toggles_total",
		Help: "Favorite toggles by outcome.",
	},
	[]string{"result"},
)

func recordToggle(added bool) {
	result := "removed"
	if added {
		result = "added"
	}
	favoritesToggles.WithLabelValues(result).Inc()
}
