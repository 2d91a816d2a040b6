package standard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var invocationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "steward_invocations_total",
		Help: "Standard invocations by terminal state.",
	},
	[]string{"standard", "state"},
)

var modesCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "steward_mode_executions_total",
		Help: "Sub-action executions by mode and outcome status.",
	},
	[]string{"standard", "mode", "status"},
)
