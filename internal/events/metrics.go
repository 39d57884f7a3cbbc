package events

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skeleton",
			Subsystem: "events",
			Name:      "triggered_total",
			Help:      "Total number of dispatched events",
		},
		[]string{"event"},
	)

	eventsStopped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skeleton",
			Subsystem: "events",
			Name:      "stopped_total",
			Help:      "Dispatches ended early by a listener stopping propagation",
		},
		[]string{"event"},
	)

	eventsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skeleton",
			Subsystem: "events",
			Name:      "failed_total",
			Help:      "Dispatches aborted by a listener error",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(eventsTriggered, eventsStopped, eventsFailed)
}
