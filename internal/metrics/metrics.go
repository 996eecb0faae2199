package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PingsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cronpulse_pings_received_total",
			Help: "Number of heartbeat requests by outcome",
		},
		[]string{"result"},
	)

	Sweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cronpulse_sweeps_total",
			Help: "Number of overdue sweeps run",
		},
	)

	MonitorsMarkedDown = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cronpulse_monitors_marked_down_total",
			Help: "Number of monitors transitioned to down by the sweeper",
		},
	)

	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cronpulse_alerts_sent_total",
			Help: "Number of alert dispatch attempts by channel and type",
		},
		[]string{"channel", "type"},
	)
)

func Init() {
	prometheus.MustRegister(PingsReceived, Sweeps, MonitorsMarkedDown, AlertsSent)
}
