package harness

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelcheck",
			Subsystem: "harness",
			Name:      "runs_total",
			Help:      "Total number of harness runs by status",
		},
		[]string{"status"},
	)

	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelcheck",
			Subsystem: "harness",
			Name:      "steps_total",
			Help:      "Total number of load/size/save steps by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelcheck",
			Subsystem: "harness",
			Name:      "step_duration_seconds",
			Help:      "Duration of one load/size or load/save step in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"phase"},
	)

	modelSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "modelcheck",
			Subsystem: "model",
			Name:      "size",
			Help:      "Last reported size metric per model key",
		},
		[]string{"key"},
	)

	lastRunSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelcheck",
			Subsystem: "harness",
			Name:      "last_run_success",
			Help:      "1 if the most recent run succeeded, 0 otherwise",
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, stepsTotal, stepDuration, modelSize, lastRunSuccess)
}

func observeStep(phase Phase, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = string(classify(err))
	}
	stepsTotal.WithLabelValues(string(phase), outcome).Inc()
	stepDuration.WithLabelValues(string(phase)).Observe(dur.Seconds())
}

func observeRun(res Result) {
	runsTotal.WithLabelValues(string(res.Status)).Inc()
	if res.OK() {
		lastRunSuccess.Set(1)
	} else {
		lastRunSuccess.Set(0)
	}
}

// WriteMetricsFile writes every registered metric to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
