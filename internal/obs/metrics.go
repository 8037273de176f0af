package obs

import "github.com/prometheus/client_golang/prometheus"

// Metrics are registered against prometheus.DefaultRegisterer so that
// cmd/domainguardd can expose them directly via promhttp.Handler().
var (
	ProbeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "domainguard_probe_duration_seconds",
		Help: "Time spent running a single candidate probe, by stage.",
	}, []string{"stage"})

	ProbesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domainguard_probes_total",
		Help: "Count of per-candidate probes, by stage and outcome.",
	}, []string{"stage", "outcome"})

	ScanCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "domainguard_scan_candidates",
		Help: "Number of candidates produced per scan run.",
	})
)

func init() {
	prometheus.MustRegister(ProbeDuration, ProbesTotal, ScanCandidates)
}
