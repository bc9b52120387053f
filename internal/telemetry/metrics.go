package telemetry

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansAnalyzed counts scan cycles run through the threat analyzer
	ScansAnalyzed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wguard",
			Name:      "scans_analyzed_total",
			Help:      "Total number of scans tagged by the threat analyzer",
		},
	)

	// NetworksObserved counts observations fed to the threat analyzer
	NetworksObserved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wguard",
			Name:      "networks_observed_total",
			Help:      "Total number of network observations analyzed",
		},
	)

	// ThreatsTagged counts tags assigned, by threat type
	ThreatsTagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wguard",
			Name:      "threats_tagged_total",
			Help:      "Total number of threat tags assigned",
		},
		[]string{"threat"},
	)

	// ChangesDetected counts change events reported by the change analyzer
	ChangesDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wguard",
			Name:      "changes_detected_total",
			Help:      "Total number of change events reported",
		},
		[]string{"type", "severity"},
	)

	// ImportRows counts rows read by the CSV importers
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wguard",
			Name:      "import_rows_total",
			Help:      "Total number of import rows by outcome",
		},
		[]string{"source", "outcome"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		prometheus.DefaultRegisterer.Register(ScansAnalyzed)
		prometheus.DefaultRegisterer.Register(NetworksObserved)
		prometheus.DefaultRegisterer.Register(ThreatsTagged)
		prometheus.DefaultRegisterer.Register(ChangesDetected)
		prometheus.DefaultRegisterer.Register(ImportRows)
	})
}

// WriteTextfile dumps the default registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
