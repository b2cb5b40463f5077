package observe

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the metrics gathered from g to path in the
// Prometheus text format, for the node exporter textfile collector.
// The file is replaced atomically.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
