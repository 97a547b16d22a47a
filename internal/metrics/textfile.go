package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile dumps every registered metric to path in the Prometheus text
// exposition format, suitable for the node_exporter textfile collector.
// The file is written atomically.
func WriteTextfile(path string) error {
	return writeTextfile(path, prometheus.DefaultGatherer)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
