package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

var registry = prometheus.NewRegistry()

var (
	trackerRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "qareport_tracker_requests_total",
		Help: "Requests issued to the Azure DevOps API, by endpoint.",
	}, []string{"endpoint"})

	wikiRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "qareport_wiki_requests_total",
		Help: "Requests issued to the Confluence API, by endpoint.",
	}, []string{"endpoint"})

	reportRows = promauto.With(registry).NewGauge(prometheus.GaugeOpts{
		Name: "qareport_report_rows",
		Help: "Rows rendered into the last report.",
	})
)

// CountTrackerRequest records one Azure DevOps API request.
func CountTrackerRequest(endpoint string) {
	trackerRequests.WithLabelValues(endpoint).Inc()
}

// CountWikiRequest records one Confluence API request.
func CountWikiRequest(endpoint string) {
	wikiRequests.WithLabelValues(endpoint).Inc()
}

// SetReportRows records the number of rows in the rendered report.
func SetReportRows(n int) {
	reportRows.Set(float64(n))
}

// PushMetrics pushes the collected run metrics to a Prometheus Pushgateway.
// The report generator is a batch job, so the push model replaces the scrape
// endpoint a long-running service would expose.
func PushMetrics(gatewayURL string) error {
	if err := push.New(gatewayURL, "qareport").Gatherer(registry).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
