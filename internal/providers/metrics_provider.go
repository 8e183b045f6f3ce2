package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ghvault/internal/services"
	"ghvault/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncDownloads()
	IncDownloadRetries()
	IncEventsScanned(count int)
	IncEventsMatched(count int)
	IncMalformedLines(count int)
	IncDaysProcessed()
	IncDayFailures()
	ObserveDayDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	downloads       prometheus.Counter
	downloadRetries prometheus.Counter
	eventsScanned   prometheus.Counter
	eventsMatched   prometheus.Counter
	malformedLines  prometheus.Counter
	daysProcessed   prometheus.Counter
	dayFailures     prometheus.Counter
	dayDuration     prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncDownloads()       { m.downloads.Inc() }
func (m *MetricsProvider) IncDownloadRetries() { m.downloadRetries.Inc() }

func (m *MetricsProvider) IncEventsScanned(count int)  { m.eventsScanned.Add(float64(count)) }
func (m *MetricsProvider) IncEventsMatched(count int)  { m.eventsMatched.Add(float64(count)) }
func (m *MetricsProvider) IncMalformedLines(count int) { m.malformedLines.Add(float64(count)) }

func (m *MetricsProvider) IncDaysProcessed() { m.daysProcessed.Inc() }
func (m *MetricsProvider) IncDayFailures()   { m.dayFailures.Inc() }

func (m *MetricsProvider) ObserveDayDuration(duration time.Duration) {
	m.dayDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, status services.RunStatusServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ghvault_requests_total",
			Help: "Total number of status server HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ghvault_request_duration_seconds",
			Help:    "Status server request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		downloads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_downloads_total",
			Help: "Total number of archive hour downloads attempted",
		}),

		downloadRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_download_retries_total",
			Help: "Total number of archive download retries",
		}),

		eventsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_events_scanned_total",
			Help: "Total number of events read from archive hours",
		}),

		eventsMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_events_matched_total",
			Help: "Total number of events matching the tracked identity",
		}),

		malformedLines: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_malformed_lines_total",
			Help: "Total number of malformed archive lines skipped",
		}),

		daysProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_days_processed_total",
			Help: "Total number of days fully processed this run",
		}),

		dayFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ghvault_day_failures_total",
			Help: "Total number of days that failed this run",
		}),

		dayDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ghvault_day_duration_seconds",
			Help:    "Wall time spent processing one day",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ghvault_days_remaining",
		Help: "Days still unprocessed in the current run",
	}, func() float64 {
		return float64(status.Snapshot().DaysRemaining)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncDownloads()                                    {}
func (n *noopMetrics) IncDownloadRetries()                              {}
func (n *noopMetrics) IncEventsScanned(_ int)                           {}
func (n *noopMetrics) IncEventsMatched(_ int)                           {}
func (n *noopMetrics) IncMalformedLines(_ int)                          {}
func (n *noopMetrics) IncDaysProcessed()                                {}
func (n *noopMetrics) IncDayFailures()                                  {}
func (n *noopMetrics) ObserveDayDuration(_ time.Duration)               {}
