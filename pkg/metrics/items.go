package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ListingMetrics instruments the unified item listing.
type ListingMetrics struct {
	duration prometheus.Histogram
	listed   *prometheus.CounterVec
}

func NewListingMetrics(reg prometheus.Registerer) *ListingMetrics {
	if reg == nil {
		return &ListingMetrics{}
	}
	m := &ListingMetrics{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "items_list_duration_seconds",
			Help:    "Latency of unified item listings, fetch through pagination.",
			Buckets: prometheus.DefBuckets,
		}),
		listed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "items_listed_total",
			Help: "Rows fetched and normalized by item listings, per source type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.duration, m.listed)
	return m
}

func (m *ListingMetrics) ObserveDuration(d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

func (m *ListingMetrics) AddListed(itemType string, n int) {
	if m == nil || m.listed == nil || n <= 0 {
		return
	}
	m.listed.WithLabelValues(normalizeLabel(itemType)).Add(float64(n))
}

// LookupMetrics counts best-effort category/location resolutions that failed.
type LookupMetrics struct {
	failures *prometheus.CounterVec
}

func NewLookupMetrics(reg prometheus.Registerer) *LookupMetrics {
	if reg == nil {
		return &LookupMetrics{}
	}
	m := &LookupMetrics{
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_failures_total",
			Help: "Category/location resolutions that failed and were omitted.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.failures)
	return m
}

func (m *LookupMetrics) IncFailure(kind string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(kind)).Inc()
}
