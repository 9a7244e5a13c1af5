package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the directory service.
type Metrics struct {
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec
	SpamReports     *prometheus.CounterVec
	ContactsAdded   prometheus.Counter
	Lookups         *prometheus.CounterVec
	LookupDuration  *prometheus.HistogramVec
	EventsPublished *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcall_cache_hits_total",
			Help: "Cache hits by key namespace",
		}, []string{"namespace"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcall_cache_misses_total",
			Help: "Cache misses by key namespace",
		}, []string{"namespace"}),
		SpamReports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcall_spam_reports_total",
			Help: "Spam report writes by outcome (accepted, duplicate, error)",
		}, []string{"outcome"}),
		ContactsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustcall_contacts_added_total",
			Help: "Contact entries created",
		}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcall_lookups_total",
			Help: "Directory lookups by operation",
		}, []string{"operation"}),
		LookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustcall_lookup_duration_seconds",
			Help:    "Directory lookup latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustcall_events_published_total",
			Help: "Domain events published by outcome",
		}, []string{"outcome"}),
	}
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit(namespace string) {
	m.CacheHits.WithLabelValues(namespace).Inc()
}

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss(namespace string) {
	m.CacheMisses.WithLabelValues(namespace).Inc()
}

// RecordSpamReport counts a spam report write by outcome.
func (m *Metrics) RecordSpamReport(outcome string) {
	m.SpamReports.WithLabelValues(outcome).Inc()
}

// IncrementContactsAdded increments the contacts counter by 1.
func (m *Metrics) IncrementContactsAdded() {
	m.ContactsAdded.Inc()
}

// ObserveLookup records one lookup and its latency in seconds.
func (m *Metrics) ObserveLookup(operation string, seconds float64) {
	m.Lookups.WithLabelValues(operation).Inc()
	m.LookupDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordEventPublished counts a publish attempt by outcome.
func (m *Metrics) RecordEventPublished(outcome string) {
	m.EventsPublished.WithLabelValues(outcome).Inc()
}
