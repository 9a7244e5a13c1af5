package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersTrackOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheHit("score")
	m.CacheHit("score")
	m.CacheMiss("name")
	m.RecordSpamReport("accepted")
	m.RecordSpamReport("duplicate")
	m.IncrementContactsAdded()
	m.ObserveLookup("search_by_name", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits.WithLabelValues("score")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses.WithLabelValues("name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpamReports.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContactsAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Lookups.WithLabelValues("search_by_name")))
}

func TestNewPerRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
