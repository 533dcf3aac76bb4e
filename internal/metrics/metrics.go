// Package metrics provides Prometheus counters for search activity.
// Each Recorder owns its registry, so separate sessions and tests never
// share state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the search counters. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	searches       prometheus.Counter   // ranking passes run
	searchHits     prometheus.Counter   // passes with >= 1 result
	searchMisses   prometheus.Counter   // passes with zero results
	searchResults  prometheus.Histogram // results returned per pass
	recentsCommits prometheus.Counter   // terms committed to the recency store
	storageErrors  prometheus.Counter   // recency store persistence failures
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefind_searches_total",
			Help: "Number of ranking passes run.",
		}),
		searchHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefind_search_hits_total",
			Help: "Ranking passes that returned at least one result.",
		}),
		searchMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefind_search_misses_total",
			Help: "Ranking passes that returned no results.",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefind_search_results",
			Help:    "Results returned per ranking pass.",
			Buckets: []float64{0, 1, 2, 4, 8},
		}),
		recentsCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefind_recents_commits_total",
			Help: "Search terms committed to the recency store.",
		}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefind_recents_storage_errors_total",
			Help: "Recency store persistence failures.",
		}),
	}
	r.registry.MustRegister(
		r.searches,
		r.searchHits,
		r.searchMisses,
		r.searchResults,
		r.recentsCommits,
		r.storageErrors,
	)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveSearch records one ranking pass that produced n results.
func (r *Recorder) ObserveSearch(n int) {
	if r == nil {
		return
	}
	r.searches.Inc()
	if n > 0 {
		r.searchHits.Inc()
	} else {
		r.searchMisses.Inc()
	}
	r.searchResults.Observe(float64(n))
}

// RecentCommitted records a committed search term.
func (r *Recorder) RecentCommitted() {
	if r == nil {
		return
	}
	r.recentsCommits.Inc()
}

// StorageError records a failed persistence attempt.
func (r *Recorder) StorageError() {
	if r == nil {
		return
	}
	r.storageErrors.Inc()
}

// Snapshot returns the current counter values keyed by metric name.
// Histograms report their sample count.
func (r *Recorder) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	if r == nil {
		return out
	}
	families, err := r.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

// HitRate returns the fraction of ranking passes with results, in [0, 1].
func (r *Recorder) HitRate() float64 {
	snap := r.Snapshot()
	total := snap["storefind_searches_total"]
	if total == 0 {
		return 0
	}
	return snap["storefind_search_hits_total"] / total
}
