// Package metrics provides Prometheus counters for pipeline runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "debatetxt"

// Metrics holds the counters of one process. Each instance owns its registry so
// runs can be written to a node-exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	FilesProcessed    prometheus.Counter
	SpeechesExtracted prometheus.Counter
	SpeechesSkipped   *prometheus.CounterVec
	MembersExtracted  prometheus.Counter

	DocumentsIndexed *prometheus.CounterVec
	QueryHits        *prometheus.CounterVec
	TranscriptsFetch *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_processed_total",
			Help:      "Transcript files parsed",
		}),
		SpeechesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speeches_extracted_total",
			Help:      "Speech records emitted by extraction",
		}),
		SpeechesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speeches_skipped_total",
			Help:      "Speech elements dropped by the validity filter",
		}, []string{"reason"}),
		MembersExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_extracted_total",
			Help:      "Member records emitted by extraction",
		}),
		DocumentsIndexed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_indexed_total",
			Help:      "Documents sent to the search index",
		}, []string{"status"}),
		QueryHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_hits_total",
			Help:      "Hits returned by search queries",
		}, []string{"mode"}),
		TranscriptsFetch: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_fetched_total",
			Help:      "Transcript downloads",
		}, []string{"status"}),
	}
}

// WriteTextfile writes the current values for the node-exporter textfile
// collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
