package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ariadne_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	IndexingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ariadne_indexing_seconds",
		Help:    "Time spent building a file's semantic index.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesAnalyzedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ariadne_files_analyzed_total",
		Help: "Total number of files analyzed, by outcome.",
	}, []string{"language", "outcome"})

	DefinitionsIndexed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ariadne_definitions_indexed_total",
		Help: "Definitions held by the most recent project analysis.",
	})

	ReferencesIndexed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ariadne_references_indexed_total",
		Help: "References held by the most recent project analysis.",
	})

	HierarchyTypes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ariadne_hierarchy_types_total",
		Help: "Named types registered in the type hierarchy graph.",
	})

	HierarchyCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ariadne_hierarchy_cycles_total",
		Help: "Inheritance cycles detected while traversing the type hierarchy.",
	})

	ResolutionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ariadne_reference_resolutions_total",
		Help: "Reference resolution attempts, by outcome.",
	}, []string{"outcome"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ariadne_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ariadne_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	StoreWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ariadne_store_write_seconds",
		Help:    "Latency for persisting one file's symbols.",
		Buckets: prometheus.DefBuckets,
	})

	StoreWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ariadne_store_write_errors_total",
		Help: "Total number of symbol persistence errors.",
	})
)
