package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for registry operations.
// Tracks ledger writes, correspondence transfers, batch sizes and stagnation.
type Metrics struct {
	MovementsRecorded   prometheus.Counter
	Acknowledgments     prometheus.Counter
	LetterTransfers     *prometheus.CounterVec
	BatchFilesProcessed *prometheus.CounterVec
	BatchFilesSkipped   *prometheus.CounterVec
	StagnantFiles       prometheus.Gauge
	PartitionDuration   prometheus.Histogram
}

// New creates a Metrics instance registered against reg.
// Pass prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MovementsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_movements_recorded_total",
			Help: "Total number of ledger movements appended to case files",
		}),
		Acknowledgments: factory.NewCounter(prometheus.CounterOpts{
			Name: "registry_movement_acknowledgments_total",
			Help: "Total number of movements acknowledged by the receiving custodian",
		}),
		LetterTransfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_letter_transfers_total",
			Help: "Correspondence moved between the unassigned pool and case files",
		}, []string{"direction"}),
		BatchFilesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_batch_files_processed_total",
			Help: "Files written by batch operations",
		}, []string{"operation"}),
		BatchFilesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_batch_files_skipped_total",
			Help: "File numbers skipped by batch operations because they do not exist",
		}, []string{"operation"}),
		StagnantFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "registry_stagnant_files",
			Help: "Stagnant files in the most recently computed oversight view",
		}),
		PartitionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_caseload_partition_duration_seconds",
			Help:    "Duration of caseload partition computations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// IncrementMovements records n appended ledger entries
func (m *Metrics) IncrementMovements(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MovementsRecorded.Add(float64(n))
}

// IncrementAcknowledgments records one acknowledged movement
func (m *Metrics) IncrementAcknowledgments() {
	if m == nil {
		return
	}
	m.Acknowledgments.Inc()
}

// IncrementLetterTransfer records a transfer in the given direction ("attach" or "detach")
func (m *Metrics) IncrementLetterTransfer(direction string) {
	if m == nil {
		return
	}
	m.LetterTransfers.WithLabelValues(direction).Inc()
}

// ObserveBatch records processed and skipped counts for a batch operation
func (m *Metrics) ObserveBatch(operation string, processed, skipped int) {
	if m == nil {
		return
	}
	m.BatchFilesProcessed.WithLabelValues(operation).Add(float64(processed))
	m.BatchFilesSkipped.WithLabelValues(operation).Add(float64(skipped))
}

// SetStagnant records the size of the latest stagnation subset
func (m *Metrics) SetStagnant(n int) {
	if m == nil {
		return
	}
	m.StagnantFiles.Set(float64(n))
}

// ObservePartition records the duration of a partition computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObservePartition(start time.Time) {
	if m == nil {
		return
	}
	m.PartitionDuration.Observe(time.Since(start).Seconds())
}
