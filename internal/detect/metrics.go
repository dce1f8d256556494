package detect

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricDetectionsTotal    = "room_detections_total"
	MetricDetectionDuration  = "room_detection_duration_seconds"
	MetricStageDuration      = "room_detection_stage_duration_seconds"
	MetricRoomsPerDetection  = "rooms_per_detection"
	MetricRoomRecordsDropped = "room_records_dropped_total"
)

// Pipeline stage constants for labeling.
const (
	StagePreprocess = "preprocess"
	StageInvoke     = "invoke"
	StageParse      = "parse"
	StageValidate   = "validate"
)

// Status constants for detection completion.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus metrics for the detection pipeline.
// All operations are thread-safe.
type Metrics struct {
	detectionsTotal   *prometheus.CounterVec
	detectionDuration *prometheus.HistogramVec
	stageDuration     *prometheus.HistogramVec
	roomsPerDetection prometheus.Histogram
	recordsDropped    prometheus.Counter
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		detectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricDetectionsTotal,
				Help: "Total number of detection runs by status and complexity",
			},
			[]string{"status", "complexity"},
		),
		detectionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricDetectionDuration,
				Help:    "Histogram of end-to-end detection duration in seconds by status",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
			[]string{"status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricStageDuration,
				Help:    "Histogram of per-stage duration in seconds by pipeline stage",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"stage"},
		),
		roomsPerDetection: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRoomsPerDetection,
				Help:    "Histogram of valid room counts per successful detection",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 12, 20, 40},
			},
		),
		recordsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRoomRecordsDropped,
				Help: "Total number of room records dropped during validation",
			},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncDetections increments the detection counter.
func (m *Metrics) IncDetections(status, complexity string) {
	m.detectionsTotal.WithLabelValues(status, complexity).Inc()
}

// ObserveDuration records an end-to-end detection duration sample.
func (m *Metrics) ObserveDuration(status string, seconds float64) {
	m.detectionDuration.WithLabelValues(status).Observe(seconds)
}

// ObserveStage records a per-stage duration sample.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// ObserveRoomCount records the number of valid rooms in a detection.
func (m *Metrics) ObserveRoomCount(count int) {
	m.roomsPerDetection.Observe(float64(count))
}

// AddRecordsDropped adds to the dropped-record counter.
func (m *Metrics) AddRecordsDropped(count int) {
	m.recordsDropped.Add(float64(count))
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.detectionsTotal,
		m.detectionDuration,
		m.stageDuration,
		m.roomsPerDetection,
		m.recordsDropped,
	}
}
