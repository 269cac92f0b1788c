// Package metrics provides Prometheus metrics for the authentication
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds every Prometheus metric the service reports.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Authentication metrics
	authAttempts    *prometheus.CounterVec
	authBestScore   prometheus.Histogram
	authLatency     prometheus.Histogram
	candidatesSeen  prometheus.Histogram
	accountLockouts prometheus.Counter

	// Enrollment metrics
	enrollAttempts   *prometheus.CounterVec
	samplesAccepted  prometheus.Counter
	samplesRejected  *prometheus.CounterVec
	duplicatesCaught prometheus.Counter

	// Operational metrics
	enrolledFaces prometheus.Gauge
	indexEntries  prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry()

func init() {
	globalManager = NewManager(customRegistry)
}

// NewManager creates a metrics manager registered on the given registry.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{
		namespace: "facegate",
		registry:  registry,
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.authAttempts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "auth_attempts_total",
			Help:      "Total number of authentication attempts by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	m.authBestScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "auth_best_score",
		Help:      "Histogram of the best composite similarity seen per face login attempt",
		Buckets:   prometheus.LinearBuckets(0.5, 0.05, 11),
	})

	m.authLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "auth_latency_milliseconds",
		Help:      "Face authentication latency in milliseconds, candidate load included",
		Buckets:   prometheus.DefBuckets,
	})

	m.candidatesSeen = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "auth_candidates_compared",
		Help:      "Number of candidate faces compared per face login attempt",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	m.accountLockouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of accounts locked after repeated failed logins",
	})

	m.enrollAttempts = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "enroll_attempts_total",
			Help:      "Total number of enrollment attempts by outcome",
		},
		[]string{"outcome"},
	)

	m.samplesAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "enroll_samples_accepted_total",
		Help:      "Total number of samples accepted into enrollment sets",
	})

	m.samplesRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "enroll_samples_rejected_total",
			Help:      "Total number of samples rejected during enrollment by reason",
		},
		[]string{"reason"},
	)

	m.duplicatesCaught = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "enroll_duplicates_total",
		Help:      "Total number of enrollments rejected as duplicates of another account",
	})

	m.enrolledFaces = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "enrolled_faces",
		Help:      "Current number of enrolled face samples across all users",
	})

	m.indexEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "duplicate_index_entries",
		Help:      "Current number of entries in the duplicate-detection index",
	})
}

// Authentication outcomes and methods used as label values.
const (
	MethodPassword = "password"
	MethodFace     = "face"

	OutcomeMatched    = "matched"
	OutcomeRejected   = "rejected"
	OutcomeLocked     = "locked"
	OutcomeError      = "error"
	OutcomeNoFaces    = "no_faces"
	OutcomeBadProbe   = "bad_probe"
	OutcomeAccepted   = "accepted"
	OutcomeDuplicate  = "duplicate"
	OutcomeTooFew     = "too_few_samples"
	OutcomePersistErr = "persist_error"
)

// RecordAuthAttempt counts one authentication attempt.
func RecordAuthAttempt(method, outcome string) {
	globalManager.authAttempts.WithLabelValues(method, outcome).Inc()
}

// RecordAuthBestScore records the best composite similarity of a face
// login attempt.
func RecordAuthBestScore(score float64) {
	globalManager.authBestScore.Observe(score)
}

// RecordAuthLatency records face authentication latency in milliseconds.
func RecordAuthLatency(latencyMs float64) {
	globalManager.authLatency.Observe(latencyMs)
}

// RecordCandidatesCompared records how many candidates one face login
// scanned.
func RecordCandidatesCompared(count int) {
	globalManager.candidatesSeen.Observe(float64(count))
}

// RecordAccountLockout counts one account lockout.
func RecordAccountLockout() {
	globalManager.accountLockouts.Inc()
}

// RecordEnrollAttempt counts one enrollment attempt.
func RecordEnrollAttempt(outcome string) {
	globalManager.enrollAttempts.WithLabelValues(outcome).Inc()
}

// RecordSamplesAccepted counts samples accepted into an enrollment set.
func RecordSamplesAccepted(count int) {
	globalManager.samplesAccepted.Add(float64(count))
}

// RecordSampleRejected counts one rejected sample with its reason.
func RecordSampleRejected(reason string) {
	globalManager.samplesRejected.WithLabelValues(reason).Inc()
}

// RecordDuplicateCaught counts one enrollment blocked by the duplicate
// guard.
func RecordDuplicateCaught() {
	globalManager.duplicatesCaught.Inc()
}

// UpdateEnrolledFaces sets the current enrolled face count.
func UpdateEnrolledFaces(count int) {
	globalManager.enrolledFaces.Set(float64(count))
}

// UpdateIndexEntries sets the current duplicate index size.
func UpdateIndexEntries(count int) {
	globalManager.indexEntries.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
