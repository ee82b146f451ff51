// Package metrics exposes Prometheus collectors for the quiz service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry           *prometheus.Registry
	questionSets       *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	generationDuration prometheus.Histogram
	submissions        *prometheus.CounterVec
	pointsAwarded      prometheus.Counter
	authAttempts       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		questionSets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_question_sets_total",
			Help: "Question sets served, by source",
		}, []string{"source"}),
		generationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_generation_failures_total",
			Help: "Generation attempts that fell back to the static bank, by reason",
		}, []string{"reason"}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_generation_duration_seconds",
			Help:    "Time spent waiting on the generation backend",
			Buckets: prometheus.DefBuckets,
		}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Scored quiz submissions, by performance band",
		}, []string{"band"}),
		pointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "quiz_points_awarded_total",
			Help: "Points awarded across all submissions",
		}),
		authAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_auth_attempts_total",
			Help: "Register and login attempts",
		}, []string{"operation", "status"}),
	}
}

func (m *Metrics) QuestionSetServed(source string) {
	if m == nil {
		return
	}
	m.questionSets.WithLabelValues(source).Inc()
}

func (m *Metrics) GenerationFailed(reason string) {
	if m == nil {
		return
	}
	m.generationFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveGeneration(d time.Duration) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(d.Seconds())
}

func (m *Metrics) SubmissionScored(band string, points int) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(band).Inc()
	m.pointsAwarded.Add(float64(points))
}

func (m *Metrics) AuthAttempt(operation string, ok bool) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failure"
	}
	m.authAttempts.WithLabelValues(operation, status).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
