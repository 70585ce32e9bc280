// Package metrics exposes Prometheus collectors for sessions and submissions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partnerlab"

type Recorder struct {
	registry *prometheus.Registry

	sessionsStarted prometheus.Counter
	sessionsClosed  *prometheus.CounterVec
	fieldWrites     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Form sessions created.",
		}),
		sessionsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Form sessions removed, by reason.",
		}, []string{"reason"}),
		fieldWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_writes_total",
			Help:      "Validated field values written to a session.",
		}, []string{"field"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Lab request submissions, by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(
		r.sessionsStarted,
		r.sessionsClosed,
		r.fieldWrites,
		r.submissions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) SessionStarted() {
	r.sessionsStarted.Inc()
}

func (r *Recorder) SessionClosed(reason string) {
	r.sessionsClosed.WithLabelValues(reason).Inc()
}

func (r *Recorder) FieldWritten(field string) {
	r.fieldWrites.WithLabelValues(field).Inc()
}

// Submission outcomes: "stored", "invalid", "failed".
func (r *Recorder) Submission(outcome string) {
	r.submissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
