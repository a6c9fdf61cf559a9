package observability

import (
	"context"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	registry *prometheus.Registry

	questionVisits    *prometheus.CounterVec
	answers           *prometheus.CounterVec
	runsFinished      prometheus.Counter
	resolutionsByTier *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		questionVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiztree_question_visits_total",
				Help: "Total number of times a question was presented",
			},
			[]string{"question_id"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiztree_answers_total",
				Help: "Total number of answers recorded",
			},
			[]string{"question_id", "option"},
		),
		runsFinished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "quiztree_runs_finished_total",
				Help: "Total number of questionnaire runs that reached an end",
			},
		),
		resolutionsByTier: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiztree_resolutions_total",
				Help: "Total number of resolved results by match tier",
			},
			[]string{"tier"},
		),
	}
	m.registry.MustRegister(m.questionVisits, m.answers, m.runsFinished, m.resolutionsByTier)
	return m
}

// Registry returns the registry to expose, e.g. via promhttp.HandlerFor.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(_ context.Context, e *domain.QuestionEvent) {
			m.questionVisits.WithLabelValues(e.QuestionID).Inc()
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			m.answers.WithLabelValues(e.QuestionID, e.OptionKey).Inc()
		},
		OnFinish: func(_ context.Context, _ *domain.AnswerEvent) {
			m.runsFinished.Inc()
		},
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			m.resolutionsByTier.WithLabelValues(string(e.Tier)).Inc()
		},
	}
}
