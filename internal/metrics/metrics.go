package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnswersTotal counts orchestrated questions by outcome ("ok" or an
	// error kind such as "translation").
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kidzcare_answers_total",
			Help: "Total number of questions answered, by outcome",
		},
		[]string{"outcome"},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kidzcare_pipeline_step_duration_seconds",
			Help:    "Duration of each pipeline step in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"step"},
	)

	SpeechTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kidzcare_speech_synthesis_total",
			Help: "Total number of speech synthesis attempts, by outcome",
		},
		[]string{"outcome"},
	)
)
