package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions      *prometheus.CounterVec
	trainings        *prometheus.CounterVec
	skipped          *prometheus.CounterVec
	lastProbability  *prometheus.GaugeVec
	trainingDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_predictions_total",
				Help: "Total predictions produced, by method",
			},
			[]string{"method", "symbol"},
		),
		trainings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_trainings_total",
				Help: "Model training attempts by outcome",
			},
			[]string{"outcome"},
		),
		skipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_securities_skipped_total",
				Help: "Securities skipped during a batch, by reason",
			},
			[]string{"reason"},
		),
		lastProbability: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_probability",
				Help: "Last blended up-probability per symbol",
			},
			[]string{"symbol"},
		),
		trainingDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockpulse_training_duration_seconds",
				Help:    "Duration of model training in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordPrediction counts one produced prediction.
func (r *Recorder) RecordPrediction(method, symbol string) {
	r.predictions.WithLabelValues(method, symbol).Inc()
}

// RecordTraining counts one training attempt by outcome.
func (r *Recorder) RecordTraining(outcome string) {
	r.trainings.WithLabelValues(outcome).Inc()
}

// RecordTrainingDuration observes one training duration.
func (r *Recorder) RecordTrainingDuration(seconds float64) {
	r.trainingDuration.Observe(seconds)
}

// RecordSkipped counts one skipped security.
func (r *Recorder) RecordSkipped(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
}

// RecordProbability records the last blended probability for a symbol.
func (r *Recorder) RecordProbability(symbol string, p float64) {
	r.lastProbability.WithLabelValues(symbol).Set(p)
}
