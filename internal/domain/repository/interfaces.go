package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// BarProvider supplies ordered daily bars per security. Implementations may
// return empty or short series; callers treat that as insufficient data, not
// an error.
type BarProvider interface {
	History(ctx context.Context, symbol string) ([]models.Bar, error)
	Symbols() []string
}

// SentimentProvider supplies an upstream sentiment score in [-1,1] per
// security. The second return is false when no score is known; callers then
// fall back to a neutral factor without failing the prediction.
type SentimentProvider interface {
	Sentiment(ctx context.Context, symbol string) (models.Sentiment, bool, error)
}

// PredictionStore accepts finished recommendation records keyed by
// (symbol, date) for later retrieval. The pipeline never reads its own
// output back mid-run.
type PredictionStore interface {
	Save(ctx context.Context, rec models.Recommendation) error
	Get(ctx context.Context, symbol string, date time.Time) (models.Recommendation, bool, error)
}

// Metrics records pipeline observability events.
type Metrics interface {
	RecordPrediction(method, symbol string)
	RecordTraining(outcome string)
	RecordTrainingDuration(seconds float64)
	RecordSkipped(reason string)
	RecordProbability(symbol string, p float64)
}
