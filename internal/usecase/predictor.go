package usecase

import (
	"context"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	"StockPulse/internal/services/ml"
	"StockPulse/pkg/logger"
)

// Blending weights between the classifier (or heuristic) probability and the
// normalized sentiment factor.
const (
	modelWeight     = 0.7
	sentimentWeight = 0.3

	heuristicFloor = 0.05
	heuristicCeil  = 0.95
)

// Predictor turns a security's latest feature vector into a probability of
// upward movement, using the per-security model when one can be trained and
// a rules-based heuristic otherwise. The outcome is tagged with its method;
// no failure on this path ever propagates to the caller.
type Predictor struct {
	models  *ml.Store
	metrics repository.Metrics
	log     *logger.Logger
}

func NewPredictor(models *ml.Store, metrics repository.Metrics, log *logger.Logger) *Predictor {
	return &Predictor{models: models, metrics: metrics, log: log}
}

// Predict resolves the model for symbol (training on first use from bars)
// and returns the blended prediction. sentiment is the upstream score in
// [-1,1]; nil means absent and maps to a neutral factor of 0.5.
func (p *Predictor) Predict(ctx context.Context, symbol string, bars []models.Bar, latest models.FeatureVector, sentiment *float64) models.Prediction {
	factor := 0.5
	if sentiment != nil {
		factor = clamp01((*sentiment + 1) / 2)
	}

	if m, ok := p.models.GetOrTrain(ctx, symbol, bars); ok {
		if pred, ok := p.modelPredict(symbol, m, latest, factor); ok {
			p.metrics.RecordPrediction(string(models.MethodModel), symbol)
			p.metrics.RecordProbability(symbol, pred.Probability)
			return pred
		}
	}

	pred := p.heuristic(symbol, latest, factor)
	p.metrics.RecordPrediction(string(models.MethodHeuristic), symbol)
	p.metrics.RecordProbability(symbol, pred.Probability)
	return pred
}

// modelPredict runs classifier inference. Any error or panic during
// inference degrades to the heuristic instead of aborting the batch.
func (p *Predictor) modelPredict(symbol string, m *ml.TrainedModel, latest models.FeatureVector, factor float64) (pred models.Prediction, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("model inference panicked, falling back to heuristic",
				logger.String("symbol", symbol),
				logger.Any("panic", r))
			ok = false
		}
	}()

	vals := features.VectorValues(features.Sanitize(latest))
	raw, err := m.Classifier.ProbabilityUp(vals)
	if err != nil {
		p.log.Warn("model inference failed, falling back to heuristic",
			logger.String("symbol", symbol),
			logger.Error(err))
		return models.Prediction{}, false
	}

	blended := clamp01(modelWeight*raw + sentimentWeight*factor)
	return models.Prediction{
		Symbol:              symbol,
		Probability:         blended,
		RawModelProbability: &raw,
		SentimentFactor:     factor,
		Direction:           direction(blended),
		Method:              models.MethodModel,
	}, true
}

// heuristic is the rules-based fallback when no model is available: start
// neutral, nudge on oversold/overbought RSI, MACD position, and 5-day
// momentum, then blend sentiment with the same weights as the model path.
func (p *Predictor) heuristic(symbol string, latest models.FeatureVector, factor float64) models.Prediction {
	v := features.Sanitize(latest)
	score := 0.5

	if v.RSI < 30 {
		score += 0.15 // oversold, potential upside
	} else if v.RSI > 70 {
		score -= 0.15
	}

	if v.MACD > v.MACDSignal {
		score += 0.10
	} else {
		score -= 0.10
	}

	if v.Momentum5 > 0.02 {
		score += 0.05
	} else if v.Momentum5 < -0.02 {
		score -= 0.05
	}

	score = modelWeight*score + sentimentWeight*factor
	score = clamp(score, heuristicFloor, heuristicCeil)

	return models.Prediction{
		Symbol:          symbol,
		Probability:     score,
		SentimentFactor: factor,
		Direction:       direction(score),
		Method:          models.MethodHeuristic,
	}
}

func direction(p float64) string {
	if p > 0.5 {
		return "up"
	}
	return "down"
}

func clamp01(x float64) float64 { return clamp(x, 0, 1) }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
