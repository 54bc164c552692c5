package usecase

import (
	"sort"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/features"
	"StockPulse/pkg/logger"
)

// actionThresholds are probability cut points symmetric around 0.5; tighter
// for conservative profiles, looser for aggressive ones.
type actionThresholds struct {
	strongBuy  float64
	buy        float64
	sell       float64
	strongSell float64
}

var thresholdsByTolerance = map[models.RiskTolerance]actionThresholds{
	models.ToleranceConservative: {strongBuy: 0.75, buy: 0.62, sell: 0.38, strongSell: 0.25},
	models.ToleranceModerate:     {strongBuy: 0.70, buy: 0.58, sell: 0.42, strongSell: 0.30},
	models.ToleranceAggressive:   {strongBuy: 0.65, buy: 0.55, sell: 0.45, strongSell: 0.35},
}

var limitByTolerance = map[models.RiskTolerance]int{
	models.ToleranceConservative: 5,
	models.ToleranceModerate:     8,
	models.ToleranceAggressive:   12,
}

const (
	// Strong actions additionally require this much confidence.
	strongActionConfidenceGate = 0.5

	// Conservative profiles drop securities above this annualized volatility.
	maxConservativeVolatility = 0.5

	// Volume ratio above this counts as a confirming signal for any move.
	volumeConfirmRatio = 1.2

	confirmingSignalBonus = 0.1
)

// Candidate is one security's analyzed state entering the reranking stage.
type Candidate struct {
	Symbol      string
	Sector      string
	Prediction  models.Prediction
	Features    models.FeatureVector
	Sentiment   float64
	Explanation string
	Signals     []models.Signal
	Price       float64
	Held        bool
}

// Recommender reranks a batch of per-security predictions under a risk
// profile: score confidence, map probability to an action, filter, sort by
// action priority then confidence, and cap the result count.
type Recommender struct {
	log *logger.Logger
}

func NewRecommender(log *logger.Logger) *Recommender {
	return &Recommender{log: log}
}

// Rank produces the final ordered recommendation list.
func (r *Recommender) Rank(candidates []Candidate, profile models.RiskProfile) []models.Recommendation {
	now := time.Now()
	recs := make([]models.Recommendation, 0, len(candidates))

	for _, c := range candidates {
		v := features.Sanitize(c.Features)
		confidence := confidenceScore(c.Prediction.Probability, v)

		if profile.Tolerance == models.ToleranceConservative && v.Volatility > maxConservativeVolatility {
			r.log.Debug("dropping high-volatility security for conservative profile",
				logger.String("symbol", c.Symbol),
				logger.Any("volatility", v.Volatility))
			continue
		}

		action := mapToAction(c.Prediction.Probability, confidence, profile.Tolerance)

		// Short-horizon traders want actionable signals only; long-horizon
		// investors get no short-selling suggestions for unheld securities.
		if profile.Horizon == models.HorizonShort && action == models.ActionHold {
			continue
		}
		if profile.Horizon == models.HorizonLong && !c.Held &&
			(action == models.ActionSell || action == models.ActionStrongSell) {
			continue
		}

		recs = append(recs, models.Recommendation{
			Symbol:              c.Symbol,
			Sector:              c.Sector,
			Action:              action,
			ConfidenceScore:     confidence,
			Probability:         c.Prediction.Probability,
			RawModelProbability: c.Prediction.RawModelProbability,
			SentimentScore:      c.Sentiment,
			Price:               c.Price,
			Volatility:          v.Volatility,
			Explanation:         c.Explanation,
			Signals:             c.Signals,
			GeneratedAt:         now,
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		pi, pj := recs[i].Action.Priority(), recs[j].Action.Priority()
		if pi != pj {
			return pi < pj
		}
		if recs[i].ConfidenceScore != recs[j].ConfidenceScore {
			return recs[i].ConfidenceScore > recs[j].ConfidenceScore
		}
		return recs[i].Symbol < recs[j].Symbol
	})

	limit, ok := limitByTolerance[profile.Tolerance]
	if !ok {
		limit = limitByTolerance[models.ToleranceModerate]
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// confidenceScore combines prediction strength with up to three confirming
// signals: RSI agreeing with the direction, MACD agreeing, and elevated
// volume confirming any move. Neutral sentiment never counts as a signal.
func confidenceScore(prob float64, v models.FeatureVector) float64 {
	strength := 2 * abs(prob-0.5)

	signalCount := 0
	if (prob > 0.5 && v.RSI < 40) || (prob < 0.5 && v.RSI > 60) {
		signalCount++
	}
	if (prob > 0.5 && v.MACD > v.MACDSignal) || (prob < 0.5 && v.MACD < v.MACDSignal) {
		signalCount++
	}
	if v.VolumeRatio > volumeConfirmRatio {
		signalCount++
	}

	return clamp01(strength + confirmingSignalBonus*float64(signalCount))
}

// mapToAction applies the tolerance threshold table. Strong actions fall
// through to their weak counterpart when the confidence gate is not met.
func mapToAction(prob, confidence float64, tolerance models.RiskTolerance) models.Action {
	t, ok := thresholdsByTolerance[tolerance]
	if !ok {
		t = thresholdsByTolerance[models.ToleranceModerate]
	}

	switch {
	case prob >= t.strongBuy && confidence >= strongActionConfidenceGate:
		return models.ActionStrongBuy
	case prob >= t.buy:
		return models.ActionBuy
	case prob <= t.strongSell && confidence >= strongActionConfidenceGate:
		return models.ActionStrongSell
	case prob <= t.sell:
		return models.ActionSell
	default:
		return models.ActionHold
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
