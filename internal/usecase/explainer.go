package usecase

import (
	"fmt"
	"math"
	"strings"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/ml"
)

// Signal cut points. These are serving constants, not tunables; changing
// them changes user-facing advice text thresholds.
const (
	headlineBullishProb = 0.65
	headlineBearishProb = 0.35

	accuracyHigh     = 0.60
	accuracyModerate = 0.54

	rsiHeavyOverbought = 75
	rsiOverbought      = 65
	rsiHeavyOversold   = 25
	rsiOversold        = 35
	rsiNeutralLow      = 45
	rsiNeutralHigh     = 55

	bollingerExtended = 0.95
	bollingerBounce   = 0.05

	trendThreshold    = 0.05
	momentumThreshold = 0.05

	volatilityVeryHigh = 0.6
	volatilityElevated = 0.4
	volatilityLow      = 0.15

	volumeUnusual = 2.0
	volumeElevated = 1.5

	topDrivers = 3
)

// displayNames maps schema column names to user-facing driver labels.
var displayNames = map[string]string{
	"sma5":           "5-day average",
	"sma10":          "10-day average",
	"sma20":          "20-day average",
	"sma50":          "50-day average",
	"sma5_slope":     "Short-term trend",
	"sma20_slope":    "Medium-term trend",
	"rsi":            "RSI",
	"macd":           "MACD",
	"macd_signal":    "MACD Signal",
	"macd_hist":      "MACD",
	"bb_pct":         "Bollinger position",
	"volatility":     "Volatility",
	"vol_ratio":      "Volume",
	"mom_1d":         "1-day return",
	"mom_5d":         "5-day momentum",
	"mom_10d":        "10-day momentum",
	"mom_20d":        "20-day momentum",
	"price_vs_sma20": "Trend vs 20MA",
	"price_vs_sma50": "Trend vs 50MA",
	"atr_pct":        "ATR",
	"close_to_high":  "Close vs High",
	"close_to_low":   "Close vs Low",
}

// BuildSignals derives the ordered list of rationale lines for a prediction.
// valAccuracy and importances are nil on the heuristic path; undefined
// feature values simply suppress their line. Pure and stateless.
func BuildSignals(pred models.Prediction, valAccuracy *float64, v models.FeatureVector, importances []ml.Importance) []models.Signal {
	signals := make([]models.Signal, 0, 10)
	prob := pred.Probability

	switch {
	case prob >= headlineBullishProb:
		signals = append(signals, bullish("Model predicts %.0f%% probability of 5-day upside", prob*100))
	case prob <= headlineBearishProb:
		signals = append(signals, bearish("Model predicts %.0f%% probability of 5-day downside", (1-prob)*100))
	default:
		signals = append(signals, neutral("Model is neutral, %.0f%% up probability", prob*100))
	}

	if valAccuracy != nil {
		acc := *valAccuracy
		switch {
		case acc >= accuracyHigh:
			signals = append(signals, bullish("High model confidence: %.0f%% validation accuracy", acc*100))
		case acc >= accuracyModerate:
			signals = append(signals, neutral("Moderate model confidence: %.0f%% accuracy", acc*100))
		default:
			signals = append(signals, bearish("Low model confidence: %.0f%%, take with caution", acc*100))
		}
	}

	if defined(v.RSI) {
		switch {
		case v.RSI > rsiHeavyOverbought:
			signals = append(signals, bearish("RSI at %.0f, heavily overbought, pullback likely", v.RSI))
		case v.RSI > rsiOverbought:
			signals = append(signals, bearish("RSI at %.0f, overbought territory", v.RSI))
		case v.RSI < rsiHeavyOversold:
			signals = append(signals, bullish("RSI at %.0f, heavily oversold, bounce likely", v.RSI))
		case v.RSI < rsiOversold:
			signals = append(signals, bullish("RSI at %.0f, oversold, watch for reversal", v.RSI))
		case v.RSI >= rsiNeutralLow && v.RSI <= rsiNeutralHigh:
			signals = append(signals, neutral("RSI at %.0f, neutral zone", v.RSI))
		}
	}

	if defined(v.MACDHist) && defined(v.MACD) && defined(v.MACDSignal) {
		if v.MACDHist > 0 && v.MACD > v.MACDSignal {
			signals = append(signals, models.Signal{Text: "MACD bullish crossover, positive momentum building", Type: models.SignalBullish})
		} else if v.MACDHist < 0 && v.MACD < v.MACDSignal {
			signals = append(signals, models.Signal{Text: "MACD bearish crossover, momentum fading", Type: models.SignalBearish})
		}
	}

	if defined(v.BollingerPct) {
		if v.BollingerPct > bollingerExtended {
			signals = append(signals, models.Signal{Text: "Price touching upper Bollinger Band, extended", Type: models.SignalBearish})
		} else if v.BollingerPct < bollingerBounce {
			signals = append(signals, models.Signal{Text: "Price at lower Bollinger Band, potential bounce zone", Type: models.SignalBullish})
		}
	}

	if defined(v.PriceVsSMA20) && defined(v.PriceVsSMA50) {
		if v.PriceVsSMA20 > trendThreshold && v.PriceVsSMA50 > trendThreshold {
			signals = append(signals, models.Signal{Text: "Strong uptrend, above both 20 and 50-day moving averages", Type: models.SignalBullish})
		} else if v.PriceVsSMA20 < -trendThreshold && v.PriceVsSMA50 < -trendThreshold {
			signals = append(signals, models.Signal{Text: "Downtrend, below both 20 and 50-day moving averages", Type: models.SignalBearish})
		}
	}

	if defined(v.Momentum5) {
		if v.Momentum5 > momentumThreshold {
			signals = append(signals, bullish("Strong 5-day momentum: +%.1f%%", v.Momentum5*100))
		} else if v.Momentum5 < -momentumThreshold {
			signals = append(signals, bearish("Weak 5-day momentum: %.1f%%", v.Momentum5*100))
		}
	}

	if defined(v.Volatility) {
		switch {
		case v.Volatility > volatilityVeryHigh:
			signals = append(signals, bearish("Very high volatility (%.0f%% annualized), risky", v.Volatility*100))
		case v.Volatility > volatilityElevated:
			signals = append(signals, neutral("Elevated volatility (%.0f%% annualized)", v.Volatility*100))
		case v.Volatility < volatilityLow:
			signals = append(signals, bullish("Low volatility (%.0f%%), stable", v.Volatility*100))
		}
	}

	if defined(v.VolumeRatio) {
		if v.VolumeRatio > volumeUnusual {
			signals = append(signals, neutral("Unusual volume (%.1fx average), big move possible", v.VolumeRatio))
		} else if v.VolumeRatio > volumeElevated {
			signals = append(signals, neutral("Above-average volume (%.1fx), confirms trend", v.VolumeRatio))
		}
	}

	if len(importances) > 0 {
		top := importances
		if len(top) > topDrivers {
			top = top[:topDrivers]
		}
		names := make([]string, 0, len(top))
		for _, imp := range top {
			name, ok := displayNames[imp.Name]
			if !ok {
				name = imp.Name
			}
			names = append(names, name)
		}
		signals = append(signals, models.Signal{
			Text: "Key drivers: " + strings.Join(names, ", "),
			Type: models.SignalNeutral,
		})
	}

	return signals
}

func defined(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func bullish(format string, args ...any) models.Signal {
	return models.Signal{Text: fmt.Sprintf(format, args...), Type: models.SignalBullish}
}

func bearish(format string, args ...any) models.Signal {
	return models.Signal{Text: fmt.Sprintf(format, args...), Type: models.SignalBearish}
}

func neutral(format string, args ...any) models.Signal {
	return models.Signal{Text: fmt.Sprintf(format, args...), Type: models.SignalNeutral}
}
