package models

import (
	"strings"
	"time"
)

// Method tags how a prediction was produced.
type Method string

const (
	MethodModel     Method = "model"
	MethodHeuristic Method = "heuristic"
)

// Prediction is the directional estimate for one security.
type Prediction struct {
	Symbol              string
	Probability         float64  // blended probability of upward movement, clamped [0,1]
	RawModelProbability *float64 // classifier output before blending; nil on the heuristic path
	SentimentFactor     float64  // (sentiment+1)/2 mapped to [0,1]; 0.5 when sentiment is absent
	Direction           string   // "up" if Probability > 0.5 else "down"
	Method              Method
}

// SignalType classifies a rationale line.
type SignalType string

const (
	SignalBullish SignalType = "bullish"
	SignalBearish SignalType = "bearish"
	SignalNeutral SignalType = "neutral"
)

// Signal is one human-readable rationale line backing a prediction.
type Signal struct {
	Text string
	Type SignalType
}

// Action is the final recommendation for a security.
type Action string

const (
	ActionStrongBuy  Action = "strong_buy"
	ActionBuy        Action = "buy"
	ActionHold       Action = "hold"
	ActionSell       Action = "sell"
	ActionStrongSell Action = "strong_sell"
)

// Priority orders actions for display: strong signals in both directions rank
// above weak ones, hold ranks last.
func (a Action) Priority() int {
	switch a {
	case ActionStrongBuy:
		return 0
	case ActionStrongSell:
		return 1
	case ActionBuy:
		return 2
	case ActionSell:
		return 3
	case ActionHold:
		return 4
	}
	return 5
}

// RiskTolerance is the user's declared appetite for risk.
type RiskTolerance string

const (
	ToleranceConservative RiskTolerance = "conservative"
	ToleranceModerate     RiskTolerance = "moderate"
	ToleranceAggressive   RiskTolerance = "aggressive"
)

// ParseRiskTolerance maps free text onto a tolerance, defaulting to moderate
// for anything unrecognized so downstream tables never see untyped input.
func ParseRiskTolerance(s string) RiskTolerance {
	switch RiskTolerance(strings.ToLower(strings.TrimSpace(s))) {
	case ToleranceConservative:
		return ToleranceConservative
	case ToleranceAggressive:
		return ToleranceAggressive
	default:
		return ToleranceModerate
	}
}

// Horizon is the user's investment horizon.
type Horizon string

const (
	HorizonShort  Horizon = "short"
	HorizonMedium Horizon = "medium"
	HorizonLong   Horizon = "long"
)

// ParseHorizon maps free text onto a horizon, defaulting to medium.
func ParseHorizon(s string) Horizon {
	switch Horizon(strings.ToLower(strings.TrimSpace(s))) {
	case HorizonShort:
		return HorizonShort
	case HorizonLong:
		return HorizonLong
	default:
		return HorizonMedium
	}
}

// RiskProfile describes how recommendations should be filtered and ranked.
type RiskProfile struct {
	Tolerance        RiskTolerance
	Horizon          Horizon
	MaxLossTolerance float64
	PreferredSectors []string
}

// Sentiment is an upstream news-sentiment score for a security.
type Sentiment struct {
	Symbol      string
	Score       float64 // in [-1, 1]
	Explanation string
}

// Recommendation is the final risk-adjusted advice record for one security.
type Recommendation struct {
	Symbol              string
	Sector              string
	Action              Action
	ConfidenceScore     float64 // clamped [0,1]
	Probability         float64
	RawModelProbability *float64
	SentimentScore      float64
	Price               float64
	Volatility          float64
	Explanation         string
	Signals             []Signal
	GeneratedAt         time.Time
}
