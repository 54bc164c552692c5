package features

import "StockPulse/internal/domain/models"

// Column binds a model input position to a named accessor on FeatureVector.
type Column struct {
	Name  string
	Value func(v models.FeatureVector) float64
}

// Columns is the single source of truth for model input ordering. Training
// matrices and serving vectors are both derived from this table, so the two
// representations cannot drift apart.
var Columns = []Column{
	{"sma5", func(v models.FeatureVector) float64 { return v.SMA5 }},
	{"sma10", func(v models.FeatureVector) float64 { return v.SMA10 }},
	{"sma20", func(v models.FeatureVector) float64 { return v.SMA20 }},
	{"sma50", func(v models.FeatureVector) float64 { return v.SMA50 }},
	{"sma5_slope", func(v models.FeatureVector) float64 { return v.SMA5Slope }},
	{"sma20_slope", func(v models.FeatureVector) float64 { return v.SMA20Slope }},
	{"rsi", func(v models.FeatureVector) float64 { return v.RSI }},
	{"macd", func(v models.FeatureVector) float64 { return v.MACD }},
	{"macd_signal", func(v models.FeatureVector) float64 { return v.MACDSignal }},
	{"macd_hist", func(v models.FeatureVector) float64 { return v.MACDHist }},
	{"bb_pct", func(v models.FeatureVector) float64 { return v.BollingerPct }},
	{"volatility", func(v models.FeatureVector) float64 { return v.Volatility }},
	{"vol_ratio", func(v models.FeatureVector) float64 { return v.VolumeRatio }},
	{"mom_1d", func(v models.FeatureVector) float64 { return v.Momentum1 }},
	{"mom_5d", func(v models.FeatureVector) float64 { return v.Momentum5 }},
	{"mom_10d", func(v models.FeatureVector) float64 { return v.Momentum10 }},
	{"mom_20d", func(v models.FeatureVector) float64 { return v.Momentum20 }},
	{"price_vs_sma20", func(v models.FeatureVector) float64 { return v.PriceVsSMA20 }},
	{"price_vs_sma50", func(v models.FeatureVector) float64 { return v.PriceVsSMA50 }},
	{"atr_pct", func(v models.FeatureVector) float64 { return v.ATRPct }},
	{"close_to_high", func(v models.FeatureVector) float64 { return v.CloseToHigh }},
	{"close_to_low", func(v models.FeatureVector) float64 { return v.CloseToLow }},
}

// VectorValues flattens a vector into model input order.
func VectorValues(v models.FeatureVector) []float64 {
	out := make([]float64, len(Columns))
	for i, c := range Columns {
		out[i] = c.Value(v)
	}
	return out
}

// ColumnNames returns the schema names in model input order.
func ColumnNames() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Name
	}
	return out
}
