package models

import "time"

// Bar is a single daily OHLCV record for one security.
// Consumers assume bars are ordered by date ascending with roughly-daily cadence.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FeatureVector is the fixed, named set of technical features computed for a
// single bar. Fields computed from insufficient look-back hold NaN until the
// feature engine sanitizes them for serving; training rows containing NaN are
// dropped instead.
type FeatureVector struct {
	SMA5  float64
	SMA10 float64
	SMA20 float64
	SMA50 float64

	SMA5Slope  float64 // pct change of SMA5 over the last 3 bars
	SMA20Slope float64 // pct change of SMA20 over the last 5 bars

	RSI float64 // bounded [0,100]; 100 when the window has no losses

	MACD       float64 // EMA(12) - EMA(26)
	MACDSignal float64 // EMA(9) of MACD
	MACDHist   float64 // MACD - signal

	BollingerPct float64 // (close-lower)/(upper-lower); 0.5 when band width is 0
	Volatility   float64 // 20-bar stddev of daily returns, annualized by sqrt(252)
	VolumeRatio  float64 // volume / 20-bar average volume; 1.0 when average is 0

	Momentum1  float64
	Momentum5  float64
	Momentum10 float64
	Momentum20 float64

	PriceVsSMA20 float64 // close/SMA20 - 1
	PriceVsSMA50 float64 // close/SMA50 - 1

	ATRPct float64 // 14-bar average true range / close

	CloseToHigh float64 // (high-close)/range
	CloseToLow  float64 // (close-low)/range
}
