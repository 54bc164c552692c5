package features

import (
	"math"

	"StockPulse/internal/domain/models"
)

const (
	// LabelHorizon is the number of trading days ahead used for the
	// training label: label = 1 iff close[t+LabelHorizon] > close[t].
	LabelHorizon = 5

	// MinServingBars is the minimum history for a usable latest vector.
	MinServingBars = 30

	// MinTrainingBars is the recommended minimum history for table mode.
	MinTrainingBars = 100

	tradingDaysPerYear = 252
)

// TrainingRow pairs a fully-defined feature vector with its label.
type TrainingRow struct {
	Features models.FeatureVector
	Label    int
}

// series holds per-bar intermediate arrays. Undefined entries are NaN.
type series struct {
	bars []models.Bar

	sma5, sma10, sma20, sma50 []float64
	macd, macdSignal          []float64
	rsi                       []float64
	bbPct                     []float64
	volatility                []float64
	volRatio                  []float64
	atrPct                    []float64
}

// Latest computes the feature vector for the most recent bar. Values with
// insufficient look-back are NaN; callers sanitize before model input.
// Returns ok=false when fewer than MinServingBars bars are supplied.
func Latest(bars []models.Bar) (models.FeatureVector, bool) {
	if len(bars) < MinServingBars {
		return models.FeatureVector{}, false
	}
	s := newSeries(bars)
	return s.vectorAt(len(bars) - 1), true
}

// BuildTable computes one feature vector per bar plus the LabelHorizon-ahead
// label, dropping every row where any feature or the label is undefined.
// The last LabelHorizon bars never have a label and are always dropped.
func BuildTable(bars []models.Bar) []TrainingRow {
	if len(bars) < MinServingBars {
		return nil
	}
	s := newSeries(bars)
	rows := make([]TrainingRow, 0, len(bars))
	for i := 0; i < len(bars)-LabelHorizon; i++ {
		v := s.vectorAt(i)
		if hasUndefined(v) {
			continue
		}
		label := 0
		if bars[i+LabelHorizon].Close > bars[i].Close {
			label = 1
		}
		rows = append(rows, TrainingRow{Features: v, Label: label})
	}
	return rows
}

// Sanitize replaces undefined values with neutral defaults so serving never
// propagates NaN downstream: RSI 50, volatility 0.2, Bollinger position 0.5,
// volume ratio 1, close-in-range 0.5, all momentum/slope/ratio features 0.
func Sanitize(v models.FeatureVector) models.FeatureVector {
	def := func(x, d float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return d
		}
		return x
	}
	v.SMA5 = def(v.SMA5, 0)
	v.SMA10 = def(v.SMA10, 0)
	v.SMA20 = def(v.SMA20, 0)
	v.SMA50 = def(v.SMA50, 0)
	v.SMA5Slope = def(v.SMA5Slope, 0)
	v.SMA20Slope = def(v.SMA20Slope, 0)
	v.RSI = def(v.RSI, 50)
	v.MACD = def(v.MACD, 0)
	v.MACDSignal = def(v.MACDSignal, 0)
	v.MACDHist = def(v.MACDHist, 0)
	v.BollingerPct = def(v.BollingerPct, 0.5)
	v.Volatility = def(v.Volatility, 0.2)
	v.VolumeRatio = def(v.VolumeRatio, 1)
	v.Momentum1 = def(v.Momentum1, 0)
	v.Momentum5 = def(v.Momentum5, 0)
	v.Momentum10 = def(v.Momentum10, 0)
	v.Momentum20 = def(v.Momentum20, 0)
	v.PriceVsSMA20 = def(v.PriceVsSMA20, 0)
	v.PriceVsSMA50 = def(v.PriceVsSMA50, 0)
	v.ATRPct = def(v.ATRPct, 0)
	v.CloseToHigh = def(v.CloseToHigh, 0.5)
	v.CloseToLow = def(v.CloseToLow, 0.5)
	return v
}

func newSeries(bars []models.Bar) *series {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	s := &series{bars: bars}
	s.sma5 = rollingMean(closes, 5)
	s.sma10 = rollingMean(closes, 10)
	s.sma20 = rollingMean(closes, 20)
	s.sma50 = rollingMean(closes, 50)
	s.rsi = computeRSI(closes, 14)

	ema12 := ema(closes, 12)
	ema26 := ema(closes, 26)
	s.macd = make([]float64, len(bars))
	for i := range s.macd {
		s.macd[i] = ema12[i] - ema26[i]
	}
	s.macdSignal = ema(s.macd, 9)

	s.bbPct = computeBollingerPct(closes, s.sma20, 20)
	s.volatility = computeVolatility(closes, 20)
	s.volRatio = computeVolumeRatio(volumes, 20)
	s.atrPct = computeATRPct(bars, 14)
	return s
}

func (s *series) vectorAt(i int) models.FeatureVector {
	b := s.bars[i]
	v := models.FeatureVector{
		SMA5:  s.sma5[i],
		SMA10: s.sma10[i],
		SMA20: s.sma20[i],
		SMA50: s.sma50[i],

		SMA5Slope:  pctChangeAt(s.sma5, i, 3),
		SMA20Slope: pctChangeAt(s.sma20, i, 5),

		RSI: s.rsi[i],

		MACD:       s.macd[i],
		MACDSignal: s.macdSignal[i],
		MACDHist:   s.macd[i] - s.macdSignal[i],

		BollingerPct: s.bbPct[i],
		Volatility:   s.volatility[i],
		VolumeRatio:  s.volRatio[i],

		Momentum1:  momentumAt(s.bars, i, 1),
		Momentum5:  momentumAt(s.bars, i, 5),
		Momentum10: momentumAt(s.bars, i, 10),
		Momentum20: momentumAt(s.bars, i, 20),

		ATRPct: s.atrPct[i],
	}

	v.PriceVsSMA20 = ratioMinusOne(b.Close, s.sma20[i])
	v.PriceVsSMA50 = ratioMinusOne(b.Close, s.sma50[i])

	// Close position within the day's range; undefined when range is 0.
	dayRange := b.High - b.Low
	if dayRange > 0 {
		v.CloseToHigh = (b.High - b.Close) / dayRange
		v.CloseToLow = (b.Close - b.Low) / dayRange
	} else {
		v.CloseToHigh = math.NaN()
		v.CloseToLow = math.NaN()
	}
	return v
}

func hasUndefined(v models.FeatureVector) bool {
	for _, x := range VectorValues(v) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return true
		}
	}
	return false
}

// rollingMean is a simple moving average; NaN for the first period-1 entries.
func rollingMean(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// ema is the standard recursive exponential moving average with
// alpha = 2/(span+1), seeded with the first observation.
func ema(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// computeRSI uses simple rolling means of gains and losses over daily deltas.
// A window with zero losses maps to 100, never NaN.
func computeRSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}
	var gainSum, lossSum float64
	for i := 0; i < n; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			out[i] = math.NaN()
			continue
		}
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		avgGain := gainSum / float64(period)
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// computeBollingerPct positions the close within the 20-bar +/- 2 sigma
// envelope. Zero band width is defined as 0.5.
func computeBollingerPct(closes, mid []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i < period-1 || math.IsNaN(mid[i]) {
			out[i] = math.NaN()
			continue
		}
		std := sampleStddev(closes[i-period+1:i+1], mid[i])
		upper := mid[i] + 2*std
		lower := mid[i] - 2*std
		width := upper - lower
		if width == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = (closes[i] - lower) / width
	}
	return out
}

// computeVolatility is the annualized rolling stddev of daily returns.
func computeVolatility(closes []float64, window int) []float64 {
	n := len(closes)
	returns := make([]float64, n)
	returns[0] = math.NaN()
	for i := 1; i < n; i++ {
		if closes[i-1] == 0 {
			returns[i] = math.NaN()
			continue
		}
		returns[i] = closes[i]/closes[i-1] - 1
	}
	out := make([]float64, n)
	for i := range out {
		if i < window {
			out[i] = math.NaN()
			continue
		}
		win := returns[i-window+1 : i+1]
		mean := 0.0
		for _, r := range win {
			mean += r
		}
		mean /= float64(window)
		out[i] = sampleStddev(win, mean) * math.Sqrt(tradingDaysPerYear)
	}
	return out
}

// computeVolumeRatio compares current volume to its 20-bar average.
// A zero average is defined as ratio 1.0.
func computeVolumeRatio(volumes []float64, period int) []float64 {
	avg := rollingMean(volumes, period)
	out := make([]float64, len(volumes))
	for i := range volumes {
		switch {
		case math.IsNaN(avg[i]):
			out[i] = math.NaN()
		case avg[i] == 0:
			out[i] = 1.0
		default:
			out[i] = volumes[i] / avg[i]
		}
	}
	return out
}

// computeATRPct is the 14-bar average true range as a fraction of the close.
func computeATRPct(bars []models.Bar, period int) []float64 {
	n := len(bars)
	tr := make([]float64, n)
	for i := range bars {
		r := bars[i].High - bars[i].Low
		if i > 0 {
			prev := bars[i-1].Close
			r = math.Max(r, math.Abs(bars[i].High-prev))
			r = math.Max(r, math.Abs(bars[i].Low-prev))
		}
		tr[i] = r
	}
	atr := rollingMean(tr, period)
	out := make([]float64, n)
	for i := range out {
		if math.IsNaN(atr[i]) || bars[i].Close == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = atr[i] / bars[i].Close
	}
	return out
}

func momentumAt(bars []models.Bar, i, k int) float64 {
	if i < k || bars[i-k].Close == 0 {
		return math.NaN()
	}
	return bars[i].Close/bars[i-k].Close - 1
}

func pctChangeAt(xs []float64, i, k int) float64 {
	if i < k || math.IsNaN(xs[i]) || math.IsNaN(xs[i-k]) || xs[i-k] == 0 {
		return math.NaN()
	}
	return (xs[i] - xs[i-k]) / xs[i-k]
}

func ratioMinusOne(x, base float64) float64 {
	if math.IsNaN(base) || base == 0 {
		return math.NaN()
	}
	return x/base - 1
}

func sampleStddev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
