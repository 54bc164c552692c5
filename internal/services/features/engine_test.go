package features

import (
	"math"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

// syntheticBars builds a deterministic daily series with a mild cycle so most
// indicators take non-trivial values.
func syntheticBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		close := 100 + 0.05*float64(i) + 4*math.Sin(float64(i)/7)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   close - 0.5,
			High:   close + 1.0,
			Low:    close - 1.2,
			Close:  close,
			Volume: 1_000_000 + 50_000*math.Sin(float64(i)/3),
		}
	}
	return bars
}

func flatBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestLatestRequiresMinimumHistory(t *testing.T) {
	if _, ok := Latest(syntheticBars(MinServingBars - 1)); ok {
		t.Fatal("expected ok=false below the serving minimum")
	}
	if _, ok := Latest(syntheticBars(MinServingBars)); !ok {
		t.Fatal("expected ok=true at the serving minimum")
	}
}

func TestLatestShortLookbackIsUndefined(t *testing.T) {
	// 30 bars are enough to serve but not enough for the 50-bar average.
	v, ok := Latest(syntheticBars(MinServingBars))
	if !ok {
		t.Fatal("expected a vector")
	}
	if !math.IsNaN(v.SMA50) {
		t.Errorf("SMA50 should be undefined with 30 bars, got %v", v.SMA50)
	}
	if math.IsNaN(v.SMA20) {
		t.Error("SMA20 should be defined with 30 bars")
	}
	if math.IsNaN(v.RSI) {
		t.Error("RSI should be defined with 30 bars")
	}
}

func TestRSIStaysInBounds(t *testing.T) {
	bars := syntheticBars(120)
	s := newSeries(bars)
	for i := 14; i < len(bars); i++ {
		if s.rsi[i] < 0 || s.rsi[i] > 100 {
			t.Fatalf("RSI out of bounds at %d: %v", i, s.rsi[i])
		}
	}
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	bars := flatBars(60)
	for i := range bars {
		bars[i].Close = 100 + float64(i) // strictly rising, no losses
	}
	s := newSeries(bars)
	if got := s.rsi[len(bars)-1]; got != 100 {
		t.Errorf("RSI on a loss-free window = %v, want 100", got)
	}
}

func TestFlatSeriesEdgeValues(t *testing.T) {
	v, ok := Latest(flatBars(80))
	if !ok {
		t.Fatal("expected a vector")
	}
	// Zero band width, zero average-volume deviation, zero returns.
	if v.BollingerPct != 0.5 {
		t.Errorf("BollingerPct on flat series = %v, want 0.5", v.BollingerPct)
	}
	if v.VolumeRatio != 1.0 {
		t.Errorf("VolumeRatio on flat volume = %v, want 1.0", v.VolumeRatio)
	}
	if v.Volatility != 0 {
		t.Errorf("Volatility on flat series = %v, want 0", v.Volatility)
	}
	if v.RSI != 100 {
		// No losses in a flat series either; zero average loss maps to 100.
		t.Errorf("RSI on flat series = %v, want 100", v.RSI)
	}
}

func TestVolumeRatioZeroAverage(t *testing.T) {
	bars := flatBars(60)
	for i := range bars {
		bars[i].Volume = 0
	}
	v, ok := Latest(bars)
	if !ok {
		t.Fatal("expected a vector")
	}
	if v.VolumeRatio != 1.0 {
		t.Errorf("VolumeRatio with zero average = %v, want 1.0", v.VolumeRatio)
	}
}

func TestCloseInRange(t *testing.T) {
	bars := syntheticBars(60)
	last := &bars[len(bars)-1]
	last.High = 110
	last.Low = 100
	last.Close = 108
	v, ok := Latest(bars)
	if !ok {
		t.Fatal("expected a vector")
	}
	if math.Abs(v.CloseToHigh-0.2) > 1e-9 {
		t.Errorf("CloseToHigh = %v, want 0.2", v.CloseToHigh)
	}
	if math.Abs(v.CloseToLow-0.8) > 1e-9 {
		t.Errorf("CloseToLow = %v, want 0.8", v.CloseToLow)
	}
}

func TestBuildTableDropsWarmupAndUnlabeled(t *testing.T) {
	n := 120
	bars := syntheticBars(n)
	rows := BuildTable(bars)

	// The 50-bar average defines the longest warm-up; the last LabelHorizon
	// bars have no label.
	want := (n - LabelHorizon) - 49
	if len(rows) != want {
		t.Fatalf("got %d rows, want %d", len(rows), want)
	}
	for _, r := range rows {
		for _, x := range VectorValues(r.Features) {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				t.Fatal("table contains an undefined value")
			}
		}
		if r.Label != 0 && r.Label != 1 {
			t.Fatalf("bad label %d", r.Label)
		}
	}
}

func TestBuildTableLabels(t *testing.T) {
	bars := syntheticBars(120)
	rows := BuildTable(bars)
	// Recompute labels independently for the tail rows.
	offset := 49
	for k, r := range rows {
		i := offset + k
		want := 0
		if bars[i+LabelHorizon].Close > bars[i].Close {
			want = 1
		}
		if r.Label != want {
			t.Fatalf("row %d label = %d, want %d", k, r.Label, want)
		}
	}
}

func TestSanitizeDefaults(t *testing.T) {
	nan := math.NaN()
	v := models.FeatureVector{
		SMA5: nan, SMA10: nan, SMA20: nan, SMA50: nan,
		SMA5Slope: nan, SMA20Slope: nan,
		RSI: nan, MACD: nan, MACDSignal: nan, MACDHist: nan,
		BollingerPct: nan, Volatility: nan, VolumeRatio: nan,
		Momentum1: nan, Momentum5: nan, Momentum10: nan, Momentum20: nan,
		PriceVsSMA20: nan, PriceVsSMA50: nan, ATRPct: nan,
		CloseToHigh: nan, CloseToLow: nan,
	}
	got := Sanitize(v)
	if got.RSI != 50 {
		t.Errorf("RSI default = %v, want 50", got.RSI)
	}
	if got.Volatility != 0.2 {
		t.Errorf("Volatility default = %v, want 0.2", got.Volatility)
	}
	if got.BollingerPct != 0.5 {
		t.Errorf("BollingerPct default = %v, want 0.5", got.BollingerPct)
	}
	if got.VolumeRatio != 1 {
		t.Errorf("VolumeRatio default = %v, want 1", got.VolumeRatio)
	}
	if got.CloseToHigh != 0.5 || got.CloseToLow != 0.5 {
		t.Errorf("close-in-range defaults = %v/%v, want 0.5/0.5", got.CloseToHigh, got.CloseToLow)
	}
	for _, x := range VectorValues(got) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatal("sanitized vector still contains an undefined value")
		}
	}
	if Sanitize(got) != got {
		t.Error("sanitizing a defined vector must be a no-op")
	}
}

func TestSchemaOrderingStable(t *testing.T) {
	names := ColumnNames()
	if len(names) != len(Columns) {
		t.Fatalf("names length %d, columns %d", len(names), len(Columns))
	}
	if names[0] != "sma5" || names[len(names)-1] != "close_to_low" {
		t.Errorf("unexpected schema boundary names %q %q", names[0], names[len(names)-1])
	}
	v, _ := Latest(syntheticBars(120))
	vals := VectorValues(v)
	if len(vals) != len(Columns) {
		t.Fatalf("values length %d, columns %d", len(vals), len(Columns))
	}
	if vals[6] != v.RSI {
		t.Error("rsi column out of position")
	}
}
