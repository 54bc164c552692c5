package ml

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	svcmetrics "StockPulse/internal/service/metrics"
	"StockPulse/pkg/logger"
)

func trainableBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		close := 100 + 0.03*float64(i) + 5*math.Sin(float64(i)/6) + 2*math.Cos(float64(i)/13)
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   close - 0.4,
			High:   close + 1.1,
			Low:    close - 1.3,
			Close:  close,
			Volume: 900_000 + 80_000*math.Sin(float64(i)/4),
		}
	}
	return bars
}

func newTestStore() *Store {
	return NewStore(logger.Nop(), svcmetrics.Noop{})
}

func TestGetOrTrainInsufficientData(t *testing.T) {
	s := newTestStore()
	// 80 bars leave fewer usable rows than the training minimum.
	if _, ok := s.GetOrTrain(context.Background(), "AAPL", trainableBars(80)); ok {
		t.Fatal("expected no model with insufficient history")
	}
	if _, ok := s.Get("AAPL"); ok {
		t.Fatal("a failed training run must not be cached")
	}
}

func TestGetOrTrainCachesModel(t *testing.T) {
	s := newTestStore()
	bars := trainableBars(200)

	m1, ok := s.GetOrTrain(context.Background(), "AAPL", bars)
	if !ok {
		t.Fatal("expected a trained model")
	}
	if m1.ValAccuracy < 0 || m1.ValAccuracy > 1 {
		t.Fatalf("validation accuracy out of range: %v", m1.ValAccuracy)
	}
	if m1.TrainRows == 0 || m1.ValRows == 0 {
		t.Fatalf("bad split: train=%d val=%d", m1.TrainRows, m1.ValRows)
	}

	// Second call must hit the cache; nil bars would fail a retrain.
	m2, ok := s.GetOrTrain(context.Background(), "AAPL", nil)
	if !ok || m2 != m1 {
		t.Fatal("expected the cached model instance")
	}
}

func TestInvalidateDropsModel(t *testing.T) {
	s := newTestStore()
	if _, ok := s.GetOrTrain(context.Background(), "MSFT", trainableBars(200)); !ok {
		t.Fatal("expected a trained model")
	}
	s.Invalidate("MSFT")
	if _, ok := s.Get("MSFT"); ok {
		t.Fatal("expected the model to be gone after invalidation")
	}
}

func TestConcurrentFirstRequestsShareOneModel(t *testing.T) {
	s := newTestStore()
	bars := trainableBars(200)

	const callers = 8
	results := make([]*TrainedModel, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, ok := s.GetOrTrain(context.Background(), "NVDA", bars)
			if ok {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()

	for i, m := range results {
		if m == nil {
			t.Fatalf("caller %d got no model", i)
		}
		if m != results[0] {
			t.Fatal("callers observed different model instances")
		}
	}
}

func TestTopImportances(t *testing.T) {
	s := newTestStore()
	m, ok := s.GetOrTrain(context.Background(), "AAPL", trainableBars(200))
	if !ok {
		t.Fatal("expected a trained model")
	}

	top := m.TopImportances(3)
	if len(top) != 3 {
		t.Fatalf("got %d importances, want 3", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatal("importances not in descending order")
		}
	}
	for _, imp := range top {
		if imp.Name == "" {
			t.Fatal("importance missing a schema name")
		}
	}
}
