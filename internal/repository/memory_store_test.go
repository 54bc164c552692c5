package repository

import (
	"context"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
)

func TestMemoryPredictionStoreRoundTrip(t *testing.T) {
	s := NewMemoryPredictionStore()
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

	rec := models.Recommendation{Symbol: "AAPL", Action: models.ActionBuy, GeneratedAt: day}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	// Lookup is by calendar day, not the exact timestamp.
	got, ok, err := s.Get(ctx, "AAPL", day.Add(3*time.Hour))
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if got.Action != models.ActionBuy {
		t.Errorf("got %+v", got)
	}

	if _, ok, _ := s.Get(ctx, "AAPL", day.AddDate(0, 0, 1)); ok {
		t.Fatal("next day must be a different key")
	}
	if _, ok, _ := s.Get(ctx, "MSFT", day); ok {
		t.Fatal("other symbols must miss")
	}

	// Same key replaces.
	rec.Action = models.ActionSell
	_ = s.Save(ctx, rec)
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	got, _, _ = s.Get(ctx, "AAPL", day)
	if got.Action != models.ActionSell {
		t.Error("save on the same key must replace")
	}
}
