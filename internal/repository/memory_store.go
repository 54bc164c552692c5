package repository

import (
	"context"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
)

// MemoryPredictionStore keeps finished recommendation records in memory,
// keyed by (symbol, date). Saving the same key twice replaces the record.
type MemoryPredictionStore struct {
	mu   sync.RWMutex
	recs map[string]models.Recommendation
}

func NewMemoryPredictionStore() *MemoryPredictionStore {
	return &MemoryPredictionStore{recs: make(map[string]models.Recommendation)}
}

func (s *MemoryPredictionStore) Save(_ context.Context, rec models.Recommendation) error {
	s.mu.Lock()
	s.recs[storeKey(rec.Symbol, rec.GeneratedAt)] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryPredictionStore) Get(_ context.Context, symbol string, date time.Time) (models.Recommendation, bool, error) {
	s.mu.RLock()
	rec, ok := s.recs[storeKey(symbol, date)]
	s.mu.RUnlock()
	return rec, ok, nil
}

// Len reports the number of stored records.
func (s *MemoryPredictionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

func storeKey(symbol string, date time.Time) string {
	return symbol + "|" + date.UTC().Format("2006-01-02")
}
