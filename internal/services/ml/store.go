package ml

import (
	"context"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	"StockPulse/pkg/logger"
)

// MinUsableRows is the minimum number of fully-defined training rows
// required after dropping undefined rows; below it no model is trained and
// callers fall back to the heuristic.
const MinUsableRows = 60

const trainSplit = 0.8

// TrainedModel pairs a fitted classifier with the validation accuracy
// observed at training time. Instances are never mutated after creation;
// retraining replaces the cache entry.
type TrainedModel struct {
	Symbol      string
	Classifier  *Classifier
	ValAccuracy float64
	TrainRows   int
	ValRows     int
	TrainedAt   time.Time
}

// Importance is a named feature-importance score.
type Importance struct {
	Name  string
	Score float64
}

// TopImportances returns the k highest-importance features in descending
// score order, named per the feature schema.
func (m *TrainedModel) TopImportances(k int) []Importance {
	scores := m.Classifier.Importances()
	names := features.ColumnNames()
	out := make([]Importance, 0, len(scores))
	for i, s := range scores {
		out = append(out, Importance{Name: names[i], Score: s})
	}
	// Insertion sort keeps ties in schema order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Store owns one trained classifier per security. Models are trained lazily
// on first request, cached for the process lifetime, and only replaced via
// explicit invalidation. Concurrent first requests for the same security
// serialize on a per-symbol lock so at most one training is in flight.
type Store struct {
	log     *logger.Logger
	metrics repository.Metrics
	params  Params

	mu     sync.RWMutex
	models map[string]*TrainedModel

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewStore creates an empty model store.
func NewStore(log *logger.Logger, metrics repository.Metrics) *Store {
	return &Store{
		log:     log,
		metrics: metrics,
		params:  DefaultParams(),
		models:  make(map[string]*TrainedModel),
		locks:   make(map[string]*sync.Mutex),
	}
}

// GetOrTrain returns the cached model for symbol, training one from history
// when absent. ok=false means no model is available for this call
// (insufficient data or training failure); the failure is not cached, so a
// later call with better history retries.
func (s *Store) GetOrTrain(ctx context.Context, symbol string, bars []models.Bar) (*TrainedModel, bool) {
	if m, ok := s.get(symbol); ok {
		return m, true
	}

	lock := s.keyLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent caller may have finished training while we waited.
	if m, ok := s.get(symbol); ok {
		return m, true
	}

	m, ok := s.train(ctx, symbol, bars)
	if !ok {
		return nil, false
	}

	s.mu.Lock()
	s.models[symbol] = m
	s.mu.Unlock()
	return m, true
}

// Get returns the cached model without training.
func (s *Store) Get(symbol string) (*TrainedModel, bool) {
	return s.get(symbol)
}

// Invalidate drops the cached model for symbol; the next request retrains.
func (s *Store) Invalidate(symbol string) {
	s.mu.Lock()
	delete(s.models, symbol)
	s.mu.Unlock()
}

func (s *Store) get(symbol string) (*TrainedModel, bool) {
	s.mu.RLock()
	m, ok := s.models[symbol]
	s.mu.RUnlock()
	return m, ok
}

func (s *Store) keyLock(symbol string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		s.locks[symbol] = l
	}
	return l
}

func (s *Store) train(_ context.Context, symbol string, bars []models.Bar) (*TrainedModel, bool) {
	rows := features.BuildTable(bars)
	if len(rows) < MinUsableRows {
		s.log.Debug("skipping training, not enough usable rows",
			logger.String("symbol", symbol),
			logger.Int("bars", len(bars)),
			logger.Int("usable_rows", len(rows)))
		s.metrics.RecordTraining("insufficient_data")
		return nil, false
	}

	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i, r := range rows {
		X[i] = features.VectorValues(r.Features)
		y[i] = r.Label
	}

	// Chronological split; shuffling would leak future bars into training.
	split := int(float64(len(X)) * trainSplit)
	start := time.Now()
	clf, err := Train(X[:split], y[:split], s.params)
	if err != nil {
		s.log.Warn("training failed",
			logger.String("symbol", symbol),
			logger.Error(err))
		s.metrics.RecordTraining("failure")
		return nil, false
	}

	correct := 0
	for i := split; i < len(X); i++ {
		p, perr := clf.ProbabilityUp(X[i])
		if perr != nil {
			s.metrics.RecordTraining("failure")
			return nil, false
		}
		pred := 0
		if p > 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	valRows := len(X) - split
	acc := 0.0
	if valRows > 0 {
		acc = float64(correct) / float64(valRows)
	}

	elapsed := time.Since(start)
	s.metrics.RecordTraining("success")
	s.metrics.RecordTrainingDuration(elapsed.Seconds())
	s.log.Info("model trained",
		logger.String("symbol", symbol),
		logger.Int("train_rows", split),
		logger.Int("val_rows", valRows),
		logger.Float("val_accuracy", acc),
		logger.Duration("took", elapsed))

	return &TrainedModel{
		Symbol:      symbol,
		Classifier:  clf,
		ValAccuracy: acc,
		TrainRows:   split,
		ValRows:     valRows,
		TrainedAt:   time.Now(),
	}, true
}
