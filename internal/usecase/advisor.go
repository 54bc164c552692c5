package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	"StockPulse/internal/services/ml"
	"StockPulse/internal/symbols"
	"StockPulse/pkg/logger"
)

// ErrNoSecurities signals a caller-level failure: nothing to analyze.
var ErrNoSecurities = errors.New("no securities to analyze")

// maxBatchSecurities caps one advice batch: holdings first, then the sector
// universe selection.
const maxBatchSecurities = 15

// AdviceRequest is one batch invocation of the pipeline.
type AdviceRequest struct {
	Profile  models.RiskProfile
	Holdings []string
}

// Advisor runs the full batch pipeline: fan out per-security analysis
// (features, model, prediction, rationale), then fan in through the
// Recommender, persisting finished records on the way out. Per-security
// failures are logged and skipped; they never abort the batch.
type Advisor struct {
	bars        repository.BarProvider
	sentiment   repository.SentimentProvider
	store       repository.PredictionStore
	predictor   *Predictor
	models      *ml.Store
	recommender *Recommender
	metrics     repository.Metrics
	log         *logger.Logger
	workers     int
}

func NewAdvisor(
	bars repository.BarProvider,
	sentiment repository.SentimentProvider,
	store repository.PredictionStore,
	predictor *Predictor,
	models *ml.Store,
	recommender *Recommender,
	metrics repository.Metrics,
	log *logger.Logger,
	workers int,
) *Advisor {
	if workers < 1 {
		workers = 1
	}
	return &Advisor{
		bars:        bars,
		sentiment:   sentiment,
		store:       store,
		predictor:   predictor,
		models:      models,
		recommender: recommender,
		metrics:     metrics,
		log:         log,
		workers:     workers,
	}
}

// Advise analyzes the request's securities and returns the reranked
// recommendation list. It fails only when there is nothing to analyze.
func (a *Advisor) Advise(ctx context.Context, req AdviceRequest) ([]models.Recommendation, error) {
	held := make(map[string]bool, len(req.Holdings))
	batch := a.buildBatch(req, held)
	if len(batch) == 0 {
		return nil, ErrNoSecurities
	}

	a.log.Info("advice batch started",
		logger.Int("securities", len(batch)),
		logger.String("tolerance", string(req.Profile.Tolerance)),
		logger.String("horizon", string(req.Profile.Horizon)))

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []Candidate
	)
	sem := make(chan struct{}, a.workers)
	for _, symbol := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()
			cand, ok := a.analyzeOne(ctx, symbol, held[symbol])
			if !ok {
				return
			}
			mu.Lock()
			candidates = append(candidates, cand)
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	recs := a.recommender.Rank(candidates, req.Profile)

	for _, rec := range recs {
		if err := a.store.Save(ctx, rec); err != nil {
			a.log.Warn("failed to persist recommendation",
				logger.String("symbol", rec.Symbol),
				logger.Error(err))
		}
	}

	a.log.Info("advice batch finished",
		logger.Int("analyzed", len(candidates)),
		logger.Int("recommended", len(recs)))
	return recs, nil
}

// analyzeOne runs the per-security leg of the pipeline. A panic anywhere in
// it is recovered and the security is skipped with a warning.
func (a *Advisor) analyzeOne(ctx context.Context, symbol string, held bool) (cand Candidate, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("security analysis panicked, skipping",
				logger.String("symbol", symbol),
				logger.Any("panic", r))
			a.metrics.RecordSkipped("panic")
			ok = false
		}
	}()

	bars, err := a.bars.History(ctx, symbol)
	if err != nil {
		a.log.Warn("bar history unavailable, skipping",
			logger.String("symbol", symbol),
			logger.Error(err))
		a.metrics.RecordSkipped("history")
		return Candidate{}, false
	}

	latest, enough := features.Latest(bars)
	if !enough {
		a.log.Debug("insufficient history for features, skipping",
			logger.String("symbol", symbol),
			logger.Int("bars", len(bars)))
		a.metrics.RecordSkipped("insufficient_data")
		return Candidate{}, false
	}

	var sentimentScore *float64
	explanation := ""
	sentimentValue := 0.0
	if sent, found, serr := a.sentiment.Sentiment(ctx, symbol); serr != nil {
		// Sentiment failures degrade to neutral, never fail the prediction.
		a.log.Warn("sentiment unavailable, using neutral",
			logger.String("symbol", symbol),
			logger.Error(serr))
	} else if found {
		score := clamp(sent.Score, -1, 1)
		sentimentScore = &score
		sentimentValue = score
		explanation = sent.Explanation
	}

	pred := a.predictor.Predict(ctx, symbol, bars, latest, sentimentScore)

	var valAccuracy *float64
	var importances []ml.Importance
	if pred.Method == models.MethodModel {
		if m, cached := a.models.Get(symbol); cached {
			acc := m.ValAccuracy
			valAccuracy = &acc
			importances = m.TopImportances(topDrivers)
		}
	}
	signals := BuildSignals(pred, valAccuracy, latest, importances)

	return Candidate{
		Symbol:      symbol,
		Sector:      symbols.SectorOf(symbol),
		Prediction:  pred,
		Features:    latest,
		Sentiment:   sentimentValue,
		Explanation: explanation,
		Signals:     signals,
		Price:       bars[len(bars)-1].Close,
		Held:        held,
	}, true
}

// buildBatch assembles the security list: holdings first, then the sector
// universe, deduplicated and capped.
func (a *Advisor) buildBatch(req AdviceRequest, held map[string]bool) []string {
	batch := make([]string, 0, maxBatchSecurities)
	seen := make(map[string]struct{})
	add := func(symbol string) {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" || len(batch) >= maxBatchSecurities {
			return
		}
		if _, ok := seen[symbol]; ok {
			return
		}
		seen[symbol] = struct{}{}
		batch = append(batch, symbol)
	}

	for _, h := range req.Holdings {
		add(h)
		held[strings.ToUpper(strings.TrimSpace(h))] = true
	}
	for _, t := range symbols.Select(req.Profile.PreferredSectors) {
		add(t)
	}
	return batch
}
