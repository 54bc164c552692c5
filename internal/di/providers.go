package di

import (
	domrepo "StockPulse/internal/domain/repository"
	repo "StockPulse/internal/repository"
	svcmetrics "StockPulse/internal/service/metrics"
	"StockPulse/internal/services/ml"
	"StockPulse/internal/usecase"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideMetrics returns the Prometheus recorder, or a no-op recorder when
// metrics are disabled in config.
func ProvideMetrics(cfg *config.Config) domrepo.Metrics {
	if cfg.Metrics.Enabled {
		return metrics.New()
	}
	return svcmetrics.Noop{}
}

func ProvideBarProvider(cfg *config.Config) domrepo.BarProvider {
	return repo.NewCSVBarProvider(cfg.Data.BarsDir)
}

func ProvideSentimentProvider(cfg *config.Config) (domrepo.SentimentProvider, error) {
	return repo.NewStaticSentimentProvider(cfg.Data.SentimentFile)
}

func ProvidePredictionStore() domrepo.PredictionStore {
	return repo.NewMemoryPredictionStore()
}

func ProvideModelStore(log *logger.Logger, m domrepo.Metrics) *ml.Store {
	return ml.NewStore(log, m)
}

func ProvidePredictor(models *ml.Store, m domrepo.Metrics, log *logger.Logger) *usecase.Predictor {
	return usecase.NewPredictor(models, m, log)
}

func ProvideRecommender(log *logger.Logger) *usecase.Recommender {
	return usecase.NewRecommender(log)
}

func ProvideAdvisor(
	cfg *config.Config,
	bars domrepo.BarProvider,
	sentiment domrepo.SentimentProvider,
	store domrepo.PredictionStore,
	predictor *usecase.Predictor,
	models *ml.Store,
	recommender *usecase.Recommender,
	m domrepo.Metrics,
	log *logger.Logger,
) *usecase.Advisor {
	return usecase.NewAdvisor(bars, sentiment, store, predictor, models, recommender, m, log, cfg.Pipeline.Workers)
}

func ProvideApp(cfg *config.Config, log *logger.Logger, advisor *usecase.Advisor) *server.App {
	return server.New(cfg, log, advisor)
}
