//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config, log *logger.Logger) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Data providers
		ProvideBarProvider,
		ProvideSentimentProvider,
		ProvidePredictionStore,

		// Models and use cases
		ProvideModelStore,
		ProvidePredictor,
		ProvideRecommender,
		ProvideAdvisor,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
