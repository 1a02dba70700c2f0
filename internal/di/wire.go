//go:build wireinject
// +build wireinject

package di

import (
	"FolioPull/internal/handler/api"
	"FolioPull/internal/service/ratelimit"
	"FolioPull/internal/usecase"
	"FolioPull/pkg/config"
	"FolioPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ratelimit.New,
		ProvideKafkaSink,

		// Repositories and providers
		ProvideSnapshotProvider,
		ProvidePortfolioSource,

		// Use cases
		usecase.NewLatestCycle,
		ProvideQuoteService,
		ProvideSinks,
		ProvidePortfolioTracker,

		// HTTP
		api.NewPortfolioEchoHandler,
		ProvideHTTPServer,

		// Application server
		ProvideClosers,
		ProvideApp,
	)
	return &server.App{}, nil
}
