//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"ghvault/internal"
	"ghvault/internal/archive"
	"ghvault/internal/controllers"
	"ghvault/internal/providers"
	"ghvault/internal/services"
	"ghvault/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		services.NewRunStatusService,
		providers.NewMetricsProvider,

		services.NewFilterService,
		archive.NewProgressStore,
		archive.NewArchiveSource,
		archive.NewAgeEncryptor,
		archive.NewGitManager,
		archive.NewDayPipeline,
		archive.NewRunController,

		controllers.NewHealthController,
		controllers.NewStatusController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
