package internal

import (
	"net/http"

	"ghvault/internal/controllers"
	"ghvault/internal/providers"
)

func InitRoutes(statusController *controllers.StatusController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(statusController.GetStatus))
	routers.Get("/processed", http.HandlerFunc(statusController.GetProcessed))
	return routers
}
