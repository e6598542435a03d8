package internal

import (
	"net/http"

	"chronicle/internal/controllers"
	"chronicle/internal/providers"
	"chronicle/internal/structures"
)

func InitRoutes(chronicleController *controllers.ChronicleController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/today", http.HandlerFunc(chronicleController.Today))
	routers.Post("/retry", http.HandlerFunc(chronicleController.Retry))
	routers.Get("/today/select", http.HandlerFunc(chronicleController.Select))
	routers.Get("/calendar", http.HandlerFunc(chronicleController.Calendar))
	routers.Get("/almanac", http.HandlerFunc(chronicleController.Almanac))
	routers.Get("/archive", http.HandlerFunc(chronicleController.Archive))
	return routers
}
