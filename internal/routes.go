package internal

import (
	"livepoll/internal/controllers"
	"livepoll/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, adminController *controllers.AdminController, gate providers.AccessGateInterface) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	participant := routers.With(gate.RequireKey)
	participant.Get("/api/results", http.HandlerFunc(apiController.GetResults))
	participant.Post("/api/vote", http.HandlerFunc(apiController.Vote))
	participant.Get("/api/voter", http.HandlerFunc(apiController.GetVoter))

	routers.Post("/api/admin/login", http.HandlerFunc(adminController.Login))

	admin := routers.With(gate.RequireAdmin)
	admin.Post("/api/admin/reset", http.HandlerFunc(adminController.Reset))
	admin.Post("/api/admin/clear", http.HandlerFunc(adminController.Clear))
	admin.Post("/api/admin/max-participants", http.HandlerFunc(adminController.SetMaxParticipants))
	admin.Post("/api/admin/theme", http.HandlerFunc(adminController.SetTheme))
	admin.Get("/api/admin/export", http.HandlerFunc(adminController.Export))
	return routers
}
