package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdramirez/celustock-api/internal/application/picking"
	appsync "github.com/jdramirez/celustock-api/internal/application/sync"
	"github.com/jdramirez/celustock-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PickingUC *picking.UseCase
	SyncUC    *appsync.UseCase
	UnitUC    *usecase.UnitUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Picking (protegido)
	pickingHandler := NewPickingHandler(deps.PickingUC)
	pick := api.Group("/picking")
	pick.Post("/resolve", pickingHandler.ResolveOrder)
	pick.Post("/scan", pickingHandler.Scan)
	pick.Post("/confirm", pickingHandler.Confirm)
	pick.Post("/countdown/cancel", pickingHandler.CancelCountdown)
	pick.Post("/reset", pickingHandler.Reset)
	pick.Get("/session", pickingHandler.Session)
	pick.Post("/approval", pickingHandler.SubmitApproval)
	pick.Delete("/mismatch", pickingHandler.DiscardMismatch)
	pick.Get("/log", pickingHandler.TodaysLog)
	pick.Post("/revert", pickingHandler.Revert)

	// Solicitudes de aprobación (protegido)
	api.Get("/approvals", pickingHandler.ListApprovals)

	// Sincronizador de órdenes (protegido)
	syncHandler := NewSyncHandler(deps.SyncUC)
	syncGroup := api.Group("/sync")
	syncGroup.Post("/trigger", syncHandler.Trigger)
	syncGroup.Get("/status", syncHandler.Status)

	// Unidades de stock (protegido)
	unitHandler := NewUnitHandler(deps.UnitUC)
	units := api.Group("/units")
	units.Post("/", unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Delete("/:id", unitHandler.Delete)
	units.Patch("/:id/cost", unitHandler.UpdateCost)
}
