package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jdramirez/celustock-api/internal/application/dto"
	appsync "github.com/jdramirez/celustock-api/internal/application/sync"
)

// SyncHandler maneja el disparo y estado del sincronizador de órdenes.
type SyncHandler struct {
	uc *appsync.UseCase
}

// NewSyncHandler construye el handler.
func NewSyncHandler(uc *appsync.UseCase) *SyncHandler {
	return &SyncHandler{uc: uc}
}

// Trigger godoc
// @Summary      Disparar una sincronización de órdenes ad-hoc
// @Description  Si ya hay una corrida en vuelo, el disparo se descarta (202 con accepted=false).
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  map[string]bool
// @Router       /api/sync/trigger [post]
func (h *SyncHandler) Trigger(c *fiber.Ctx) error {
	// La corrida es de fondo: el request no espera su resultado y un fallo
	// nunca llega como error al operador. Contexto propio: el del request
	// muere al responder.
	go h.uc.Trigger(context.Background())
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
}

// Status godoc
// @Summary      Estado del sincronizador
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	lastSync, inProgress := h.uc.Status()
	resp := dto.SyncStatusResponse{InProgress: inProgress}
	if !lastSync.IsZero() {
		resp.LastSync = &lastSync
	}
	return c.JSON(resp)
}
