package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdramirez/celustock-api/internal/application/dto"
	"github.com/jdramirez/celustock-api/internal/application/picking"
	"github.com/jdramirez/celustock-api/internal/domain"
)

// PickingHandler maneja las peticiones HTTP del flujo de picking (protegido).
type PickingHandler struct {
	uc *picking.UseCase
}

// NewPickingHandler construye el handler.
func NewPickingHandler(uc *picking.UseCase) *PickingHandler {
	return &PickingHandler{uc: uc}
}

// pickingError mapea errores de dominio del flujo de picking a respuestas HTTP.
func pickingError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrNoActiveSession:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "no hay sesión de picking activa"})
	case domain.ErrOrderComplete:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ORDER_COMPLETE", Message: "la orden ya tiene todas las unidades escaneadas"})
	case domain.ErrCommitInProgress:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "COMMIT_IN_PROGRESS", Message: "confirmación en curso"})
	case domain.ErrNoPendingMismatch:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_MISMATCH", Message: "no hay discrepancia pendiente"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "estado de sesión inválido para la operación"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// ResolveOrder godoc
// @Summary      Resolver una orden por número o código
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResolveOrderRequest  true  "order_number"
// @Success      200  {object}  dto.SessionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/picking/resolve [post]
func (h *PickingHandler) ResolveOrder(c *fiber.Ctx) error {
	var in dto.ResolveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	view, err := h.uc.ResolveOrder(c.Context(), GetUserID(c), in.OrderNumber)
	if err != nil {
		return pickingError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(view))
}

// Scan godoc
// @Summary      Validar un serial escaneado contra la orden activa
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "serial"
// @Success      200  {object}  dto.ScanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/scan [post]
func (h *PickingHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	operator := GetUserID(c)
	result, err := h.uc.Scan(c.Context(), operator, in.Serial)
	if err != nil {
		return pickingError(c, err)
	}
	resp := dto.ScanResponse{
		Outcome:     string(result.Outcome),
		ExpectedSKU: result.ExpectedSKU,
		Session:     dto.ToSessionResponse(h.uc.View(operator)),
	}
	if result.Unit != nil {
		u := dto.ToInventoryUnitDTO(*result.Unit)
		resp.Unit = &u
	}
	return c.JSON(resp)
}

// Confirm godoc
// @Summary      Confirmar el picking (commit atómico)
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/picking/confirm [post]
func (h *PickingHandler) Confirm(c *fiber.Ctx) error {
	view, err := h.uc.Confirm(c.Context(), GetUserID(c))
	if err != nil {
		switch err {
		case domain.ErrNoActiveSession, domain.ErrCommitInProgress, domain.ErrConflict:
			return pickingError(c, err)
		}
		// El commit falló pero la sesión conserva lo escaneado para reintentar.
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "COMMIT_FAILED", Message: err.Error()})
	}
	return c.JSON(dto.ToSessionResponse(view))
}

// CancelCountdown godoc
// @Summary      Cancelar la cuenta regresiva de auto-confirmación
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/countdown/cancel [post]
func (h *PickingHandler) CancelCountdown(c *fiber.Ctx) error {
	view, err := h.uc.CancelCountdown(GetUserID(c))
	if err != nil {
		return pickingError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(view))
}

// Reset godoc
// @Summary      Descartar la sesión de picking
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/reset [post]
func (h *PickingHandler) Reset(c *fiber.Ctx) error {
	operator := GetUserID(c)
	if err := h.uc.Reset(operator); err != nil {
		return pickingError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(h.uc.View(operator)))
}

// Session godoc
// @Summary      Vista del estado actual de la sesión
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/picking/session [get]
func (h *PickingHandler) Session(c *fiber.Ctx) error {
	return c.JSON(dto.ToSessionResponse(h.uc.View(GetUserID(c))))
}

// SubmitApproval godoc
// @Summary      Elevar la discrepancia pendiente a solicitud de aprobación
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.ApprovalRequestDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/picking/approval [post]
func (h *PickingHandler) SubmitApproval(c *fiber.Ctx) error {
	req, err := h.uc.SubmitApproval(c.Context(), GetUserID(c))
	if err != nil {
		return pickingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToApprovalRequestDTO(*req))
}

// DiscardMismatch godoc
// @Summary      Descartar la discrepancia pendiente
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/picking/mismatch [delete]
func (h *PickingHandler) DiscardMismatch(c *fiber.Ctx) error {
	operator := GetUserID(c)
	if err := h.uc.DiscardMismatch(operator); err != nil {
		return pickingError(c, err)
	}
	return c.JSON(dto.ToSessionResponse(h.uc.View(operator)))
}

// TodaysLog godoc
// @Summary      Registro de picking del día
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PickLogEntryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/picking/log [get]
func (h *PickingHandler) TodaysLog(c *fiber.Ctx) error {
	entries, err := h.uc.TodaysLog(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PickLogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToPickLogEntryDTO(e))
	}
	return c.JSON(out)
}

// Revert godoc
// @Summary      Revertir un registro de picking (compensación)
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RevertRequest  true  "entry_id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/picking/revert [post]
func (h *PickingHandler) Revert(c *fiber.Ctx) error {
	var in dto.RevertRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.EntryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "entry_id requerido"})
	}
	if err := h.uc.Revert(c.Context(), in.EntryID); err != nil {
		if err == domain.ErrNotFound {
			return pickingError(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "REVERT_FAILED", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "picking revertido"})
}

// ListApprovals godoc
// @Summary      Solicitudes de aprobación pendientes
// @Tags         picking
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ApprovalRequestDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/approvals [get]
func (h *PickingHandler) ListApprovals(c *fiber.Ctx) error {
	reqs, err := h.uc.ListPendingApprovals(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ApprovalRequestDTO, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, dto.ToApprovalRequestDTO(r))
	}
	return c.JSON(out)
}
