package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdramirez/celustock-api/internal/application/picking"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// ResolveOrderRequest entrada para resolver una orden por número o código.
type ResolveOrderRequest struct {
	OrderNumber string `json:"order_number"`
}

// ScanRequest entrada para validar un serial escaneado.
type ScanRequest struct {
	Serial string `json:"serial"`
}

// RevertRequest entrada para revertir un registro de picking.
type RevertRequest struct {
	EntryID string `json:"entry_id"`
}

// SalesOrderDTO orden de venta cacheada.
type SalesOrderDTO struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Account  string `json:"account"`
}

// InventoryUnitDTO unidad de stock.
type InventoryUnitDTO struct {
	ID         string          `json:"id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Serial     string          `json:"serial,omitempty"`
	Cost       decimal.Decimal `json:"cost"`
	AcquiredAt time.Time       `json:"acquired_at"`
	Condition  string          `json:"condition"`
	Origin     string          `json:"origin"`
	Category   string          `json:"category"`
	Kind       string          `json:"kind"`
	Manual     bool            `json:"manual"`
}

// MismatchDTO discrepancia pendiente: esperado vs. escaneado.
type MismatchDTO struct {
	ExpectedSKU string           `json:"expected_sku"`
	ScannedUnit InventoryUnitDTO `json:"scanned_unit"`
}

// SessionResponse vista síncrona del estado de la sesión para la UI.
type SessionResponse struct {
	State                string             `json:"state"`
	Order                *SalesOrderDTO     `json:"order,omitempty"`
	Units                []InventoryUnitDTO `json:"units"`
	Scanned              int                `json:"scanned"`
	Required             int                `json:"required"`
	CountdownRemainingMs int64              `json:"countdown_remaining_ms"`
	Mismatch             *MismatchDTO       `json:"mismatch,omitempty"`
	LastError            string             `json:"last_error,omitempty"`
}

// ScanResponse resultado de un escaneo más la vista actualizada de la sesión.
type ScanResponse struct {
	Outcome     string            `json:"outcome"`
	Unit        *InventoryUnitDTO `json:"unit,omitempty"`
	ExpectedSKU string            `json:"expected_sku,omitempty"`
	Session     SessionResponse   `json:"session"`
}

// PickLogEntryDTO registro de una unidad que salió del stock.
type PickLogEntryDTO struct {
	ID        string          `json:"id"`
	OrderCode string          `json:"order_code"`
	PickedAt  time.Time       `json:"picked_at"`
	UnitID    string          `json:"unit_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Serial    string          `json:"serial,omitempty"`
	Cost      decimal.Decimal `json:"cost"`
	Condition string          `json:"condition"`
	Origin    string          `json:"origin"`
	Category  string          `json:"category"`
	Manual    bool            `json:"manual"`
}

// ApprovalRequestDTO solicitud de aprobación por discrepancia.
type ApprovalRequestDTO struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	RequestedBy string           `json:"requested_by"`
	CreatedAt   time.Time        `json:"created_at"`
	Order       SalesOrderDTO    `json:"order"`
	Unit        InventoryUnitDTO `json:"unit"`
}

// SyncStatusResponse estado del sincronizador de órdenes.
type SyncStatusResponse struct {
	LastSync   *time.Time `json:"last_sync,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// ToSalesOrderDTO convierte la entidad a DTO.
func ToSalesOrderDTO(o entity.SalesOrder) SalesOrderDTO {
	return SalesOrderDTO{
		ID:       o.ID,
		Code:     o.Code,
		SKU:      o.SKU,
		Title:    o.Title,
		Quantity: o.Quantity,
		Account:  o.Account,
	}
}

// ToInventoryUnitDTO convierte la entidad a DTO.
func ToInventoryUnitDTO(u entity.InventoryUnit) InventoryUnitDTO {
	return InventoryUnitDTO{
		ID:         u.ID,
		SKU:        u.SKU,
		Name:       u.Name,
		Serial:     u.Serial,
		Cost:       u.Cost,
		AcquiredAt: u.AcquiredAt,
		Condition:  u.Condition,
		Origin:     u.Origin,
		Category:   u.Category,
		Kind:       u.Kind,
		Manual:     u.Manual,
	}
}

// ToPickLogEntryDTO convierte la entidad a DTO.
func ToPickLogEntryDTO(e entity.PickLogEntry) PickLogEntryDTO {
	return PickLogEntryDTO{
		ID:        e.ID,
		OrderCode: e.OrderCode,
		PickedAt:  e.PickedAt,
		UnitID:    e.UnitID,
		SKU:       e.SKU,
		Name:      e.Name,
		Serial:    e.Serial,
		Cost:      e.Cost,
		Condition: e.Condition,
		Origin:    e.Origin,
		Category:  e.Category,
		Manual:    e.Manual,
	}
}

// ToApprovalRequestDTO convierte la entidad a DTO.
func ToApprovalRequestDTO(r entity.ApprovalRequest) ApprovalRequestDTO {
	return ApprovalRequestDTO{
		ID:          r.ID,
		Type:        r.Type,
		Status:      r.Status,
		RequestedBy: r.RequestedBy,
		CreatedAt:   r.CreatedAt,
		Order:       ToSalesOrderDTO(r.Order),
		Unit:        ToInventoryUnitDTO(r.Unit),
	}
}

// ToSessionResponse convierte la vista de sesión a DTO.
func ToSessionResponse(v picking.SessionView) SessionResponse {
	resp := SessionResponse{
		State:                string(v.State),
		Units:                make([]InventoryUnitDTO, 0, len(v.Units)),
		Scanned:              v.Scanned,
		Required:             v.Required,
		CountdownRemainingMs: v.CountdownRemaining.Milliseconds(),
		LastError:            v.LastError,
	}
	if v.Order != nil {
		o := ToSalesOrderDTO(*v.Order)
		resp.Order = &o
	}
	for _, u := range v.Units {
		resp.Units = append(resp.Units, ToInventoryUnitDTO(u))
	}
	if v.Mismatch != nil {
		resp.Mismatch = &MismatchDTO{
			ExpectedSKU: v.Mismatch.ExpectedSKU,
			ScannedUnit: ToInventoryUnitDTO(v.Mismatch.Unit),
		}
	}
	return resp
}
