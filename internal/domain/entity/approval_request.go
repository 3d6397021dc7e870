package entity

import "time"

// Tipos y estados de solicitudes de aprobación.
const (
	ApprovalTypeSkuMismatch = "SKU_MISMATCH"

	ApprovalStatusPending  = "PENDING"
	ApprovalStatusResolved = "RESOLVED"
)

// ApprovalRequest es una decisión humana pendiente sobre un escaneo que no
// coincidió con el producto esperado de la orden. Crearla nunca muta el
// inventario ni la orden: es salida puramente consultiva, resuelta fuera del
// flujo de picking.
type ApprovalRequest struct {
	ID          string
	Type        string
	Status      string
	RequestedBy string
	CreatedAt   time.Time
	Order       SalesOrder    // snapshot completo de la orden
	Unit        InventoryUnit // snapshot de la unidad escaneada
}
