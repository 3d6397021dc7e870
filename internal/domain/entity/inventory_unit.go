package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variantes de unidad: serializada (un equipo físico con serial/IMEI) o
// general (ítem por cantidad, sin serial).
const (
	UnitKindSerialized = "SERIALIZED"
	UnitKindGeneral    = "GENERAL"
)

// InventoryUnit representa una unidad de stock físicamente rastreable.
// El serial, cuando no está vacío, es único entre las unidades en stock.
// Se crea en el ingreso y se destruye al consumirse por un picking confirmado
// o por baja manual; solo el costo admite corrección en el lugar.
type InventoryUnit struct {
	ID         string
	SKU        string
	Name       string
	Serial     string // vacío para unidades generales
	Cost       decimal.Decimal
	AcquiredAt time.Time
	Condition  string // ej. "nuevo", "usado-A", "usado-B"
	Origin     string // ej. "proveedor", "trade-in"
	Category   string
	Kind       string // UnitKindSerialized | UnitKindGeneral
	// Manual marca una unidad creada a mano sin registro de stock que la respalde;
	// queda exenta del borrado al confirmar el picking.
	Manual bool
}
