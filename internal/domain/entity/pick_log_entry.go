package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PickLogEntry es el registro durable de una unidad que salió del stock.
// Copia los atributos de la unidad al momento del consumo (no los referencia):
// existe si y solo si la unidad correspondiente fue removida del stock por
// este motivo, lo que garantiza el commit atómico.
type PickLogEntry struct {
	ID        string
	OrderCode string
	PickedAt  time.Time

	// Snapshot de la unidad consumida.
	UnitID     string
	SKU        string
	Name       string
	Serial     string
	Cost       decimal.Decimal
	AcquiredAt time.Time
	Condition  string
	Origin     string
	Category   string
	Kind       string
	Manual     bool
}

// NewPickLogEntry construye el registro copiando los atributos de la unidad.
func NewPickLogEntry(id string, u InventoryUnit, orderCode string, pickedAt time.Time) PickLogEntry {
	return PickLogEntry{
		ID:         id,
		OrderCode:  orderCode,
		PickedAt:   pickedAt,
		UnitID:     u.ID,
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

// RestoredUnit reconstruye la unidad desde el snapshot del registro (sin los
// campos del consumo). Es una acción de compensación, no un inverso exacto:
// si la unidad original fue modificada después, aquí solo vive el snapshot.
func (e PickLogEntry) RestoredUnit() InventoryUnit {
	return InventoryUnit{
		ID:         e.UnitID,
		SKU:        e.SKU,
		Name:       e.Name,
		Serial:     e.Serial,
		Cost:       e.Cost,
		AcquiredAt: e.AcquiredAt,
		Condition:  e.Condition,
		Origin:     e.Origin,
		Category:   e.Category,
		Kind:       e.Kind,
		Manual:     e.Manual,
	}
}
