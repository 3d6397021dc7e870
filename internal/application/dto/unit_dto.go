package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest entrada para el ingreso de una unidad al stock.
type CreateUnitRequest struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Serial     string          `json:"serial"`
	Cost       decimal.Decimal `json:"cost"`
	AcquiredAt *time.Time      `json:"acquired_at"`
	Condition  string          `json:"condition"`
	Origin     string          `json:"origin"`
	Category   string          `json:"category"`
	Manual     bool            `json:"manual"`
}

// UpdateUnitCostRequest corrección de costo (única mutación en el lugar).
type UpdateUnitCostRequest struct {
	Cost decimal.Decimal `json:"cost"`
}
