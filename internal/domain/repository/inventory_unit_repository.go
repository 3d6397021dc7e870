package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// InventoryUnitRepository define el puerto de persistencia para unidades de stock.
type InventoryUnitRepository interface {
	// FindBySerial busca una unidad en stock por su serial. Devuelve (nil, nil)
	// si no existe: la ausencia es un caso esperado, no un error.
	FindBySerial(ctx context.Context, serial string) (*entity.InventoryUnit, error)
	GetByID(ctx context.Context, id string) (*entity.InventoryUnit, error)
	// Create inserta la unidad. Devuelve domain.ErrDuplicate si ya hay una
	// unidad en stock con el mismo serial no vacío.
	Create(ctx context.Context, u *entity.InventoryUnit) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]entity.InventoryUnit, error)
	// UpdateCost es la única mutación en el lugar que admite una unidad.
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
}
