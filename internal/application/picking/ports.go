package picking

import (
	"context"

	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza el batch todo-o-nada del commit y
// del revert: o se aplican todas las escrituras o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		logRepo repository.PickLogRepository,
		unitRepo repository.InventoryUnitRepository,
	) error) error
}
