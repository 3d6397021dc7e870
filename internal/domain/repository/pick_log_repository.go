package repository

import (
	"context"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// PickLogRepository define el puerto de persistencia para el registro de picking.
// Las escrituras Create/Delete solo se emiten dentro del batch atómico del
// TxRunner, nunca sueltas: una unidad no puede salir del stock sin su registro.
type PickLogRepository interface {
	Create(ctx context.Context, e *entity.PickLogEntry) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.PickLogEntry, error)
	ListToday(ctx context.Context) ([]entity.PickLogEntry, error)
}
