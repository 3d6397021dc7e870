package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdramirez/celustock-api/internal/application/picking"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

// Ensure TxRunner implements picking.TxRunner.
var _ picking.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Es el batch
// atómico del picking: el alta de registros y el borrado de unidades se
// aplican todos o ninguno.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	logRepo repository.PickLogRepository,
	unitRepo repository.InventoryUnitRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	logRepo := NewPickLogRepository(tx)
	unitRepo := NewInventoryUnitRepository(tx)

	if err := fn(logRepo, unitRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
