package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

var _ repository.PickLogRepository = (*PickLogRepo)(nil)

// PickLogRepo implementación de PickLogRepository sobre PostgreSQL
// (usable con pool o tx; dentro del TxRunner para el batch atómico).
type PickLogRepo struct {
	q Querier
}

// NewPickLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPickLogRepository(q Querier) *PickLogRepo {
	return &PickLogRepo{q: q}
}

const pickLogColumns = `id, order_code, picked_at, unit_id, sku, name, serial, cost,
	acquired_at, condition, origin, category, kind, manual`

// Create inserta el registro de picking con el snapshot de la unidad.
func (r *PickLogRepo) Create(ctx context.Context, e *entity.PickLogEntry) error {
	query := `
		INSERT INTO pick_log (` + pickLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.OrderCode, e.PickedAt, e.UnitID, e.SKU, e.Name, e.Serial, e.Cost,
		e.AcquiredAt, e.Condition, e.Origin, e.Category, e.Kind, e.Manual,
	)
	if err != nil {
		return fmt.Errorf("create pick log entry: %w", err)
	}
	return nil
}

// Delete borra el registro (parte del batch de revert).
func (r *PickLogRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pick_log WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pick log entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un registro por ID. (nil, nil) si no existe.
func (r *PickLogRepo) GetByID(ctx context.Context, id string) (*entity.PickLogEntry, error) {
	query := `SELECT ` + pickLogColumns + ` FROM pick_log WHERE id = $1`
	var e entity.PickLogEntry
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.OrderCode, &e.PickedAt, &e.UnitID, &e.SKU, &e.Name, &e.Serial, &e.Cost,
		&e.AcquiredAt, &e.Condition, &e.Origin, &e.Category, &e.Kind, &e.Manual,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pick log entry: %w", err)
	}
	return &e, nil
}

// ListToday devuelve los registros del día actual, más recientes primero.
func (r *PickLogRepo) ListToday(ctx context.Context) ([]entity.PickLogEntry, error) {
	query := `
		SELECT ` + pickLogColumns + ` FROM pick_log
		WHERE picked_at >= date_trunc('day', now())
		ORDER BY picked_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list today's pick log: %w", err)
	}
	defer rows.Close()

	var entries []entity.PickLogEntry
	for rows.Next() {
		var e entity.PickLogEntry
		if err := rows.Scan(
			&e.ID, &e.OrderCode, &e.PickedAt, &e.UnitID, &e.SKU, &e.Name, &e.Serial, &e.Cost,
			&e.AcquiredAt, &e.Condition, &e.Origin, &e.Category, &e.Kind, &e.Manual,
		); err != nil {
			return nil, fmt.Errorf("scan pick log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
