package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

var _ repository.InventoryUnitRepository = (*InventoryUnitRepo)(nil)

// InventoryUnitRepo implementación de InventoryUnitRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryUnitRepo struct {
	q Querier
}

// NewInventoryUnitRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryUnitRepository(q Querier) *InventoryUnitRepo {
	return &InventoryUnitRepo{q: q}
}

const unitColumns = `id, sku, name, serial, cost, acquired_at, condition, origin, category, kind, manual`

func scanUnit(row pgx.Row) (*entity.InventoryUnit, error) {
	var u entity.InventoryUnit
	err := row.Scan(
		&u.ID, &u.SKU, &u.Name, &u.Serial, &u.Cost, &u.AcquiredAt,
		&u.Condition, &u.Origin, &u.Category, &u.Kind, &u.Manual,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindBySerial busca una unidad en stock por serial. (nil, nil) si no existe.
func (r *InventoryUnitRepo) FindBySerial(ctx context.Context, serial string) (*entity.InventoryUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM inventory_units WHERE serial = $1`
	u, err := scanUnit(r.q.QueryRow(ctx, query, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find unit by serial: %w", err)
	}
	return u, nil
}

// GetByID obtiene una unidad por ID. (nil, nil) si no existe.
func (r *InventoryUnitRepo) GetByID(ctx context.Context, id string) (*entity.InventoryUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM inventory_units WHERE id = $1`
	u, err := scanUnit(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// Create inserta la unidad. El índice único parcial sobre serial garantiza que
// un serial no vacío sea único entre las unidades en stock.
func (r *InventoryUnitRepo) Create(ctx context.Context, u *entity.InventoryUnit) error {
	query := `
		INSERT INTO inventory_units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.SKU, u.Name, u.Serial, u.Cost, u.AcquiredAt,
		u.Condition, u.Origin, u.Category, u.Kind, u.Manual,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Delete remueve la unidad del stock.
func (r *InventoryUnitRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve unidades en stock ordenadas por ingreso descendente.
func (r *InventoryUnitRepo) List(ctx context.Context, limit, offset int) ([]entity.InventoryUnit, error) {
	query := `
		SELECT ` + unitColumns + ` FROM inventory_units
		ORDER BY acquired_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []entity.InventoryUnit
	for rows.Next() {
		var u entity.InventoryUnit
		if err := rows.Scan(
			&u.ID, &u.SKU, &u.Name, &u.Serial, &u.Cost, &u.AcquiredAt,
			&u.Condition, &u.Origin, &u.Category, &u.Kind, &u.Manual,
		); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateCost corrige el costo de la unidad.
func (r *InventoryUnitRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_units SET cost = $2 WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update unit cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
