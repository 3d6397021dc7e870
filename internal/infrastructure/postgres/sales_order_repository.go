package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository sobre PostgreSQL.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// FindByNumber busca por match exacto contra id o código visible. (nil, nil) si no hay.
func (r *SalesOrderRepo) FindByNumber(ctx context.Context, number string) (*entity.SalesOrder, error) {
	query := `
		SELECT id, code, sku, title, quantity, account, fetched_at
		FROM sales_orders WHERE id = $1 OR code = $1`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, number).Scan(
		&o.ID, &o.Code, &o.SKU, &o.Title, &o.Quantity, &o.Account, &o.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find order by number: %w", err)
	}
	return &o, nil
}

// ListKnownIDs devuelve los identificadores de todas las órdenes cacheadas.
func (r *SalesOrderRepo) ListKnownIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM sales_orders`)
	if err != nil {
		return nil, fmt.Errorf("list known order ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Append inserta solo las órdenes nuevas; una colisión de id se ignora porque
// las órdenes cacheadas nunca se editan en local.
func (r *SalesOrderRepo) Append(ctx context.Context, orders []entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, code, sku, title, quantity, account, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	for _, o := range orders {
		if _, err := r.q.Exec(ctx, query,
			o.ID, o.Code, o.SKU, o.Title, o.Quantity, o.Account, o.FetchedAt,
		); err != nil {
			return fmt.Errorf("append order %s: %w", o.ID, err)
		}
	}
	return nil
}
