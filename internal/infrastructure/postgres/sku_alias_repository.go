package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

var _ repository.SkuAliasRepository = (*SkuAliasRepo)(nil)

// SkuAliasRepo implementación de SkuAliasRepository sobre PostgreSQL.
type SkuAliasRepo struct {
	q Querier
}

// NewSkuAliasRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSkuAliasRepository(q Querier) *SkuAliasRepo {
	return &SkuAliasRepo{q: q}
}

// ResolveParent devuelve el SKU padre canónico del hijo. Sin alias registrado,
// el SKU es su propio padre.
func (r *SkuAliasRepo) ResolveParent(ctx context.Context, childSKU string) (string, error) {
	var parent string
	err := r.q.QueryRow(ctx,
		`SELECT parent_sku FROM sku_aliases WHERE child_sku = $1`, childSKU,
	).Scan(&parent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return childSKU, nil
		}
		return "", fmt.Errorf("resolve parent sku: %w", err)
	}
	return parent, nil
}
