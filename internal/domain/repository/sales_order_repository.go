package repository

import (
	"context"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia para órdenes cacheadas.
// El sincronizador solo inserta órdenes nuevas; nadie las edita en local.
type SalesOrderRepository interface {
	// FindByNumber busca por match exacto contra el identificador interno o el
	// código visible. Devuelve (nil, nil) si no existe.
	FindByNumber(ctx context.Context, number string) (*entity.SalesOrder, error)
	// ListKnownIDs devuelve los identificadores ya cacheados, para excluirlos
	// de la descarga del sincronizador.
	ListKnownIDs(ctx context.Context) ([]string, error)
	// Append inserta solo las órdenes recibidas (las existentes no se tocan).
	Append(ctx context.Context, orders []entity.SalesOrder) error
}
