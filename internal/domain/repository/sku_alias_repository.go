package repository

import "context"

// SkuAliasRepository resuelve el SKU padre canónico de un SKU hijo.
// Un producto del catálogo (padre) puede venderse bajo varios SKUs específicos
// de marketplace (hijos); la verificación de identidad siempre compara contra
// el padre.
type SkuAliasRepository interface {
	// ResolveParent devuelve el SKU padre del hijo. Si no hay alias registrado,
	// devuelve el mismo SKU: un SKU de catálogo es su propio padre.
	ResolveParent(ctx context.Context, childSKU string) (string, error)
}
