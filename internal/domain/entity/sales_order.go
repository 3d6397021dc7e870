package entity

import "time"

// SalesOrder es una orden de venta cacheada desde el canal externo.
// Inmutable una vez cacheada: solo se reemplaza por una nueva descarga del
// sincronizador, nunca se edita parcialmente en local.
type SalesOrder struct {
	ID        string // identificador de la orden en el canal de venta
	Code      string // código visible para el operador (ej. "ORD-100")
	SKU       string // SKU publicado; puede ser hijo de un SKU padre del catálogo
	Title     string
	Quantity  int
	Account   string // cuenta del canal de venta que originó la orden
	FetchedAt time.Time
}
