package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNoActiveSession   = errors.New("no hay sesión de picking activa")
	ErrOrderComplete     = errors.New("la orden ya tiene todas las unidades escaneadas")
	ErrCommitInProgress  = errors.New("confirmación de picking en curso")
	ErrNoPendingMismatch = errors.New("no hay discrepancia pendiente")
)
