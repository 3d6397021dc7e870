package repository

import (
	"context"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// ApprovalRequestRepository define el puerto de persistencia para solicitudes
// de aprobación por discrepancia de identidad.
type ApprovalRequestRepository interface {
	Create(ctx context.Context, req *entity.ApprovalRequest) error
	ListPending(ctx context.Context) ([]entity.ApprovalRequest, error)
}
