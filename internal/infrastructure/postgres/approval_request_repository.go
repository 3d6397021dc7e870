package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

var _ repository.ApprovalRequestRepository = (*ApprovalRequestRepo)(nil)

// ApprovalRequestRepo implementación de ApprovalRequestRepository sobre
// PostgreSQL. Los snapshots de orden y unidad se guardan como JSONB: son
// copias consultivas, no referencias a filas vivas.
type ApprovalRequestRepo struct {
	q Querier
}

// NewApprovalRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRequestRepository(q Querier) *ApprovalRequestRepo {
	return &ApprovalRequestRepo{q: q}
}

// Create inserta la solicitud con los snapshots serializados.
func (r *ApprovalRequestRepo) Create(ctx context.Context, req *entity.ApprovalRequest) error {
	orderJSON, err := json.Marshal(req.Order)
	if err != nil {
		return fmt.Errorf("marshal order snapshot: %w", err)
	}
	unitJSON, err := json.Marshal(req.Unit)
	if err != nil {
		return fmt.Errorf("marshal unit snapshot: %w", err)
	}
	query := `
		INSERT INTO approval_requests (id, type, status, requested_by, created_at, order_snapshot, unit_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		req.ID, req.Type, req.Status, req.RequestedBy, req.CreatedAt, orderJSON, unitJSON,
	)
	if err != nil {
		return fmt.Errorf("create approval request: %w", err)
	}
	return nil
}

// ListPending devuelve las solicitudes pendientes, más antiguas primero.
func (r *ApprovalRequestRepo) ListPending(ctx context.Context) ([]entity.ApprovalRequest, error) {
	query := `
		SELECT id, type, status, requested_by, created_at, order_snapshot, unit_snapshot
		FROM approval_requests
		WHERE status = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, entity.ApprovalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending approvals: %w", err)
	}
	defer rows.Close()

	var reqs []entity.ApprovalRequest
	for rows.Next() {
		var req entity.ApprovalRequest
		var orderJSON, unitJSON []byte
		if err := rows.Scan(
			&req.ID, &req.Type, &req.Status, &req.RequestedBy, &req.CreatedAt, &orderJSON, &unitJSON,
		); err != nil {
			return nil, fmt.Errorf("scan approval request: %w", err)
		}
		if err := json.Unmarshal(orderJSON, &req.Order); err != nil {
			return nil, fmt.Errorf("unmarshal order snapshot: %w", err)
		}
		if err := json.Unmarshal(unitJSON, &req.Unit); err != nil {
			return nil, fmt.Errorf("unmarshal unit snapshot: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
