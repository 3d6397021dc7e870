package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jdramirez/celustock-api/internal/application/dto"
	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
	"github.com/jdramirez/celustock-api/pkg/events"
)

// UnitUseCase ciclo de vida de unidades de stock alrededor del picking:
// ingreso, listado, baja manual y corrección de costo. Cada mutación publica
// el aviso de inventario mutado para el sincronizador y las vistas abiertas.
type UnitUseCase struct {
	repo repository.InventoryUnitRepository
	bus  *events.Bus
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.InventoryUnitRepository, bus *events.Bus) *UnitUseCase {
	return &UnitUseCase{repo: repo, bus: bus}
}

// Create ingresa una unidad al stock. Un serial no vacío debe ser único entre
// las unidades en stock (el repositorio devuelve ErrDuplicate si ya existe).
func (uc *UnitUseCase) Create(ctx context.Context, in dto.CreateUnitRequest) (*dto.InventoryUnitDTO, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Serial = strings.TrimSpace(in.Serial)
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	kind := entity.UnitKindSerialized
	if in.Serial == "" {
		kind = entity.UnitKindGeneral
	}
	acquiredAt := time.Now()
	if in.AcquiredAt != nil {
		acquiredAt = *in.AcquiredAt
	}

	unit := &entity.InventoryUnit{
		ID:         uuid.New().String(),
		SKU:        in.SKU,
		Name:       in.Name,
		Serial:     in.Serial,
		Cost:       in.Cost,
		AcquiredAt: acquiredAt,
		Condition:  in.Condition,
		Origin:     in.Origin,
		Category:   in.Category,
		Kind:       kind,
		Manual:     in.Manual,
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	uc.bus.Publish(events.TopicInventoryChanged)

	out := dto.ToInventoryUnitDTO(*unit)
	return &out, nil
}

// List devuelve unidades en stock con paginación.
func (uc *UnitUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.InventoryUnitDTO, error) {
	page.DefaultPage()
	units, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryUnitDTO, 0, len(units))
	for _, u := range units {
		out = append(out, dto.ToInventoryUnitDTO(u))
	}
	return out, nil
}

// Delete da de baja una unidad manualmente.
func (uc *UnitUseCase) Delete(ctx context.Context, id string) error {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.bus.Publish(events.TopicInventoryChanged)
	return nil
}

// UpdateCost corrige el costo de una unidad, la única mutación en el lugar
// que admite el modelo.
func (uc *UnitUseCase) UpdateCost(ctx context.Context, id string, in dto.UpdateUnitCostRequest) error {
	if in.Cost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	return uc.repo.UpdateCost(ctx, id, in.Cost)
}
