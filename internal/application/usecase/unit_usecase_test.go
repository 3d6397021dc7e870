package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdramirez/celustock-api/internal/application/dto"
	"github.com/jdramirez/celustock-api/internal/application/usecase"
	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/pkg/events"
)

// fakeUnitRepo fake en memoria con los mismos contratos que el repositorio
// real: ErrDuplicate en seriales repetidos y (nil, nil) para ausencias.
type fakeUnitRepo struct {
	mu    sync.Mutex
	units map[string]entity.InventoryUnit
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]entity.InventoryUnit)}
}

func (r *fakeUnitRepo) FindBySerial(_ context.Context, serial string) (*entity.InventoryUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.units {
		if u.Serial == serial {
			c := u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id string) (*entity.InventoryUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.units[id]; ok {
		c := u
		return &c, nil
	}
	return nil, nil
}

func (r *fakeUnitRepo) Create(_ context.Context, u *entity.InventoryUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.Serial != "" {
		for _, existing := range r.units {
			if existing.Serial == u.Serial {
				return domain.ErrDuplicate
			}
		}
	}
	r.units[u.ID] = *u
	return nil
}

func (r *fakeUnitRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.units, id)
	return nil
}

func (r *fakeUnitRepo) List(_ context.Context, limit, offset int) ([]entity.InventoryUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.InventoryUnit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUnitRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Cost = cost
	r.units[id] = u
	return nil
}

func TestUnitCreate_SerializadaYGeneral(t *testing.T) {
	repo := newFakeUnitRepo()
	uc := usecase.NewUnitUseCase(repo, events.NewBus())

	serializada, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU:    "SKU-IPH13-128",
		Name:   "iPhone 13 128GB",
		Serial: "SN-A",
		Cost:   decimal.NewFromInt(450),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UnitKindSerialized, serializada.Kind)

	// Sin serial la unidad es general (ítem por cantidad).
	general, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU:  "SKU-FUNDA-13",
		Name: "Funda iPhone 13",
		Cost: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UnitKindGeneral, general.Kind)
}

func TestUnitCreate_PublicaInventarioMutado(t *testing.T) {
	repo := newFakeUnitRepo()
	bus := events.NewBus()
	cambios := bus.Subscribe(events.TopicInventoryChanged)
	uc := usecase.NewUnitUseCase(repo, bus)

	_, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-IPH13-128", Name: "iPhone 13 128GB", Serial: "SN-A",
	})
	require.NoError(t, err)

	select {
	case <-cambios:
	default:
		t.Fatal("el ingreso de una unidad debe publicar el aviso de inventario mutado")
	}
}

func TestUnitCreate_Validaciones(t *testing.T) {
	uc := usecase.NewUnitUseCase(newFakeUnitRepo(), events.NewBus())

	_, err := uc.Create(context.Background(), dto.CreateUnitRequest{Name: "sin sku"})
	assert.Equal(t, domain.ErrInvalidInput, err)

	_, err = uc.Create(context.Background(), dto.CreateUnitRequest{SKU: "SKU-1"})
	assert.Equal(t, domain.ErrInvalidInput, err, "el nombre es obligatorio")

	_, err = uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-1", Name: "x", Cost: decimal.NewFromInt(-1),
	})
	assert.Equal(t, domain.ErrInvalidInput, err, "el costo no puede ser negativo")
}

func TestUnitCreate_SerialDuplicado(t *testing.T) {
	uc := usecase.NewUnitUseCase(newFakeUnitRepo(), events.NewBus())

	_, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-1", Name: "x", Serial: "SN-A",
	})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-2", Name: "y", Serial: "SN-A",
	})
	assert.Equal(t, domain.ErrDuplicate, err,
		"un serial no vacío debe ser único entre las unidades en stock")
}

func TestUnitDelete_BajaManual(t *testing.T) {
	repo := newFakeUnitRepo()
	bus := events.NewBus()
	uc := usecase.NewUnitUseCase(repo, bus)

	creada, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-1", Name: "x", Serial: "SN-A",
	})
	require.NoError(t, err)

	cambios := bus.Subscribe(events.TopicInventoryChanged)
	require.NoError(t, uc.Delete(context.Background(), creada.ID))

	u, err := repo.FindBySerial(context.Background(), "SN-A")
	require.NoError(t, err)
	assert.Nil(t, u)
	select {
	case <-cambios:
	default:
		t.Fatal("la baja manual debe publicar el aviso de inventario mutado")
	}

	assert.Equal(t, domain.ErrNotFound, uc.Delete(context.Background(), creada.ID))
}

func TestUnitUpdateCost_CorrigeEnElLugar(t *testing.T) {
	repo := newFakeUnitRepo()
	uc := usecase.NewUnitUseCase(repo, events.NewBus())

	creada, err := uc.Create(context.Background(), dto.CreateUnitRequest{
		SKU: "SKU-1", Name: "x", Serial: "SN-A", Cost: decimal.NewFromInt(450),
	})
	require.NoError(t, err)

	nuevo := decimal.NewFromInt(430)
	require.NoError(t, uc.UpdateCost(context.Background(), creada.ID, dto.UpdateUnitCostRequest{Cost: nuevo}))

	u, err := repo.GetByID(context.Background(), creada.ID)
	require.NoError(t, err)
	assert.True(t, u.Cost.Equal(nuevo))

	err = uc.UpdateCost(context.Background(), creada.ID, dto.UpdateUnitCostRequest{Cost: decimal.NewFromInt(-1)})
	assert.Equal(t, domain.ErrInvalidInput, err)
	err = uc.UpdateCost(context.Background(), "no-existe", dto.UpdateUnitCostRequest{Cost: nuevo})
	assert.Equal(t, domain.ErrNotFound, err)
}
