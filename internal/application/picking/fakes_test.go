package picking_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
)

// Fakes en memoria de los puertos de persistencia. Replican el contrato de los
// repositorios reales: (nil, nil) para ausencias esperadas, ErrDuplicate en
// seriales repetidos y ErrNotFound en borrados sin filas afectadas.

// ── Unidades de stock ─────────────────────────────────────────────────────────

type fakeUnitRepo struct {
	mu    sync.Mutex
	units map[string]entity.InventoryUnit // por ID

	// failDeleteID hace fallar el borrado de esa unidad, para simular un corte
	// a mitad del batch.
	failDeleteID string
	failErr      error
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
	if r.failDeleteID == id && r.failErr != nil {
		return r.failErr
	}
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

func (r *fakeUnitRepo) snapshot() map[string]entity.InventoryUnit {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := make(map[string]entity.InventoryUnit, len(r.units))
	for k, v := range r.units {
		c[k] = v
	}
	return c
}

func (r *fakeUnitRepo) restore(s map[string]entity.InventoryUnit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units = s
}

// ── Órdenes cacheadas ─────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders []entity.SalesOrder
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*entity.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == number || o.Code == number {
			c := o
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListKnownIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.orders))
	for _, o := range r.orders {
		ids = append(ids, o.ID)
	}
	return ids, nil
}

func (r *fakeOrderRepo) Append(_ context.Context, orders []entity.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, orders...)
	return nil
}

// ── Aliases de SKU ────────────────────────────────────────────────────────────

type fakeSkuRepo struct {
	aliases map[string]string // hijo -> padre
}

func (r *fakeSkuRepo) ResolveParent(_ context.Context, childSKU string) (string, error) {
	if parent, ok := r.aliases[childSKU]; ok {
		return parent, nil
	}
	return childSKU, nil
}

// ── Registro de picking ───────────────────────────────────────────────────────

type fakePickLog struct {
	mu      sync.Mutex
	entries map[string]entity.PickLogEntry
}

func newFakePickLog() *fakePickLog {
	return &fakePickLog{entries: make(map[string]entity.PickLogEntry)}
}

func (r *fakePickLog) Create(_ context.Context, e *entity.PickLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = *e
	return nil
}

func (r *fakePickLog) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakePickLog) GetByID(_ context.Context, id string) (*entity.PickLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		c := e
		return &c, nil
	}
	return nil, nil
}

func (r *fakePickLog) ListToday(_ context.Context) ([]entity.PickLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.PickLogEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakePickLog) snapshot() map[string]entity.PickLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := make(map[string]entity.PickLogEntry, len(r.entries))
	for k, v := range r.entries {
		c[k] = v
	}
	return c
}

func (r *fakePickLog) restore(s map[string]entity.PickLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = s
}

// ── Solicitudes de aprobación ─────────────────────────────────────────────────

type fakeApprovalRepo struct {
	mu         sync.Mutex
	reqs       []entity.ApprovalRequest
	failCreate error
}

func (r *fakeApprovalRepo) Create(_ context.Context, req *entity.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.reqs = append(r.reqs, *req)
	return nil
}

func (r *fakeApprovalRepo) ListPending(_ context.Context) ([]entity.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.ApprovalRequest, 0, len(r.reqs))
	for _, req := range r.reqs {
		if req.Status == entity.ApprovalStatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

// ── TxRunner todo-o-nada ──────────────────────────────────────────────────────

// fakeTxRunner replica la semántica transaccional: toma un snapshot de ambos
// stores antes de correr el batch y lo restaura completo si algo falla.
type fakeTxRunner struct {
	log   *fakePickLog
	units *fakeUnitRepo
}

func (tx *fakeTxRunner) Run(_ context.Context, fn func(
	logRepo repository.PickLogRepository,
	unitRepo repository.InventoryUnitRepository,
) error) error {
	logSnap := tx.log.snapshot()
	unitSnap := tx.units.snapshot()
	if err := fn(tx.log, tx.units); err != nil {
		tx.log.restore(logSnap)
		tx.units.restore(unitSnap)
		return err
	}
	return nil
}
