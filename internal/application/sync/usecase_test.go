package sync_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jdramirez/celustock-api/internal/application/sync"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/pkg/events"
	"github.com/jdramirez/celustock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

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

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// fakeSource simula la API externa de órdenes. Respeta excludeIDs como el
// cliente real: solo devuelve órdenes que no estén ya cacheadas.
type fakeSource struct {
	mu     sync.Mutex
	orders []entity.SalesOrder
	err    error

	calls   atomic.Int32
	blockOn chan struct{} // si no es nil, la descarga espera a que se cierre
}

func (s *fakeSource) FetchOrders(_ context.Context, _, _ time.Time, excludeIDs map[string]struct{}) ([]entity.SalesOrder, error) {
	s.calls.Add(1)
	if s.blockOn != nil {
		<-s.blockOn
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.SalesOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if _, known := excludeIDs[o.ID]; known {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func newSyncUseCase(repo *fakeOrderRepo, source *fakeSource, bus *events.Bus, interval time.Duration) *appsync.UseCase {
	return appsync.NewUseCase(repo, source, bus, logger.Nop(), interval, 24*time.Hour)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestTrigger_AgregaSoloOrdenesNuevas(t *testing.T) {
	repo := &fakeOrderRepo{}
	source := &fakeSource{orders: []entity.SalesOrder{
		{ID: "2000001", Code: "ORD-100", SKU: "SKU-IPH13-128", Quantity: 2},
		{ID: "2000002", Code: "ORD-101", SKU: "SKU-SAMS22-256", Quantity: 1},
	}}
	uc := newSyncUseCase(repo, source, events.NewBus(), time.Hour)

	require.True(t, uc.Trigger(context.Background()))
	assert.Equal(t, 2, repo.count())

	lastSync, inProgress := uc.Status()
	assert.False(t, lastSync.IsZero(), "una corrida exitosa avanza el marcador")
	assert.False(t, inProgress)

	// Segunda corrida sin órdenes nuevas: idempotente, nada se duplica.
	require.True(t, uc.Trigger(context.Background()))
	assert.Equal(t, 2, repo.count(), "las órdenes ya cacheadas no se reinsertan")
}

func TestTrigger_DescartaDisparoSolapado(t *testing.T) {
	repo := &fakeOrderRepo{}
	source := &fakeSource{blockOn: make(chan struct{})}
	uc := newSyncUseCase(repo, source, events.NewBus(), time.Hour)

	done := make(chan bool, 1)
	go func() { done <- uc.Trigger(context.Background()) }()

	// Esperar a que la primera corrida esté en vuelo.
	require.Eventually(t, func() bool {
		_, inProgress := uc.Status()
		return inProgress
	}, time.Second, time.Millisecond)

	// El disparo solapado se descarta, no se encola.
	assert.False(t, uc.Trigger(context.Background()))
	assert.Equal(t, int32(1), source.calls.Load(), "el disparo descartado no llega a la fuente")

	close(source.blockOn)
	assert.True(t, <-done)
	_, inProgress := uc.Status()
	assert.False(t, inProgress)
}

func TestTrigger_CorridaFallidaNoAvanzaElMarcador(t *testing.T) {
	repo := &fakeOrderRepo{}
	source := &fakeSource{err: errors.New("API caída")}
	uc := newSyncUseCase(repo, source, events.NewBus(), time.Hour)

	// El fallo se registra y se traga: Trigger igual reporta que corrió.
	assert.True(t, uc.Trigger(context.Background()))
	assert.Zero(t, repo.count())

	lastSync, _ := uc.Status()
	assert.True(t, lastSync.IsZero(), "una corrida fallida no puede avanzar el marcador")
}

func TestStart_AvisoDeInventarioDisparaCorrida(t *testing.T) {
	repo := &fakeOrderRepo{}
	source := &fakeSource{orders: []entity.SalesOrder{
		{ID: "2000001", Code: "ORD-100", SKU: "SKU-IPH13-128", Quantity: 2},
	}}
	bus := events.NewBus()
	// Intervalo de una hora: solo el aviso del bus puede disparar la corrida.
	uc := newSyncUseCase(repo, source, bus, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	uc.Start(ctx)

	bus.Publish(events.TopicInventoryChanged)

	require.Eventually(t, func() bool {
		return repo.count() == 1
	}, time.Second, 5*time.Millisecond, "el aviso de inventario mutado debe disparar una corrida")
}
