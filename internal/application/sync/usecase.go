package sync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
	"github.com/jdramirez/celustock-api/pkg/events"
	"github.com/jdramirez/celustock-api/pkg/logger"
)

// OrderSource define el puerto hacia la API externa de órdenes. Devuelve solo
// las órdenes del rango que no estén en excludeIDs.
type OrderSource interface {
	FetchOrders(ctx context.Context, from, to time.Time, excludeIDs map[string]struct{}) ([]entity.SalesOrder, error)
}

// UseCase mantiene caliente la caché local de órdenes: corre en un intervalo
// fijo y ante disparos ad-hoc (endpoint de trigger, aviso de inventario
// mutado). A lo sumo una corrida en vuelo: un disparo que llega con otra
// corrida activa se descarta, no se encola; el próximo tick programado
// levanta lo que haya quedado.
type UseCase struct {
	orders repository.SalesOrderRepository
	source OrderSource
	bus    *events.Bus
	log    *logger.Logger

	interval time.Duration
	window   time.Duration

	inFlight atomic.Bool

	mu       sync.Mutex
	lastSync time.Time
}

// NewUseCase construye el sincronizador.
func NewUseCase(
	orders repository.SalesOrderRepository,
	source OrderSource,
	bus *events.Bus,
	log *logger.Logger,
	interval, window time.Duration,
) *UseCase {
	return &UseCase{
		orders:   orders,
		source:   source,
		bus:      bus,
		log:      log,
		interval: interval,
		window:   window,
	}
}

// Start lanza el loop de sincronización hasta que el contexto se cancele.
// Escucha el tick programado y el aviso de inventario mutado del bus.
func (uc *UseCase) Start(ctx context.Context) {
	changed := uc.bus.Subscribe(events.TopicInventoryChanged)
	go func() {
		ticker := time.NewTicker(uc.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				uc.Trigger(ctx)
			case <-changed:
				uc.Trigger(ctx)
			}
		}
	}()
}

// Trigger dispara una corrida ad-hoc. Devuelve false si se descartó por haber
// otra corrida en vuelo. Una corrida fallida se registra y se traga: nunca es
// un error de cara al usuario para una acción automática de fondo.
func (uc *UseCase) Trigger(ctx context.Context) bool {
	if !uc.inFlight.CompareAndSwap(false, true) {
		uc.log.Debug().Msg("sincronización ya en curso; disparo descartado")
		return false
	}
	defer uc.inFlight.Store(false)

	if err := uc.runOnce(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("sincronización de órdenes fallida")
		return true
	}
	return true
}

// runOnce trae las órdenes de la ventana configurada, excluyendo las ya
// cacheadas, y agrega solo las nuevas. El marcador de última sincronización
// solo avanza con una corrida exitosa.
func (uc *UseCase) runOnce(ctx context.Context) error {
	known, err := uc.orders.ListKnownIDs(ctx)
	if err != nil {
		return fmt.Errorf("listar órdenes conocidas: %w", err)
	}
	exclude := make(map[string]struct{}, len(known))
	for _, id := range known {
		exclude[id] = struct{}{}
	}

	now := time.Now()
	fetched, err := uc.source.FetchOrders(ctx, now.Add(-uc.window), now, exclude)
	if err != nil {
		return fmt.Errorf("descargar órdenes: %w", err)
	}

	if len(fetched) > 0 {
		if err := uc.orders.Append(ctx, fetched); err != nil {
			return fmt.Errorf("guardar órdenes nuevas: %w", err)
		}
		uc.log.Info().Int("nuevas", len(fetched)).Msg("órdenes sincronizadas")
	}

	uc.mu.Lock()
	uc.lastSync = now
	uc.mu.Unlock()
	return nil
}

// Status devuelve la última sincronización exitosa y si hay una corrida en vuelo.
func (uc *UseCase) Status() (lastSync time.Time, inProgress bool) {
	uc.mu.Lock()
	lastSync = uc.lastSync
	uc.mu.Unlock()
	return lastSync, uc.inFlight.Load()
}
