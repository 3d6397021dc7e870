package picking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
	"github.com/jdramirez/celustock-api/internal/domain/repository"
	"github.com/jdramirez/celustock-api/pkg/events"
	"github.com/jdramirez/celustock-api/pkg/logger"
)

// UseCase orquesta el flujo completo de picking: resolución de órdenes,
// validación de escaneos, escalamiento de discrepancias y commit/revert
// atómicos. Mantiene una sesión viva por operador.
type UseCase struct {
	orders    repository.SalesOrderRepository
	units     repository.InventoryUnitRepository
	skus      repository.SkuAliasRepository
	approvals repository.ApprovalRequestRepository
	pickLog   repository.PickLogRepository
	txRunner  TxRunner
	bus       *events.Bus
	log       *logger.Logger

	// autoSubmitDelay en 0 = modo manual: sin cuenta regresiva.
	autoSubmitDelay time.Duration

	mu       sync.Mutex
	sessions map[string]*Session // por operador
}

// NewUseCase construye el caso de uso de picking.
func NewUseCase(
	orders repository.SalesOrderRepository,
	units repository.InventoryUnitRepository,
	skus repository.SkuAliasRepository,
	approvals repository.ApprovalRequestRepository,
	pickLog repository.PickLogRepository,
	txRunner TxRunner,
	bus *events.Bus,
	log *logger.Logger,
	autoSubmitDelay time.Duration,
) *UseCase {
	return &UseCase{
		orders:          orders,
		units:           units,
		skus:            skus,
		approvals:       approvals,
		pickLog:         pickLog,
		txRunner:        txRunner,
		bus:             bus,
		log:             log,
		autoSubmitDelay: autoSubmitDelay,
		sessions:        make(map[string]*Session),
	}
}

// session devuelve la sesión del operador, creándola si no existe.
func (uc *UseCase) session(operator string) *Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.sessions[operator]
	if !ok {
		s = NewSession()
		uc.sessions[operator] = s
	}
	return s
}

// activeSession devuelve la sesión del operador solo si tiene una orden resuelta.
func (uc *UseCase) activeSession(operator string) (*Session, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[operator]
	uc.mu.Unlock()
	if !ok || s.Order() == nil {
		return nil, domain.ErrNoActiveSession
	}
	return s, nil
}

// ResolveOrder busca la orden cacheada por identificador interno o código
// visible y arranca la sesión del operador. La ausencia es un caso esperado
// (ErrNotFound), no un defecto; el remedio documentado para una orden que aún
// no está en caché es disparar el sincronizador, no reintentar en bucle.
func (uc *UseCase) ResolveOrder(ctx context.Context, operator, number string) (SessionView, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return SessionView{}, domain.ErrInvalidInput
	}

	order, err := uc.orders.FindByNumber(ctx, number)
	if err != nil {
		return SessionView{}, fmt.Errorf("buscar orden %q: %w", number, err)
	}
	if order == nil {
		return SessionView{}, domain.ErrNotFound
	}
	// Cantidad pedida 0 o negativa: error de validación aquí, no un
	// comportamiento silencioso aguas abajo.
	if order.Quantity <= 0 {
		uc.log.Warn().Str("orden", order.Code).Int("cantidad", order.Quantity).
			Msg("orden con cantidad pedida inválida")
		return SessionView{}, domain.ErrInvalidInput
	}

	s := uc.session(operator)
	if err := s.Resolve(*order); err != nil {
		return SessionView{}, err
	}
	return s.View(), nil
}

// maybeStartCountdown arma la cuenta regresiva de auto-confirmación si está
// configurada y la sesión acaba de quedar lista para confirmar.
func (uc *UseCase) maybeStartCountdown(s *Session) {
	if uc.autoSubmitDelay <= 0 {
		return
	}
	if err := s.StartCountdown(uc.autoSubmitDelay, func() {
		// El timer corre fuera de cualquier request; el commit no es cancelable
		// una vez despachado, así que usa un contexto propio.
		if err := uc.performCommit(context.Background(), s); err != nil {
			uc.log.Error().Err(err).Msg("auto-confirmación de picking fallida")
		}
	}); err != nil && err != domain.ErrConflict {
		uc.log.Warn().Err(err).Msg("no se pudo armar la cuenta regresiva")
	}
}

// Confirm confirma el picking explícitamente (o reintenta tras un error).
func (uc *UseCase) Confirm(ctx context.Context, operator string) (SessionView, error) {
	s, err := uc.activeSession(operator)
	if err != nil {
		return SessionView{}, err
	}
	if err := s.BeginCommit(); err != nil {
		return s.View(), err
	}
	if err := uc.performCommit(ctx, s); err != nil {
		return s.View(), err
	}
	return s.View(), nil
}

// performCommit ejecuta el batch atómico: por cada unidad escaneada inserta su
// registro de picking y borra la unidad del stock (las unidades manuales no
// tienen registro de stock que borrar). Espera la sesión ya en committing.
func (uc *UseCase) performCommit(ctx context.Context, s *Session) error {
	order, units, err := s.CommitPayload()
	if err != nil {
		return err
	}

	// La puerta de igualdad exacta vive en la máquina de estados; llegar aquí
	// con otro conteo es un defecto y debe fallar ruidosamente.
	if len(units) != order.Quantity {
		err := fmt.Errorf("picking: %d unidades escaneadas frente a %d pedidas en la orden %s",
			len(units), order.Quantity, order.Code)
		uc.log.Error().Err(err).Msg("invariante de cantidad rota al confirmar")
		s.FinishCommit(err)
		return err
	}

	now := time.Now()
	entries := make([]entity.PickLogEntry, 0, len(units))
	for _, u := range units {
		entries = append(entries, entity.NewPickLogEntry(uuid.New().String(), u, order.Code, now))
	}

	err = uc.txRunner.Run(ctx, func(
		logRepo repository.PickLogRepository,
		unitRepo repository.InventoryUnitRepository,
	) error {
		for i := range entries {
			if err := logRepo.Create(ctx, &entries[i]); err != nil {
				return err
			}
			if !units[i].Manual {
				if err := unitRepo.Delete(ctx, units[i].ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	s.FinishCommit(err)
	if err != nil {
		uc.log.Error().Err(err).Str("orden", order.Code).Msg("commit de picking fallido")
		return fmt.Errorf("confirmar picking de %s: %w", order.Code, err)
	}

	uc.bus.Publish(events.TopicInventoryChanged)
	uc.bus.Publish(events.TopicPickCommitted)
	uc.log.Info().Str("orden", order.Code).Int("unidades", len(units)).Msg("picking confirmado")
	return nil
}

// CancelCountdown cancela la cuenta regresiva del operador. Idempotente.
func (uc *UseCase) CancelCountdown(operator string) (SessionView, error) {
	s, err := uc.activeSession(operator)
	if err != nil {
		return SessionView{}, err
	}
	s.CancelCountdown()
	return s.View(), nil
}

// Reset descarta la sesión del operador (salvo con un commit en vuelo).
func (uc *UseCase) Reset(operator string) error {
	uc.mu.Lock()
	s, ok := uc.sessions[operator]
	uc.mu.Unlock()
	if !ok {
		return nil
	}
	return s.Reset()
}

// View devuelve la vista síncrona de la sesión del operador.
func (uc *UseCase) View(operator string) SessionView {
	return uc.session(operator).View()
}

// SubmitApproval eleva la discrepancia pendiente como solicitud de aprobación
// con los snapshots completos de orden y unidad. No agrega la unidad a la
// sesión; si la persistencia falla, la sesión queda intacta (la discrepancia
// sigue pendiente para reintentar).
func (uc *UseCase) SubmitApproval(ctx context.Context, operator string) (*entity.ApprovalRequest, error) {
	s, err := uc.activeSession(operator)
	if err != nil {
		return nil, err
	}
	m := s.Mismatch()
	if m == nil {
		return nil, domain.ErrNoPendingMismatch
	}
	order := s.Order()
	if order == nil {
		return nil, domain.ErrNoActiveSession
	}

	req := &entity.ApprovalRequest{
		ID:          uuid.New().String(),
		Type:        entity.ApprovalTypeSkuMismatch,
		Status:      entity.ApprovalStatusPending,
		RequestedBy: operator,
		CreatedAt:   time.Now(),
		Order:       *order,
		Unit:        m.Unit,
	}
	if err := uc.approvals.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("crear solicitud de aprobación: %w", err)
	}
	s.ClearMismatch()
	uc.log.Info().Str("orden", order.Code).Str("serial", m.Unit.Serial).
		Str("solicitante", operator).Msg("discrepancia elevada a aprobación")
	return req, nil
}

// DiscardMismatch descarta la discrepancia pendiente sin ningún otro cambio.
func (uc *UseCase) DiscardMismatch(operator string) error {
	s, err := uc.activeSession(operator)
	if err != nil {
		return err
	}
	s.ClearMismatch()
	return nil
}

// TodaysLog devuelve el registro de picking del día.
func (uc *UseCase) TodaysLog(ctx context.Context) ([]entity.PickLogEntry, error) {
	return uc.pickLog.ListToday(ctx)
}

// ListPendingApprovals devuelve las solicitudes de aprobación pendientes.
func (uc *UseCase) ListPendingApprovals(ctx context.Context) ([]entity.ApprovalRequest, error) {
	return uc.approvals.ListPending(ctx)
}

// Revert deshace un registro de picking en un batch atómico: borra el registro
// y recrea la unidad desde el snapshot copiado. Es compensación, no inverso
// exacto, y puede invocarse en cualquier momento posterior al commit.
func (uc *UseCase) Revert(ctx context.Context, entryID string) error {
	entry, err := uc.pickLog.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("buscar registro %q: %w", entryID, err)
	}
	if entry == nil {
		return domain.ErrNotFound
	}

	err = uc.txRunner.Run(ctx, func(
		logRepo repository.PickLogRepository,
		unitRepo repository.InventoryUnitRepository,
	) error {
		if err := logRepo.Delete(ctx, entry.ID); err != nil {
			return err
		}
		// Una unidad manual no tenía registro de stock: no hay nada que recrear.
		if entry.Manual {
			return nil
		}
		unit := entry.RestoredUnit()
		return unitRepo.Create(ctx, &unit)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("registro", entryID).Msg("revert de picking fallido")
		return fmt.Errorf("revertir picking %s: %w", entryID, err)
	}

	uc.bus.Publish(events.TopicInventoryChanged)
	uc.log.Info().Str("registro", entryID).Str("orden", entry.OrderCode).Msg("picking revertido")
	return nil
}
