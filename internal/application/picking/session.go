package picking

import (
	"sync"
	"time"

	"github.com/jdramirez/celustock-api/internal/domain"
	"github.com/jdramirez/celustock-api/internal/domain/entity"
)

// SessionState es el estado de la máquina de la sesión de picking.
type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateOrderResolved    SessionState = "order_resolved"
	StateScanning         SessionState = "scanning"
	StateReadyToCommit    SessionState = "ready_to_commit"
	StateCountdownPending SessionState = "countdown_pending"
	StateCommitting       SessionState = "committing"
	StateError            SessionState = "error"
)

// Mismatch es la discrepancia pendiente entre la unidad escaneada y el
// producto esperado de la orden. Queda en la sesión hasta que el operador la
// descarta o la eleva como solicitud de aprobación.
type Mismatch struct {
	Unit        entity.InventoryUnit
	ExpectedSKU string
}

// Session es el estado vivo de la interacción de un operador: orden resuelta,
// unidades escaneadas en orden de llegada, cuenta regresiva opcional y flag de
// commit en vuelo. No se persiste; se descarta al confirmar, cancelar o
// resetear. El mutex la protege frente al callback del timer y a las lecturas
// de vista concurrentes.
type Session struct {
	mu sync.Mutex

	state    SessionState
	order    *entity.SalesOrder
	units    []entity.InventoryUnit
	mismatch *Mismatch

	// La cuenta regresiva es un handle explícito cancelable, propiedad de la
	// sesión. countdownGen invalida callbacks de timers ya cancelados.
	countdown     *time.Timer
	countdownEnds time.Time
	countdownGen  int

	lastError string
}

// NewSession crea una sesión en estado idle.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Resolve fija la orden y pasa la sesión a order_resolved, descartando
// cualquier escaneo previo. Rechazada mientras hay un commit en vuelo.
func (s *Session) Resolve(order entity.SalesOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCommitting {
		return domain.ErrCommitInProgress
	}
	s.stopCountdownLocked()
	s.order = &order
	s.units = nil
	s.mismatch = nil
	s.lastError = ""
	s.state = StateOrderResolved
	return nil
}

// Order devuelve una copia de la orden resuelta, o nil si no hay.
func (s *Session) Order() *entity.SalesOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	o := *s.order
	return &o
}

// EnsureScannable valida que la sesión acepte un nuevo escaneo.
func (s *Session) EnsureScannable() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureScannableLocked()
}

func (s *Session) ensureScannableLocked() error {
	switch s.state {
	case StateOrderResolved, StateScanning:
		return nil
	case StateIdle:
		return domain.ErrNoActiveSession
	case StateCommitting:
		return domain.ErrCommitInProgress
	case StateReadyToCommit, StateCountdownPending:
		// La cantidad pedida ya se alcanzó: escaneos adicionales se rechazan,
		// nunca se aceptan de más.
		return domain.ErrOrderComplete
	default:
		return domain.ErrConflict
	}
}

// HasSerial indica si el serial ya está en el conjunto escaneado.
func (s *Session) HasSerial(serial string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		if u.Serial == serial {
			return true
		}
	}
	return false
}

// AddUnit agrega una unidad aceptada al conjunto escaneado. Pasa a scanning,
// o a ready_to_commit cuando el conteo iguala exactamente la cantidad pedida
// (la igualdad exacta es la única puerta hacia el commit).
func (s *Session) AddUnit(u entity.InventoryUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureScannableLocked(); err != nil {
		return err
	}
	for _, existing := range s.units {
		if existing.Serial == u.Serial {
			return domain.ErrDuplicate
		}
	}
	s.units = append(s.units, u)
	if len(s.units) == s.order.Quantity {
		s.state = StateReadyToCommit
	} else {
		s.state = StateScanning
	}
	return nil
}

// SetMismatch guarda la discrepancia pendiente. No toca el conjunto escaneado.
func (s *Session) SetMismatch(m Mismatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mismatch = &m
}

// Mismatch devuelve una copia de la discrepancia pendiente, o nil.
func (s *Session) Mismatch() *Mismatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mismatch == nil {
		return nil
	}
	m := *s.mismatch
	return &m
}

// ClearMismatch descarta la discrepancia pendiente sin otro cambio de estado.
func (s *Session) ClearMismatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mismatch = nil
}

// StartCountdown arma la cuenta regresiva de auto-confirmación desde
// ready_to_commit. Al expirar, si nadie la canceló, la sesión pasa a
// committing y se invoca commit.
func (s *Session) StartCountdown(d time.Duration, commit func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReadyToCommit {
		return domain.ErrConflict
	}
	s.state = StateCountdownPending
	s.countdownGen++
	gen := s.countdownGen
	s.countdownEnds = time.Now().Add(d)
	s.countdown = time.AfterFunc(d, func() {
		if s.expireCountdown(gen) {
			commit()
		}
	})
	return nil
}

// expireCountdown valida que la cuenta regresiva siga vigente y pasa la sesión
// a committing. Devuelve false si fue cancelada o reemplazada antes de expirar.
func (s *Session) expireCountdown(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countdownGen != gen || s.state != StateCountdownPending {
		return false
	}
	s.countdown = nil
	s.state = StateCommitting
	return true
}

// CancelCountdown cancela la cuenta regresiva y vuelve a ready_to_commit.
// Idempotente: sin cuenta regresiva activa no hace nada. No afecta el
// conjunto escaneado.
func (s *Session) CancelCountdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCountdownPending {
		return
	}
	s.stopCountdownLocked()
	s.state = StateReadyToCommit
}

func (s *Session) stopCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	s.countdownGen++ // invalida cualquier callback en vuelo
	s.countdownEnds = time.Time{}
}

// BeginCommit pasa la sesión a committing por confirmación explícita del
// operador (o reintento tras un error de commit). Detiene la cuenta regresiva
// si estaba corriendo.
func (s *Session) BeginCommit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateReadyToCommit, StateCountdownPending, StateError:
		s.stopCountdownLocked()
		s.state = StateCommitting
		return nil
	case StateCommitting:
		return domain.ErrCommitInProgress
	default:
		return domain.ErrConflict
	}
}

// CommitPayload devuelve la orden y una copia del conjunto escaneado para el
// batch atómico. Solo válido en committing.
func (s *Session) CommitPayload() (entity.SalesOrder, []entity.InventoryUnit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCommitting || s.order == nil {
		return entity.SalesOrder{}, nil, domain.ErrConflict
	}
	units := make([]entity.InventoryUnit, len(s.units))
	copy(units, s.units)
	return *s.order, units, nil
}

// FinishCommit cierra el commit en vuelo. Con éxito la sesión vuelve a idle;
// con error queda en error conservando las unidades escaneadas, para que el
// operador reintente sin volver a escanear.
func (s *Session) FinishCommit(commitErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCommitting {
		return
	}
	if commitErr != nil {
		s.state = StateError
		s.lastError = commitErr.Error()
		return
	}
	s.resetLocked()
}

// Reset vuelve la sesión a idle desde cualquier estado salvo committing.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCommitting {
		return domain.ErrCommitInProgress
	}
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.stopCountdownLocked()
	s.state = StateIdle
	s.order = nil
	s.units = nil
	s.mismatch = nil
	s.lastError = ""
}

// SessionView es la vista síncrona del estado de la sesión para la capa UI.
type SessionView struct {
	State              SessionState
	Order              *entity.SalesOrder
	Units              []entity.InventoryUnit
	Scanned            int
	Required           int
	CountdownRemaining time.Duration // 0 si no hay cuenta regresiva
	Mismatch           *Mismatch
	LastError          string
}

// View devuelve un snapshot consistente del estado de la sesión.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := SessionView{
		State:     s.state,
		Scanned:   len(s.units),
		LastError: s.lastError,
	}
	if s.order != nil {
		o := *s.order
		v.Order = &o
		v.Required = o.Quantity
	}
	if len(s.units) > 0 {
		v.Units = make([]entity.InventoryUnit, len(s.units))
		copy(v.Units, s.units)
	}
	if s.state == StateCountdownPending {
		if remaining := time.Until(s.countdownEnds); remaining > 0 {
			v.CountdownRemaining = remaining
		}
	}
	if s.mismatch != nil {
		m := *s.mismatch
		v.Mismatch = &m
	}
	return v
}
