package events

import "sync"

// Tópicos publicados por la aplicación.
const (
	// TopicInventoryChanged se publica cada vez que un componente muta el stock
	// (commit de picking, revert, alta o baja manual de unidades).
	TopicInventoryChanged = "inventory.changed"
	// TopicPickCommitted se publica al confirmar un picking; las vistas abiertas
	// lo usan para refrescar el registro del día.
	TopicPickCommitted = "pick.committed"
)

// Bus publish/subscribe mínimo dentro del proceso. Reemplaza la coordinación
// por flag global + eventos de ventana: el componente que muta el inventario
// publica y los interesados se suscriben explícitamente.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan struct{}
}

// NewBus construye el bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan struct{})}
}

// Subscribe registra un suscriptor para un tópico y devuelve su canal de avisos.
// El canal tiene buffer 1: un aviso pendiente es suficiente, los repetidos se colapsan.
func (b *Bus) Subscribe(topic string) <-chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish avisa a todos los suscriptores del tópico sin bloquear.
// Si el suscriptor ya tiene un aviso pendiente, el nuevo se descarta.
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
