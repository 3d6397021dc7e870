package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdramirez/celustock-api/pkg/events"
)

// Publish debe avisar a todos los suscriptores del tópico.
func TestBus_PublishAvisaSuscriptores(t *testing.T) {
	bus := events.NewBus()
	a := bus.Subscribe(events.TopicInventoryChanged)
	b := bus.Subscribe(events.TopicInventoryChanged)

	bus.Publish(events.TopicInventoryChanged)

	select {
	case <-a:
	default:
		t.Fatal("el suscriptor a debía recibir el aviso")
	}
	select {
	case <-b:
	default:
		t.Fatal("el suscriptor b debía recibir el aviso")
	}
}

// Publicar sin suscriptores o con el buffer lleno no debe bloquear.
func TestBus_PublishNoBloquea(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe(events.TopicPickCommitted)

	// Tres publicaciones seguidas: las repetidas se colapsan en un solo aviso.
	bus.Publish(events.TopicPickCommitted)
	bus.Publish(events.TopicPickCommitted)
	bus.Publish(events.TopicPickCommitted)

	require.Len(t, ch, 1, "los avisos repetidos deben colapsarse en uno")

	// Tópico sin suscriptores: no debe pasar nada.
	bus.Publish("topico.sin.suscriptores")
	assert.Len(t, ch, 1)
}

// Los tópicos son independientes entre sí.
func TestBus_TopicosIndependientes(t *testing.T) {
	bus := events.NewBus()
	inv := bus.Subscribe(events.TopicInventoryChanged)

	bus.Publish(events.TopicPickCommitted)

	assert.Len(t, inv, 0, "un publish en otro tópico no debe llegar a este suscriptor")
}
