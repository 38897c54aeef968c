package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_CompanyScoping(t *testing.T) {
	h := NewHub()
	acme, cleanupAcme := h.Subscribe(1)
	globex, cleanupGlobex := h.Subscribe(2)
	defer cleanupGlobex()

	assert.Equal(t, 1, h.SubscriberCount(1))
	assert.Equal(t, 2, h.TotalSubscribers())

	h.Publish(Event{CompanyID: 1, Event: EventLocation, Data: "x"})

	select {
	case ev := <-acme:
		assert.Equal(t, EventLocation, ev.Event)
	default:
		t.Fatal("expected an event for company 1")
	}
	select {
	case <-globex:
		t.Fatal("company 2 must not see company 1 events")
	default:
	}

	cleanupAcme()
	cleanupAcme()
	_, open := <-acme
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount(1))
}

func TestHub_DropsWhenFull(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe(1)
	defer cleanup()

	for i := 0; i < 100; i++ {
		h.Publish(Event{CompanyID: 1, Event: EventPing})
	}
	require.Equal(t, cap(ch), len(ch))
}

func TestHub_NilIsSilent(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{CompanyID: 1}) })
}
