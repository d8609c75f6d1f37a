package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish(Event{SessionID: "s1", Phase: PhaseGenerating, Text: "Reimagining your space..."})

	evt := <-first
	assert.Equal(t, "s1", evt.SessionID)
	assert.Equal(t, PhaseGenerating, evt.Phase)
	evt = <-second
	assert.Equal(t, "s1", evt.SessionID)

	b.Unsubscribe(second)
	b.Publish(Event{SessionID: "s1", Phase: PhaseDone})
	evt = <-first
	assert.Equal(t, PhaseDone, evt.Phase)

	// Unsubscribed channels are closed.
	_, open := <-second
	assert.False(t, open)
	b.Unsubscribe(first)
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	// Fill the buffer and one more; the overflow must not block Publish.
	for i := 0; i < 16; i++ {
		b.Publish(Event{SessionID: "s1", Phase: PhaseGenerating})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	require.LessOrEqual(t, received, 8)
	b.Unsubscribe(ch)
}
