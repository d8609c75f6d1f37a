package events

import "sync"

// Phase labels where a session currently is inside an AI operation.
type Phase string

const (
	PhaseGenerating Phase = "generating"
	PhaseAnalyzing  Phase = "analyzing"
	PhaseChatting   Phase = "chatting"
	PhaseDone       Phase = "done"
	PhaseError      Phase = "error"
)

// Event describes a progress update for one session, including the rotating
// loading text the UI shows while an operation is in flight.
type Event struct {
	SessionID string `json:"session_id"`
	Phase     Phase  `json:"phase"`
	Operation string `json:"operation,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Broker manages SSE subscribers.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewBroker constructs a broker instance.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 8)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from the broker.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish fan-outs the event to all subscribers.
func (b *Broker) Publish(evt Event) {
	b.mu.RLock()
	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// drop if subscriber is slow
		}
	}
	b.mu.RUnlock()
}
