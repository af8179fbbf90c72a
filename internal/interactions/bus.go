package interactions

import (
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Handler receives every interaction published to the bus.
type Handler func(i *discordgo.Interaction)

// Bus is a process-wide fan-out point for verified interactions. The
// dispatcher publishes every interaction it accepts, and collectors
// subscribe to observe follow-up component and modal events.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]Handler),
	}
}

// Subscribe registers a handler and returns a function that removes it.
// The returned function is safe to call more than once and safe to call
// from within a publication.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
}

// Publish delivers the interaction to every subscriber registered at the
// moment of publication. Delivery iterates over a snapshot, so a handler
// subscribed during fan-out does not observe the current event, and
// unsubscribing mid-delivery cannot corrupt the iteration.
func (b *Bus) Publish(i *discordgo.Interaction) {
	b.mu.RLock()
	snapshot := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(i)
	}
}

// SubscriberCount returns the number of active subscribers (for testing/monitoring).
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}
