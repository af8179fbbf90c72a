package interactions

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func componentInteraction(id string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:   id,
		Type: discordgo.InteractionMessageComponent,
	}
}

func TestBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second []string
	bus.Subscribe(func(i *discordgo.Interaction) { first = append(first, i.ID) })
	bus.Subscribe(func(i *discordgo.Interaction) { second = append(second, i.ID) })

	bus.Publish(componentInteraction("1"))
	bus.Publish(componentInteraction("2"))

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected both subscribers to see 2 events, got %d and %d", len(first), len(second))
	}
	if first[0] != "1" || first[1] != "2" {
		t.Errorf("expected events in publication order, got %v", first)
	}
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var seen int
	unsubscribe := bus.Subscribe(func(i *discordgo.Interaction) { seen++ })

	bus.Publish(componentInteraction("1"))
	unsubscribe()
	bus.Publish(componentInteraction("2"))

	if seen != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", seen)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()

	unsubscribe := bus.Subscribe(func(i *discordgo.Interaction) {})
	other := bus.Subscribe(func(i *discordgo.Interaction) {})
	_ = other

	unsubscribe()
	unsubscribe()

	if bus.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber to remain, got %d", bus.SubscriberCount())
	}
}

func TestBus_UnsubscribeDuringFanOut(t *testing.T) {
	bus := NewBus()

	var unsubscribe func()
	var calls int
	unsubscribe = bus.Subscribe(func(i *discordgo.Interaction) {
		calls++
		unsubscribe()
	})

	// Removing a subscriber from within its own delivery must not
	// corrupt the fan-out or panic.
	bus.Publish(componentInteraction("1"))
	bus.Publish(componentInteraction("2"))

	if calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", calls)
	}
}

func TestBus_SubscriberAddedDuringFanOutMissesEvent(t *testing.T) {
	bus := NewBus()

	var lateSeen int
	bus.Subscribe(func(i *discordgo.Interaction) {
		bus.Subscribe(func(i *discordgo.Interaction) { lateSeen++ })
	})

	bus.Publish(componentInteraction("1"))

	if lateSeen != 0 {
		t.Errorf("expected late subscriber to miss the in-flight event, saw %d", lateSeen)
	}

	bus.Publish(componentInteraction("2"))

	// The second publication subscribed yet another handler, so the first
	// late subscriber must have seen exactly one event by now.
	if lateSeen != 1 {
		t.Errorf("expected late subscriber to see 1 subsequent event, saw %d", lateSeen)
	}
}
