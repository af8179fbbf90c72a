package interactions

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func componentWithUser(id, userID, customID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:   id,
		Type: discordgo.InteractionMessageComponent,
		User: &discordgo.User{ID: userID},
		Data: discordgo.MessageComponentInteractionData{CustomID: customID},
	}
}

func drainCollect(c *Collector) []*discordgo.Interaction {
	var out []*discordgo.Interaction
	for i := range c.Collect() {
		out = append(out, i)
	}
	return out
}

func TestCollector_MaxTermination(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{Max: 2})

	bus.Publish(componentInteraction("1"))
	bus.Publish(componentInteraction("2"))
	// Late event after max was reached: must be ignored entirely.
	bus.Publish(componentInteraction("3"))

	select {
	case end := <-c.Done():
		if end.Reason != EndReasonMax {
			t.Errorf("expected reason %q, got %q", EndReasonMax, end.Reason)
		}
		if len(end.Collected) != 2 {
			t.Fatalf("expected 2 collected, got %d", len(end.Collected))
		}
		if end.Collected[0].ID != "1" || end.Collected[1].ID != "2" {
			t.Errorf("expected collection in arrival order, got %v, %v",
				end.Collected[0].ID, end.Collected[1].ID)
		}
	default:
		t.Fatal("expected end event to have fired")
	}

	collected := drainCollect(c)
	if len(collected) != 2 {
		t.Errorf("expected 2 collect emissions, got %d", len(collected))
	}
}

func TestCollector_FilterRejectsSilently(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{
		Max: 1,
		Filter: func(i *discordgo.Interaction) bool {
			return i.ID == "wanted"
		},
	})

	bus.Publish(componentInteraction("ignored"))
	bus.Publish(componentInteraction("wanted"))

	end := <-c.Done()
	if len(end.Collected) != 1 || end.Collected[0].ID != "wanted" {
		t.Errorf("expected only the matching interaction, got %+v", end.Collected)
	}
}

func TestCollector_TypeMismatchIgnored(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{Max: 1})

	bus.Publish(&discordgo.Interaction{
		ID:   "modal",
		Type: discordgo.InteractionModalSubmit,
	})

	select {
	case <-c.Done():
		t.Fatal("expected collector to ignore non-component interaction")
	default:
	}

	c.Stop("cleanup")
}

func TestCollector_ModalType(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{
		Max:  1,
		Type: discordgo.InteractionModalSubmit,
	})

	bus.Publish(&discordgo.Interaction{ID: "m1", Type: discordgo.InteractionModalSubmit})

	end := <-c.Done()
	if len(end.Collected) != 1 || end.Collected[0].ID != "m1" {
		t.Errorf("expected modal interaction collected, got %+v", end.Collected)
	}
}

func TestCollector_AbsoluteTimeout(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{Timeout: 30 * time.Millisecond})

	select {
	case end := <-c.Done():
		if end.Reason != EndReasonTimeout {
			t.Errorf("expected reason %q, got %q", EndReasonTimeout, end.Reason)
		}
		if len(end.Collected) != 0 {
			t.Errorf("expected empty collection, got %d", len(end.Collected))
		}
	case <-time.After(time.Second):
		t.Fatal("expected timeout within a second")
	}
}

func TestCollector_IdleTimerResetByMatch(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{Idle: 100 * time.Millisecond})

	time.Sleep(80 * time.Millisecond)
	bus.Publish(componentInteraction("1"))

	// The match must have reset the idle timer, so the collector is
	// still alive past the original deadline.
	time.Sleep(70 * time.Millisecond)
	select {
	case <-c.Done():
		t.Fatal("collector ended despite idle timer reset")
	default:
	}

	select {
	case end := <-c.Done():
		if end.Reason != EndReasonTimeout {
			t.Errorf("expected reason %q, got %q", EndReasonTimeout, end.Reason)
		}
		if len(end.Collected) != 1 {
			t.Errorf("expected 1 collected, got %d", len(end.Collected))
		}
	case <-time.After(time.Second):
		t.Fatal("expected idle timeout to eventually fire")
	}
}

func TestCollector_PostTerminationSilence(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{Max: 1})

	bus.Publish(componentInteraction("1"))
	<-c.Done()

	if bus.SubscriberCount() != 0 {
		t.Fatalf("expected collector to have unsubscribed, %d subscribers remain", bus.SubscriberCount())
	}

	// A matching publication after end must produce zero collect
	// emissions. This is checked, not assumed.
	bus.Publish(componentInteraction("2"))

	collected := drainCollect(c)
	if len(collected) != 1 {
		t.Errorf("expected exactly 1 collect emission, got %d", len(collected))
	}
	if got := c.Collected(); len(got) != 1 {
		t.Errorf("expected collected snapshot of 1, got %d", len(got))
	}
}

func TestCollector_StopIsIdempotent(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{})

	c.Stop("external")
	c.Stop("again")

	end := <-c.Done()
	if end.Reason != "external" {
		t.Errorf("expected first reason to win, got %q", end.Reason)
	}

	select {
	case _, ok := <-c.Done():
		if ok {
			t.Error("expected no second end emission")
		}
	default:
	}
}

func TestCollector_PanickingFilterIsNonMatch(t *testing.T) {
	bus := NewBus()

	c := NewCollector(bus, CollectorOptions{
		Filter: func(i *discordgo.Interaction) bool {
			if i.ID == "bad" {
				panic("broken predicate")
			}
			return true
		},
	})

	var otherSeen int
	bus.Subscribe(func(i *discordgo.Interaction) { otherSeen++ })

	bus.Publish(componentInteraction("bad"))
	bus.Publish(componentInteraction("good"))

	if otherSeen != 2 {
		t.Errorf("expected other subscriber to see both events, saw %d", otherSeen)
	}
	if got := c.Collected(); len(got) != 1 || got[0].ID != "good" {
		t.Errorf("expected only the non-panicking match, got %+v", got)
	}

	c.Stop("cleanup")
}

func TestCollector_UnboundedRunsUntilStopped(t *testing.T) {
	bus := NewBus()
	c := NewCollector(bus, CollectorOptions{})

	bus.Publish(componentInteraction("1"))
	bus.Publish(componentInteraction("2"))
	bus.Publish(componentInteraction("3"))

	select {
	case <-c.Done():
		t.Fatal("unbounded collector must not end on its own")
	default:
	}

	c.Stop("done")

	end := <-c.Done()
	if end.Reason != "done" {
		t.Errorf("expected external reason, got %q", end.Reason)
	}
	if len(end.Collected) != 3 {
		t.Errorf("expected 3 collected, got %d", len(end.Collected))
	}
}
