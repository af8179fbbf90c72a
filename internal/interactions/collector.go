package interactions

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Termination reasons reported on the End event.
const (
	EndReasonMax     = "max"
	EndReasonTimeout = "timeout"
)

// defaultCollectBuffer bounds the collect channel when no max is set.
const defaultCollectBuffer = 32

// CollectorOptions configures a Collector.
type CollectorOptions struct {
	// Filter decides whether an interaction is collected. A nil filter
	// matches everything of the configured type. A filter that panics is
	// treated as a non-match for that event.
	Filter func(i *discordgo.Interaction) bool

	// Max stops the collector once this many interactions have been
	// collected. Zero means unbounded.
	Max int

	// Timeout ends the collector this long after construction regardless
	// of activity.
	Timeout time.Duration

	// Idle ends the collector after this long without a matching
	// interaction; each match restarts the timer.
	Idle time.Duration

	// Type restricts collection to one interaction type. Defaults to
	// MessageComponent.
	Type discordgo.InteractionType
}

// End carries the result of a finished collection.
type End struct {
	Collected []*discordgo.Interaction
	Reason    string
}

// Collector is a time-bounded subscription to the interaction bus. It
// forwards every matching interaction on the channel returned by Collect
// and emits exactly one End on the channel returned by Done.
//
// A collector with no Max, Timeout, or Idle configured runs until Stop is
// called; bounding its lifetime is the caller's responsibility.
type Collector struct {
	opts        CollectorOptions
	unsubscribe func()

	collectCh chan *discordgo.Interaction
	endCh     chan End

	mu        sync.Mutex
	collected []*discordgo.Interaction
	timer     *time.Timer
	timerGen  int
	ended     bool
}

// NewCollector creates a collector and immediately subscribes it to the bus.
func NewCollector(bus *Bus, opts CollectorOptions) *Collector {
	if opts.Type == 0 {
		opts.Type = discordgo.InteractionMessageComponent
	}

	buffer := defaultCollectBuffer
	if opts.Max > 0 {
		buffer = opts.Max
	}

	c := &Collector{
		opts:      opts,
		collectCh: make(chan *discordgo.Interaction, buffer),
		endCh:     make(chan End, 1),
	}

	c.unsubscribe = bus.Subscribe(c.handle)

	// At most one timer governs termination: an absolute timeout wins
	// over an idle timeout when both are configured.
	c.mu.Lock()
	if opts.Timeout > 0 {
		c.armTimer(opts.Timeout)
	} else if opts.Idle > 0 {
		c.armTimer(opts.Idle)
	}
	c.mu.Unlock()

	return c
}

// armTimer schedules (or reschedules) the termination timer. Callers must
// hold c.mu. The generation counter invalidates a timer that has already
// fired but not yet acquired the lock, so an idle reset cannot lose the
// race against its own expiry.
func (c *Collector) armTimer(d time.Duration) {
	if c.timer != nil {
		c.timer.Stop()
	}

	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(d, func() { c.expire(gen) })
}

// expire handles a termination timer firing.
func (c *Collector) expire(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.timerGen {
		return
	}

	c.end(EndReasonTimeout)
}

// Collect returns the channel on which matching interactions are delivered
// in arrival order.
func (c *Collector) Collect() <-chan *discordgo.Interaction {
	return c.collectCh
}

// Done returns the channel on which the single End event is delivered.
func (c *Collector) Done() <-chan End {
	return c.endCh
}

// Collected returns a snapshot of the interactions collected so far.
func (c *Collector) Collected() []*discordgo.Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*discordgo.Interaction, len(c.collected))
	copy(out, c.collected)
	return out
}

// Stop terminates the collector with the given reason. Stopping is
// idempotent; only the first call emits the End event.
func (c *Collector) Stop(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.end(reason)
}

// handle is the bus subscription callback.
func (c *Collector) handle(i *discordgo.Interaction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ended {
		return
	}
	if i.Type != c.opts.Type {
		return
	}
	if !c.matches(i) {
		return
	}

	c.collected = append(c.collected, i)

	select {
	case c.collectCh <- i:
	default:
		slog.Warn("collector receiver not keeping up, dropping delivery",
			"interaction_id", i.ID,
		)
	}

	if c.opts.Idle > 0 && c.opts.Timeout == 0 {
		c.armTimer(c.opts.Idle)
	}

	if c.opts.Max > 0 && len(c.collected) >= c.opts.Max {
		c.end(EndReasonMax)
	}
}

// matches evaluates the filter, treating a panicking filter as a
// non-match so one broken predicate cannot take down dispatch for other
// bus subscribers.
func (c *Collector) matches(i *discordgo.Interaction) (ok bool) {
	if c.opts.Filter == nil {
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("collector filter panicked, treating as non-match",
				"interaction_id", i.ID,
				"panic", r,
			)
			ok = false
		}
	}()

	return c.opts.Filter(i)
}

// end finalizes the collector. Callers must hold c.mu. The bus
// subscription is removed before End is emitted so no further collect
// delivery can happen, even for an event already in flight.
func (c *Collector) end(reason string) {
	if c.ended {
		return
	}
	c.ended = true

	c.unsubscribe()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	collected := make([]*discordgo.Interaction, len(c.collected))
	copy(collected, c.collected)

	// No sends can follow: handle checks ended under the same mutex.
	close(c.collectCh)

	c.endCh <- End{Collected: collected, Reason: reason}
}
