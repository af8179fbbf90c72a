package reminders

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/averlyn/hookbot/internal/storage"
)

const collection = "reminders"

// Reminder is one scheduled notification.
type Reminder struct {
	ID        string    `toml:"id" json:"id"`
	UserID    string    `toml:"user_id" json:"user_id"`
	Message   string    `toml:"message" json:"message"`
	DueAt     time.Time `toml:"due_at" json:"due_at"`
	CreatedAt time.Time `toml:"created_at" json:"created_at"`
}

type document struct {
	Reminders []Reminder `toml:"reminders" json:"reminders"`
}

// Repository persists reminders across restarts.
type Repository struct {
	mu    sync.Mutex
	store storage.Store
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) load(ctx context.Context) (document, error) {
	var doc document
	if _, err := r.store.Load(ctx, collection, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Add schedules a reminder and returns it.
func (r *Repository) Add(ctx context.Context, userID, message string, dueAt time.Time) (Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return Reminder{}, err
	}

	reminder := Reminder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		DueAt:     dueAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	doc.Reminders = append(doc.Reminders, reminder)

	if err := r.store.Save(ctx, collection, doc); err != nil {
		return Reminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}
	return reminder, nil
}

// ListByUser returns the user's pending reminders, soonest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []Reminder
	for _, reminder := range doc.Reminders {
		if reminder.UserID == userID {
			out = append(out, reminder)
		}
	}
	sortByDue(out)
	return out, nil
}

// Remove deletes the user's reminder by ID. It reports whether the
// reminder existed.
func (r *Repository) Remove(ctx context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	for idx, reminder := range doc.Reminders {
		if reminder.ID != id || reminder.UserID != userID {
			continue
		}

		doc.Reminders = append(doc.Reminders[:idx:idx], doc.Reminders[idx+1:]...)
		if err := r.store.Save(ctx, collection, doc); err != nil {
			return false, fmt.Errorf("failed to save reminder: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// ClaimDue atomically removes and returns every reminder due at or
// before now, so a sweep never delivers one twice.
func (r *Repository) ClaimDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	var due, pending []Reminder
	for _, reminder := range doc.Reminders {
		if reminder.DueAt.After(now) {
			pending = append(pending, reminder)
		} else {
			due = append(due, reminder)
		}
	}

	if len(due) == 0 {
		return nil, nil
	}

	doc.Reminders = pending
	if err := r.store.Save(ctx, collection, doc); err != nil {
		return nil, fmt.Errorf("failed to save reminders: %w", err)
	}

	sortByDue(due)
	return due, nil
}

func sortByDue(reminders []Reminder) {
	slices.SortFunc(reminders, func(a, b Reminder) int {
		return a.DueAt.Compare(b.DueAt)
	})
}
