package todo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/averlyn/hookbot/internal/storage"
)

const collection = "todos"

// Entry is one todo item.
type Entry struct {
	ID        string    `toml:"id" json:"id"`
	Text      string    `toml:"text" json:"text"`
	CreatedAt time.Time `toml:"created_at" json:"created_at"`
}

type document struct {
	// Entries maps a user ID to that user's todo list.
	Entries map[string][]Entry `toml:"entries" json:"entries"`
}

// Repository persists todo entries per user.
type Repository struct {
	mu    sync.Mutex
	store storage.Store
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) load(ctx context.Context) (document, error) {
	doc := document{Entries: map[string][]Entry{}}
	if _, err := r.store.Load(ctx, collection, &doc); err != nil {
		return doc, err
	}
	if doc.Entries == nil {
		doc.Entries = map[string][]Entry{}
	}
	return doc, nil
}

// List returns the user's entries, oldest first.
func (r *Repository) List(ctx context.Context, userID string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Entries[userID], nil
}

// Add appends a new entry for the user and returns it.
func (r *Repository) Add(ctx context.Context, userID, text string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	doc.Entries[userID] = append(doc.Entries[userID], entry)

	if err := r.store.Save(ctx, collection, doc); err != nil {
		return Entry{}, fmt.Errorf("failed to save todo: %w", err)
	}
	return entry, nil
}

// Remove deletes the user's entry by ID. It reports whether the entry
// existed.
func (r *Repository) Remove(ctx context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	entries := doc.Entries[userID]
	for idx, entry := range entries {
		if entry.ID != id {
			continue
		}

		doc.Entries[userID] = append(entries[:idx:idx], entries[idx+1:]...)
		if len(doc.Entries[userID]) == 0 {
			delete(doc.Entries, userID)
		}

		if err := r.store.Save(ctx, collection, doc); err != nil {
			return false, fmt.Errorf("failed to save todo: %w", err)
		}
		return true, nil
	}

	return false, nil
}

// Find returns the user's entry by ID.
func (r *Repository) Find(ctx context.Context, userID, id string) (Entry, bool, error) {
	entries, err := r.List(ctx, userID)
	if err != nil {
		return Entry{}, false, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true, nil
		}
	}
	return Entry{}, false, nil
}
