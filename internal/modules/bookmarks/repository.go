package bookmarks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/averlyn/hookbot/internal/storage"
)

const collection = "bookmarks"

// Bookmark is one saved message reference.
type Bookmark struct {
	ID        string    `toml:"id" json:"id"`
	MessageID string    `toml:"message_id" json:"message_id"`
	ChannelID string    `toml:"channel_id" json:"channel_id"`
	GuildID   string    `toml:"guild_id" json:"guild_id"`
	Author    string    `toml:"author" json:"author"`
	Preview   string    `toml:"preview" json:"preview"`
	SavedAt   time.Time `toml:"saved_at" json:"saved_at"`
}

// Link returns the jump URL for the bookmarked message.
func (b Bookmark) Link() string {
	guild := b.GuildID
	if guild == "" {
		guild = "@me"
	}
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guild, b.ChannelID, b.MessageID)
}

type document struct {
	// Bookmarks maps a user ID to that user's saved messages.
	Bookmarks map[string][]Bookmark `toml:"bookmarks" json:"bookmarks"`
}

// Repository persists bookmarks per user.
type Repository struct {
	mu    sync.Mutex
	store storage.Store
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

func (r *Repository) load(ctx context.Context) (document, error) {
	doc := document{Bookmarks: map[string][]Bookmark{}}
	if _, err := r.store.Load(ctx, collection, &doc); err != nil {
		return doc, err
	}
	if doc.Bookmarks == nil {
		doc.Bookmarks = map[string][]Bookmark{}
	}
	return doc, nil
}

// List returns the user's bookmarks, oldest first.
func (r *Repository) List(ctx context.Context, userID string) ([]Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Bookmarks[userID], nil
}

// Add saves a bookmark for the user. Saving the same message twice
// returns the existing bookmark.
func (r *Repository) Add(ctx context.Context, userID string, mark Bookmark) (Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return Bookmark{}, err
	}

	for _, existing := range doc.Bookmarks[userID] {
		if existing.MessageID == mark.MessageID {
			return existing, nil
		}
	}

	mark.ID = uuid.NewString()
	mark.SavedAt = time.Now().UTC()
	doc.Bookmarks[userID] = append(doc.Bookmarks[userID], mark)

	if err := r.store.Save(ctx, collection, doc); err != nil {
		return Bookmark{}, fmt.Errorf("failed to save bookmark: %w", err)
	}
	return mark, nil
}

// Find returns the user's bookmark by ID, reporting whether it exists.
func (r *Repository) Find(ctx context.Context, userID, id string) (Bookmark, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return Bookmark{}, false, err
	}

	for _, mark := range doc.Bookmarks[userID] {
		if mark.ID == id {
			return mark, true, nil
		}
	}
	return Bookmark{}, false, nil
}

// Remove deletes the user's bookmark by ID. It reports whether the
// bookmark existed.
func (r *Repository) Remove(ctx context.Context, userID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	marks := doc.Bookmarks[userID]
	for idx, mark := range marks {
		if mark.ID != id {
			continue
		}

		doc.Bookmarks[userID] = append(marks[:idx:idx], marks[idx+1:]...)
		if len(doc.Bookmarks[userID]) == 0 {
			delete(doc.Bookmarks, userID)
		}

		if err := r.store.Save(ctx, collection, doc); err != nil {
			return false, fmt.Errorf("failed to save bookmark: %w", err)
		}
		return true, nil
	}

	return false, nil
}
