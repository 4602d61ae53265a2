package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/homelist/internal/domain"
)

// Name identifies a collection inside the database blob.
type Name string

const (
	NameUsers               Name = "users"
	NameListings            Name = "listings"
	NameAgents              Name = "agents"
	NameFavorites           Name = "favorites"
	NameConversations       Name = "conversations"
	NameSavedSearches       Name = "savedSearches"
	NamePasswordResetTokens Name = "passwordResetTokens"
)

// Names lists every known collection. A loaded blob is merged against this
// list so collections added after the blob was written default to empty.
var Names = []Name{
	NameUsers,
	NameListings,
	NameAgents,
	NameFavorites,
	NameConversations,
	NameSavedSearches,
	NamePasswordResetTokens,
}

// Database is the whole application state, persisted as one blob.
type Database struct {
	Users               []domain.User               `json:"users" yaml:"users"`
	Listings            []domain.Listing            `json:"listings" yaml:"listings"`
	Agents              []domain.Agent              `json:"agents" yaml:"agents"`
	Favorites           []domain.Favorite           `json:"favorites" yaml:"favorites"`
	Conversations       []domain.Conversation       `json:"conversations" yaml:"conversations"`
	SavedSearches       []domain.SavedSearch        `json:"savedSearches" yaml:"savedSearches"`
	PasswordResetTokens []domain.PasswordResetToken `json:"passwordResetTokens" yaml:"passwordResetTokens"`
}

// slot returns a pointer to the named collection, typed as any for decoding.
func (d *Database) slot(name Name) any {
	switch name {
	case NameUsers:
		return &d.Users
	case NameListings:
		return &d.Listings
	case NameAgents:
		return &d.Agents
	case NameFavorites:
		return &d.Favorites
	case NameConversations:
		return &d.Conversations
	case NameSavedSearches:
		return &d.SavedSearches
	case NamePasswordResetTokens:
		return &d.PasswordResetTokens
	}
	return nil
}

// normalize replaces nil collections with empty ones so the blob always
// serializes every collection as an array.
func (d *Database) normalize() {
	d.Users = nonNil(d.Users)
	d.Listings = nonNil(d.Listings)
	d.Agents = nonNil(d.Agents)
	d.Favorites = nonNil(d.Favorites)
	d.Conversations = nonNil(d.Conversations)
	d.SavedSearches = nonNil(d.SavedSearches)
	d.PasswordResetTokens = nonNil(d.PasswordResetTokens)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Collection is a typed handle on one named collection.
type Collection[T any] struct {
	name Name
	get  func(*Database) *[]T
}

// Name returns the collection's persisted name.
func (c Collection[T]) Name() Name { return c.name }

// Typed handles for every collection.
var (
	Users               = Collection[domain.User]{NameUsers, func(d *Database) *[]domain.User { return &d.Users }}
	Listings            = Collection[domain.Listing]{NameListings, func(d *Database) *[]domain.Listing { return &d.Listings }}
	Agents              = Collection[domain.Agent]{NameAgents, func(d *Database) *[]domain.Agent { return &d.Agents }}
	Favorites           = Collection[domain.Favorite]{NameFavorites, func(d *Database) *[]domain.Favorite { return &d.Favorites }}
	Conversations       = Collection[domain.Conversation]{NameConversations, func(d *Database) *[]domain.Conversation { return &d.Conversations }}
	SavedSearches       = Collection[domain.SavedSearch]{NameSavedSearches, func(d *Database) *[]domain.SavedSearch { return &d.SavedSearches }}
	PasswordResetTokens = Collection[domain.PasswordResetToken]{NamePasswordResetTokens, func(d *Database) *[]domain.PasswordResetToken { return &d.PasswordResetTokens }}
)

// GetAll returns the current contents of c.
//
// The returned slice is a shallow copy: callers may reorder or filter it,
// but nested slices (images, messages, participants) are shared with the
// store and must be cloned before they are modified.
func GetAll[T any](s *Store, c Collection[T]) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(*c.get(&s.db))
}

// ReplaceAll replaces c with items and persists the whole database.
// If persisting fails the previous contents are restored.
func ReplaceAll[T any](ctx context.Context, s *Store, c Collection[T], items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return swapAndPersist(ctx, s, c.name, c.get(&s.db), nonNil(slices.Clone(items)))
}

// Update applies fn to the contents of c and persists the result.
//
// fn runs under the store lock, so a read-check-write inside fn cannot
// interleave with another mutation. If fn returns an error nothing is
// written and the error is returned unchanged.
func Update[T any](ctx context.Context, s *Store, c Collection[T], fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := c.get(&s.db)
	next, err := fn(slices.Clone(*slot))
	if err != nil {
		return err
	}
	return swapAndPersist(ctx, s, c.name, slot, nonNil(next))
}

// swapAndPersist installs next in slot and persists the database, restoring
// the previous contents if the write fails. Callers hold s.mu.
func swapAndPersist[T any](ctx context.Context, s *Store, name Name, slot *[]T, next []T) error {
	prev := *slot
	*slot = next
	if err := s.persistLocked(ctx); err != nil {
		*slot = prev
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}
