package service

import (
	"context"
	"slices"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// SaveSearch stores a named filter set for userID.
func (s *Listings) SaveSearch(ctx context.Context, userID, name string, f domain.ListingFilters) (domain.SavedSearch, error) {
	if err := s.opts.latency.wait(ctx, OpSaveSearch); err != nil {
		return domain.SavedSearch{}, err
	}
	if name == "" {
		return domain.SavedSearch{}, validation("saved search needs a name")
	}

	saved := domain.SavedSearch{
		ID:        s.store.NewID(),
		UserID:    userID,
		Name:      name,
		Filters:   f,
		CreatedAt: s.store.Now(),
	}
	err := store.Update(ctx, s.store, store.SavedSearches, func(items []domain.SavedSearch) ([]domain.SavedSearch, error) {
		return append(items, saved), nil
	})
	if err != nil {
		return domain.SavedSearch{}, internal("save search", err)
	}
	return saved, nil
}

// ListSavedSearches returns userID's saved searches, newest first.
func (s *Listings) ListSavedSearches(ctx context.Context, userID string) ([]domain.SavedSearch, error) {
	if err := s.opts.latency.wait(ctx, OpListSavedSearches); err != nil {
		return nil, err
	}
	return s.savedSearchesOf(userID), nil
}

func (s *Listings) savedSearchesOf(userID string) []domain.SavedSearch {
	out := []domain.SavedSearch{}
	for _, ss := range store.GetAll(s.store, store.SavedSearches) {
		if ss.UserID == userID {
			out = append(out, ss)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.SavedSearch) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// DeleteSavedSearch removes one of userID's saved searches. A search owned
// by someone else is reported as not found.
func (s *Listings) DeleteSavedSearch(ctx context.Context, userID, id string) error {
	if err := s.opts.latency.wait(ctx, OpDeleteSavedSearch); err != nil {
		return err
	}

	err := store.Update(ctx, s.store, store.SavedSearches, func(items []domain.SavedSearch) ([]domain.SavedSearch, error) {
		for i, ss := range items {
			if ss.ID == id && ss.UserID == userID {
				return slices.Delete(items, i, i+1), nil
			}
		}
		return nil, notFound("saved search not found")
	})
	return internal("delete saved search", err)
}

// RunSavedSearch lists the listings matching one of userID's saved searches.
func (s *Listings) RunSavedSearch(ctx context.Context, userID, id string) ([]domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpListListings); err != nil {
		return nil, err
	}

	for _, ss := range s.savedSearchesOf(userID) {
		if ss.ID == id {
			return s.search(ss.Filters), nil
		}
	}
	return nil, notFound("saved search not found")
}
