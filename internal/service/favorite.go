package service

import (
	"context"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// ListFavorites returns the favorites of userID in the order they were added.
func (s *Listings) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	if err := s.opts.latency.wait(ctx, OpListFavorites); err != nil {
		return nil, err
	}

	out := []domain.Favorite{}
	for _, f := range store.GetAll(s.store, store.Favorites) {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

// AddFavorite saves listingID for userID.
// A pair that is already saved is rejected with KindConflict and left as is.
func (s *Listings) AddFavorite(ctx context.Context, userID, listingID string) (domain.Favorite, error) {
	if err := s.opts.latency.wait(ctx, OpAddFavorite); err != nil {
		return domain.Favorite{}, err
	}

	fav := domain.Favorite{
		ID:        s.store.NewID(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: s.store.Now(),
	}
	err := store.Update(ctx, s.store, store.Favorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
		for _, f := range items {
			if f.UserID == userID && f.ListingID == listingID {
				return nil, conflict("listing already in favorites")
			}
		}
		return append(items, fav), nil
	})
	if err != nil {
		return domain.Favorite{}, internal("add favorite", err)
	}
	return fav, nil
}

// RemoveFavorite deletes the (userID, listingID) favorite.
func (s *Listings) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	if err := s.opts.latency.wait(ctx, OpRemoveFavorite); err != nil {
		return err
	}

	err := store.Update(ctx, s.store, store.Favorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
		kept := items[:0]
		for _, f := range items {
			if f.UserID == userID && f.ListingID == listingID {
				continue
			}
			kept = append(kept, f)
		}
		if len(kept) == len(items) {
			return nil, notFound("favorite not found")
		}
		return kept, nil
	})
	return internal("remove favorite", err)
}
