package service

import (
	"context"
	"slices"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// Listings manages property ads, favorites and saved searches.
//
// No operation checks who the caller is. Restricting SetVisibility to
// admins and Update/Delete to the poster is left to the caller.
type Listings struct {
	store *store.Store
	opts  *options
}

// List returns the listings matching f, newest first.
// Hidden listings are excluded unless f.IncludeHidden is set.
func (s *Listings) List(ctx context.Context, f domain.ListingFilters) ([]domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpListListings); err != nil {
		return nil, err
	}
	return s.search(f), nil
}

func (s *Listings) search(f domain.ListingFilters) []domain.Listing {
	out := []domain.Listing{}
	for _, l := range store.GetAll(s.store, store.Listings) {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Listing) int {
		return b.PostedAt.Compare(a.PostedAt)
	})
	return out
}

// Get returns a listing and counts the fetch as a view.
// Every call increments Views by one; the returned value is post-increment.
func (s *Listings) Get(ctx context.Context, id string) (domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpGetListing); err != nil {
		return domain.Listing{}, err
	}

	var got domain.Listing
	err := s.modify(ctx, id, func(l domain.Listing) domain.Listing {
		l.Views++
		got = l
		return l
	})
	if err != nil {
		return domain.Listing{}, err
	}
	return got, nil
}

// Create posts a new listing. The id, posting time, status (active),
// counters (zero) and visibility (shown) are assigned here.
// Field values are stored as given; validating them is the caller's job.
func (s *Listings) Create(ctx context.Context, d domain.ListingDraft) (domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpCreateListing); err != nil {
		return domain.Listing{}, err
	}

	images := slices.Clone(d.Images)
	if images == nil {
		images = []string{}
	}
	l := domain.Listing{
		ID:             s.store.NewID(),
		Title:          d.Title,
		Description:    d.Description,
		Price:          d.Price,
		PriceUnit:      d.PriceUnit,
		Type:           d.Type,
		PropertyType:   d.PropertyType,
		Area:           d.Area,
		Bedrooms:       d.Bedrooms,
		Bathrooms:      d.Bathrooms,
		Address:        d.Address,
		District:       d.District,
		City:           d.City,
		Coords:         d.Coords,
		Images:         images,
		PostedByUserID: d.PostedByUserID,
		PostedAt:       s.store.Now(),
		Status:         domain.StatusActive,
		Views:          0,
		ContactClicks:  0,
		IsHidden:       false,
	}

	err := store.Update(ctx, s.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		return append(items, l), nil
	})
	if err != nil {
		return domain.Listing{}, internal("create listing", err)
	}
	return l, nil
}

// Update shallow-merges p over the listing.
func (s *Listings) Update(ctx context.Context, id string, p domain.ListingPatch) (domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpUpdateListing); err != nil {
		return domain.Listing{}, err
	}

	var got domain.Listing
	err := s.modify(ctx, id, func(l domain.Listing) domain.Listing {
		got = p.Apply(l)
		return got
	})
	if err != nil {
		return domain.Listing{}, err
	}
	return got, nil
}

// Delete removes a listing and every favorite that references it.
func (s *Listings) Delete(ctx context.Context, id string) error {
	if err := s.opts.latency.wait(ctx, OpDeleteListing); err != nil {
		return err
	}

	removed := false
	err := store.Update(ctx, s.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		kept := items[:0]
		for _, l := range items {
			if l.ID == id {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		return kept, nil
	})
	if err != nil {
		return internal("delete listing", err)
	}

	// Favorites are purged even when the listing was already gone, so
	// orphans left by an interrupted delete are cleaned up too.
	err = store.Update(ctx, s.store, store.Favorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
		kept := items[:0]
		for _, f := range items {
			if f.ListingID != id {
				kept = append(kept, f)
			}
		}
		return kept, nil
	})
	if err != nil {
		return internal("delete listing favorites", err)
	}

	if !removed {
		return notFound("listing not found")
	}
	return nil
}

// IncrementContactClicks counts a call or message action on a listing.
// It is independent of the view counter.
func (s *Listings) IncrementContactClicks(ctx context.Context, id string) error {
	if err := s.opts.latency.wait(ctx, OpContactClick); err != nil {
		return err
	}
	return s.modify(ctx, id, func(l domain.Listing) domain.Listing {
		l.ContactClicks++
		return l
	})
}

// SetVisibility hides or shows a listing. Intended for moderators; no
// authorization is performed here.
func (s *Listings) SetVisibility(ctx context.Context, id string, hidden bool) (domain.Listing, error) {
	if err := s.opts.latency.wait(ctx, OpSetVisibility); err != nil {
		return domain.Listing{}, err
	}

	var got domain.Listing
	err := s.modify(ctx, id, func(l domain.Listing) domain.Listing {
		l.IsHidden = hidden
		got = l
		return l
	})
	if err != nil {
		return domain.Listing{}, err
	}
	return got, nil
}

// modify applies fn to the listing with the given id in a single store write.
func (s *Listings) modify(ctx context.Context, id string, fn func(domain.Listing) domain.Listing) error {
	err := store.Update(ctx, s.store, store.Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		for i, l := range items {
			if l.ID == id {
				items[i] = fn(l)
				return items, nil
			}
		}
		return nil, notFound("listing not found")
	})
	return internal("update listing", err)
}
