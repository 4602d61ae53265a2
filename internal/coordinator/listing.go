package coordinator

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/service"
)

// Listing caches the current listing page and the session user's favorites.
type Listing struct {
	status

	svc  *service.Listings
	auth *Auth

	mu        sync.RWMutex
	listings  []domain.Listing
	favorites []domain.Favorite
}

// NewListing creates the coordinator. Nothing is fetched until
// FetchListings or RefreshFavorites is called.
func NewListing(svc *service.Listings, auth *Auth) *Listing {
	return &Listing{svc: svc, auth: auth}
}

// Listings returns a copy of the cached listing page.
func (c *Listing) Listings() []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.listings)
}

// Favorites returns a copy of the cached favorites.
func (c *Listing) Favorites() []domain.Favorite {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.favorites)
}

// IsFavorite reports whether the session user has saved listingID,
// according to the cache.
func (c *Listing) IsFavorite(listingID string) bool {
	u, ok := c.auth.User()
	if !ok {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.ContainsFunc(c.favorites, func(f domain.Favorite) bool {
		return f.UserID == u.ID && f.ListingID == listingID
	})
}

// FetchListings replaces the cached page with the listings matching f.
// Hidden listings stay out unless f asks for them.
func (c *Listing) FetchListings(ctx context.Context, f domain.ListingFilters) (err error) {
	done := c.begin()
	defer func() { done(err) }()

	got, err := c.svc.List(ctx, f)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.listings = got
	c.mu.Unlock()
	return nil
}

// RefreshFavorites reloads the session user's favorites, or clears them
// when nobody is logged in.
func (c *Listing) RefreshFavorites(ctx context.Context) (err error) {
	u, ok := c.auth.User()
	if !ok {
		c.mu.Lock()
		c.favorites = nil
		c.mu.Unlock()
		return nil
	}

	done := c.begin()
	defer func() { done(err) }()

	got, err := c.svc.ListFavorites(ctx, u.ID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.favorites = got
	c.mu.Unlock()
	return nil
}

// GetListingDetails fetches one listing, counting a view, and refreshes
// its cached copy.
func (c *Listing) GetListingDetails(ctx context.Context, id string) (l domain.Listing, err error) {
	done := c.begin()
	defer func() { done(err) }()

	l, err = c.svc.Get(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	c.replaceCached(l)
	return l, nil
}

// AddListing creates a listing and puts it at the top of the cached page.
func (c *Listing) AddListing(ctx context.Context, d domain.ListingDraft) (l domain.Listing, err error) {
	done := c.begin()
	defer func() { done(err) }()

	l, err = c.svc.Create(ctx, d)
	if err != nil {
		return domain.Listing{}, err
	}
	c.mu.Lock()
	c.listings = append([]domain.Listing{l}, c.listings...)
	c.mu.Unlock()
	return l, nil
}

// UpdateListing patches a listing and refreshes its cached copy.
func (c *Listing) UpdateListing(ctx context.Context, id string, p domain.ListingPatch) (l domain.Listing, err error) {
	done := c.begin()
	defer func() { done(err) }()

	l, err = c.svc.Update(ctx, id, p)
	if err != nil {
		return domain.Listing{}, err
	}
	c.replaceCached(l)
	return l, nil
}

// DeleteListing removes a listing and drops it, and any cached favorite
// pointing at it, from the cache.
func (c *Listing) DeleteListing(ctx context.Context, id string) (err error) {
	done := c.begin()
	defer func() { done(err) }()

	if err = c.svc.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = slices.DeleteFunc(c.listings, func(l domain.Listing) bool { return l.ID == id })
	c.favorites = slices.DeleteFunc(c.favorites, func(f domain.Favorite) bool { return f.ListingID == id })
	return nil
}

// AddFavorite saves listingID for the session user.
func (c *Listing) AddFavorite(ctx context.Context, listingID string) (err error) {
	u, ok := c.auth.User()
	if !ok {
		return ErrLoginRequired
	}

	done := c.begin()
	defer func() { done(err) }()

	fav, err := c.svc.AddFavorite(ctx, u.ID, listingID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.favorites = append(c.favorites, fav)
	c.mu.Unlock()
	return nil
}

// RemoveFavorite unsaves listingID for the session user.
func (c *Listing) RemoveFavorite(ctx context.Context, listingID string) (err error) {
	u, ok := c.auth.User()
	if !ok {
		return ErrLoginRequired
	}

	done := c.begin()
	defer func() { done(err) }()

	if err = c.svc.RemoveFavorite(ctx, u.ID, listingID); err != nil {
		return err
	}
	c.mu.Lock()
	c.favorites = slices.DeleteFunc(c.favorites, func(f domain.Favorite) bool { return f.ListingID == listingID })
	c.mu.Unlock()
	return nil
}

// IncrementContactClicks records a contact action and bumps the cached
// counter. It does not touch Loading or Err: contact clicks are fire-and-forget.
func (c *Listing) IncrementContactClicks(ctx context.Context, listingID string) error {
	if err := c.svc.IncrementContactClicks(ctx, listingID); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.listings {
		if c.listings[i].ID == listingID {
			c.listings[i].ContactClicks++
		}
	}
	return nil
}

// ToggleListingVisibility hides or shows a listing and refreshes its
// cached copy. Checking that the caller is an admin is up to the UI.
func (c *Listing) ToggleListingVisibility(ctx context.Context, id string, hidden bool) (l domain.Listing, err error) {
	done := c.begin()
	defer func() { done(err) }()

	l, err = c.svc.SetVisibility(ctx, id, hidden)
	if err != nil {
		return domain.Listing{}, err
	}
	c.replaceCached(l)
	return l, nil
}

func (c *Listing) replaceCached(l domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.listings {
		if c.listings[i].ID == l.ID {
			c.listings[i] = l
		}
	}
}
