package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/domain"
)

func TestSavedSearches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rentals, err := env.svc.Listings.SaveSearch(ctx, "u-buyer-1", "Thuê HCM", domain.ListingFilters{
		Type: domain.ListingRent,
		City: "hồ chí minh",
	})
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	cheap, err := env.svc.Listings.SaveSearch(ctx, "u-buyer-1", "Dưới 4 tỷ", domain.ListingFilters{
		MaxPrice: ptr(int64(4_000_000_000)),
	})
	require.NoError(t, err)
	_, err = env.svc.Listings.SaveSearch(ctx, "u-agent-1", "Other user", domain.ListingFilters{})
	require.NoError(t, err)

	list, err := env.svc.Listings.ListSavedSearches(ctx, "u-buyer-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, cheap.ID, list[0].ID, "newest first")
	assert.Equal(t, rentals.ID, list[1].ID)

	got, err := env.svc.Listings.RunSavedSearch(ctx, "u-buyer-1", rentals.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"l-2"}, listingIDs(got))

	got, err = env.svc.Listings.RunSavedSearch(ctx, "u-buyer-1", cheap.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"l-2", "l-4", "l-3"}, listingIDs(got))

	// Owned by someone else: indistinguishable from missing.
	_, err = env.svc.Listings.RunSavedSearch(ctx, "u-agent-1", rentals.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(env.svc.Listings.DeleteSavedSearch(ctx, "u-agent-1", rentals.ID)))

	require.NoError(t, env.svc.Listings.DeleteSavedSearch(ctx, "u-buyer-1", rentals.ID))
	list, err = env.svc.Listings.ListSavedSearches(ctx, "u-buyer-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, cheap.ID, list[0].ID)
}

func TestSaveSearch_RequiresName(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Listings.SaveSearch(context.Background(), "u-buyer-1", "", domain.ListingFilters{})
	assert.Equal(t, KindValidation, KindOf(err))
}
