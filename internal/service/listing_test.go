package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

func listingIDs(ls []domain.Listing) []string {
	ids := make([]string, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
	}
	return ids
}

func findListing(t *testing.T, st *store.Store, id string) domain.Listing {
	t.Helper()
	for _, l := range store.GetAll(st, store.Listings) {
		if l.ID == id {
			return l
		}
	}
	t.Fatalf("listing %s not in store", id)
	return domain.Listing{}
}

func TestList_DefaultHidesHiddenNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.svc.Listings.List(context.Background(), domain.ListingFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"l-2", "l-1", "l-4", "l-3"}, listingIDs(got))

	all, err := env.svc.Listings.List(context.Background(), domain.ListingFilters{IncludeHidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"l-2", "l-1", "l-4", "l-3", "l-5"}, listingIDs(all))
}

func TestList_Filters(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		filters domain.ListingFilters
		want    []string
	}{
		{"type", domain.ListingFilters{Type: domain.ListingRent}, []string{"l-2", "l-4"}},
		{"property type", domain.ListingFilters{PropertyType: domain.PropertyLand}, []string{"l-3"}},
		{"price range inclusive", domain.ListingFilters{MinPrice: ptr(int64(3_200_000_000)), MaxPrice: ptr(int64(5_500_000_000))}, []string{"l-1", "l-3"}},
		{"area lower bound", domain.ListingFilters{MinArea: ptr(120.0)}, []string{"l-2", "l-4"}},
		{"area upper bound", domain.ListingFilters{MaxArea: ptr(100.0)}, []string{"l-1", "l-3"}},
		{"bedrooms lower bound", domain.ListingFilters{Bedrooms: ptr(3)}, []string{"l-2"}},
		{"district substring", domain.ListingFilters{District: "quận"}, []string{"l-2"}},
		{"city case-insensitive", domain.ListingFilters{City: "hà nội"}, []string{"l-4"}},
		{"query hits address", domain.ListingFilters{SearchQuery: "duy tân"}, []string{"l-4"}},
		{"query hits description", domain.ListingFilters{SearchQuery: "METRO"}, []string{"l-3"}},
		{"conjunctive", domain.ListingFilters{Type: domain.ListingSale, City: "Hồ Chí Minh", Bedrooms: ptr(1)}, []string{"l-1"}},
		{"hidden included", domain.ListingFilters{PropertyType: domain.PropertyVilla, IncludeHidden: true}, []string{"l-5"}},
		{"hidden excluded", domain.ListingFilters{PropertyType: domain.PropertyVilla}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.svc.Listings.List(context.Background(), tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, listingIDs(got))
			for _, l := range got {
				assert.True(t, tt.filters.Match(l))
			}
		})
	}
}

func TestAgentListingPriceAreaScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	agent, err := env.svc.Auth.Signup(ctx, SignupRequest{
		Name:     "Agent One",
		Email:    "agent1@example.com",
		Password: "pw",
		Role:     domain.RoleAgent,
	})
	require.NoError(t, err)

	l, err := env.svc.Listings.Create(ctx, domain.ListingDraft{
		Title:          "Căn hộ mới",
		Price:          2_000_000_000,
		PriceUnit:      domain.UnitVND,
		Type:           domain.ListingSale,
		PropertyType:   domain.PropertyApartment,
		Area:           80,
		PostedByUserID: agent.ID,
	})
	require.NoError(t, err)

	inRange, err := env.svc.Listings.List(ctx, domain.ListingFilters{
		MinPrice: ptr(int64(1_000_000_000)),
		MaxPrice: ptr(int64(3_000_000_000)),
	})
	require.NoError(t, err)
	assert.Contains(t, listingIDs(inRange), l.ID)

	big, err := env.svc.Listings.List(ctx, domain.ListingFilters{MinArea: ptr(100.0)})
	require.NoError(t, err)
	assert.NotContains(t, listingIDs(big), l.ID)
}

func TestCreate_AssignsServerFields(t *testing.T) {
	env := newTestEnv(t)

	l, err := env.svc.Listings.Create(context.Background(), domain.ListingDraft{
		Title:          "Shophouse",
		PropertyType:   domain.PropertyShophouse,
		PostedByUserID: "u-agent-2",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, env.clock.Now(), l.PostedAt)
	assert.Equal(t, domain.StatusActive, l.Status)
	assert.Zero(t, l.Views)
	assert.Zero(t, l.ContactClicks)
	assert.False(t, l.IsHidden)
	assert.Equal(t, []string{}, l.Images)

	got, err := env.svc.Listings.List(context.Background(), domain.ListingFilters{})
	require.NoError(t, err)
	assert.Equal(t, l.ID, got[0].ID, "new listing sorts first")
}

func TestGet_CountsEveryView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	const n = 7

	before := findListing(t, env.store, "l-3").Views
	var last domain.Listing
	for i := 0; i < n; i++ {
		var err error
		last, err = env.svc.Listings.Get(ctx, "l-3")
		require.NoError(t, err)
		assert.Equal(t, before+int64(i)+1, last.Views)
	}
	assert.Equal(t, before+n, findListing(t, env.store, "l-3").Views)
	assert.Equal(t, findListing(t, env.store, "l-3").ContactClicks, last.ContactClicks)
}

func TestGet_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Listings.Get(context.Background(), "l-404")
	assert.True(t, IsNotFound(err))
}

func TestUpdate_ShallowMerge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	got, err := env.svc.Listings.Update(ctx, "l-1", domain.ListingPatch{
		Price:  ptr(int64(-1)),
		Status: ptr(domain.StatusSold),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), got.Price, "no value validation at this layer")
	assert.Equal(t, domain.StatusSold, got.Status)
	assert.Equal(t, "Căn hộ 2PN Vinhomes Central Park", got.Title)
	assert.Equal(t, got, findListing(t, env.store, "l-1"))

	_, err = env.svc.Listings.Update(ctx, "l-404", domain.ListingPatch{Title: ptr("x")})
	assert.True(t, IsNotFound(err))
}

func TestDelete_CascadesFavorites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Listings.AddFavorite(ctx, "u-agent-2", "l-1")
	require.NoError(t, err)
	_, err = env.svc.Listings.AddFavorite(ctx, "u-buyer-1", "l-2")
	require.NoError(t, err)

	require.NoError(t, env.svc.Listings.Delete(ctx, "l-1"))

	_, err = env.svc.Listings.Get(ctx, "l-1")
	assert.True(t, IsNotFound(err))
	for _, f := range store.GetAll(env.store, store.Favorites) {
		assert.NotEqual(t, "l-1", f.ListingID)
	}
	assert.Len(t, store.GetAll(env.store, store.Favorites), 1)

	err = env.svc.Listings.Delete(ctx, "l-1")
	assert.True(t, IsNotFound(err))
}

func TestIncrementContactClicks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.svc.Listings.IncrementContactClicks(ctx, "l-2"))
	require.NoError(t, env.svc.Listings.IncrementContactClicks(ctx, "l-2"))

	l := findListing(t, env.store, "l-2")
	assert.Equal(t, int64(5), l.ContactClicks)
	assert.Equal(t, int64(45), l.Views, "views untouched")

	assert.True(t, IsNotFound(env.svc.Listings.IncrementContactClicks(ctx, "nope")))
}

func TestSetVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	l, err := env.svc.Listings.SetVisibility(ctx, "l-1", true)
	require.NoError(t, err)
	assert.True(t, l.IsHidden)

	visible, err := env.svc.Listings.List(ctx, domain.ListingFilters{})
	require.NoError(t, err)
	assert.NotContains(t, listingIDs(visible), "l-1")

	l, err = env.svc.Listings.SetVisibility(ctx, "l-5", false)
	require.NoError(t, err)
	assert.False(t, l.IsHidden)

	_, err = env.svc.Listings.SetVisibility(ctx, "nope", true)
	assert.True(t, IsNotFound(err))
}

func TestCreate_StoresImagesAsGiven(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.clock.Advance(time.Hour)

	l, err := env.svc.Listings.Create(ctx, domain.ListingDraft{Title: "Persisted", Images: []string{"data:image/png;base64,AAAA"}})
	require.NoError(t, err)

	snap, err := env.store.Snapshot()
	require.NoError(t, err)
	var found bool
	for _, got := range snap.Listings {
		if got.ID == l.ID {
			found = true
			assert.Equal(t, []string{"data:image/png;base64,AAAA"}, got.Images)
			assert.True(t, got.PostedAt.Equal(l.PostedAt))
		}
	}
	assert.True(t, found)
}
