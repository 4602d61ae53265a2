package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/kv"
)

func TestGetAll_ReturnsCopy(t *testing.T) {
	s, _ := createTestStore(t)

	users := GetAll(s, Users)
	require.NotEmpty(t, users)
	users[0].Name = "changed"

	again := GetAll(s, Users)
	require.NotEmpty(t, again)
	assert.NotEqual(t, "changed", again[0].Name)
}

func TestReplaceAll_PersistsWholeDatabase(t *testing.T) {
	s, medium := createTestStore(t)
	ctx := context.Background()

	fav := domain.Favorite{ID: "f-x", UserID: "u-buyer-1", ListingID: "l-2"}
	require.NoError(t, ReplaceAll(ctx, s, Favorites, []domain.Favorite{fav}))

	blob, err := medium.Load(ctx, DefaultStorageKey)
	require.NoError(t, err)
	db, err := decodeDatabase(blob)
	require.NoError(t, err)
	require.Len(t, db.Favorites, 1)
	assert.Equal(t, "f-x", db.Favorites[0].ID)
	assert.NotEmpty(t, db.Users, "other collections are written too")
}

func TestReplaceAll_NilBecomesEmpty(t *testing.T) {
	s, _ := createTestStore(t)
	require.NoError(t, ReplaceAll(context.Background(), s, Favorites, nil))

	favs := GetAll(s, Favorites)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}

func TestUpdate_AppliesTransform(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	before := len(GetAll(s, Favorites))

	err := Update(ctx, s, Favorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
		return append(items, domain.Favorite{ID: "f-new"}), nil
	})
	require.NoError(t, err)
	assert.Len(t, GetAll(s, Favorites), before+1)
}

func TestUpdate_ErrorAbortsWrite(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()
	before := GetAll(s, Favorites)
	sentinel := errors.New("stop")

	err := Update(ctx, s, Favorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, before, GetAll(s, Favorites))
}

func TestUpdate_PersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	medium := &failingKV{Memory: kv.NewMemory()}
	s, err := Open(ctx, medium)
	require.NoError(t, err)
	before := GetAll(s, Listings)

	medium.failSave = true
	err = Update(ctx, s, Listings, func(items []domain.Listing) ([]domain.Listing, error) {
		return items[:0], nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMediumDown)
	assert.Equal(t, before, GetAll(s, Listings))
}

func TestCollection_Names(t *testing.T) {
	assert.Equal(t, NameUsers, Users.Name())
	assert.Equal(t, NameSavedSearches, SavedSearches.Name())
	assert.Equal(t, NamePasswordResetTokens, PasswordResetTokens.Name())
	assert.Len(t, Names, 7)
}
