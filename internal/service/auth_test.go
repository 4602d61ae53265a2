package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

func TestSignupThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.Auth.Signup(ctx, SignupRequest{
		Name:     "Phạm Thu",
		Email:    "thu@example.com",
		Phone:    "0987654321",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Empty(t, created.Password)
	assert.Equal(t, domain.RoleBuyer, created.Role)
	assert.True(t, strings.HasPrefix(created.AvatarURL, "https://picsum.photos/40/40?random="))

	require.NoError(t, env.svc.Auth.Logout(ctx))

	got, err := env.svc.Auth.Login(ctx, "thu@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.Password)

	session, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, session.ID)
	assert.Empty(t, session.Password)
}

func TestSignup_StartsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.svc.Auth.Signup(ctx, SignupRequest{Name: "A", Email: "a@x.com", Password: "p", Role: domain.RoleAgent})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, u.Role)

	session, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u, session)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	before := len(store.GetAll(env.store, store.Users))

	_, err := env.svc.Auth.Signup(context.Background(), SignupRequest{Email: "an.nguyen@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Len(t, store.GetAll(env.store, store.Users), before)
}

func TestSignup_EmailIsCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Auth.Signup(context.Background(), SignupRequest{Email: "AN.NGUYEN@example.com", Password: "x"})
	assert.NoError(t, err)
}

func TestSignup_UnknownRole(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Auth.Signup(context.Background(), SignupRequest{Email: "r@x.com", Role: "landlord"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "an.nguyen@example.com", "nope"},
		{"unknown email", "ghost@example.com", "password123"},
		{"email case differs", "An.Nguyen@example.com", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Auth.Login(ctx, tt.email, tt.password)
			assert.Equal(t, KindInvalidCredentials, KindOf(err))
		})
	}

	_, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_KeepsUserRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	require.NoError(t, env.svc.Auth.Logout(ctx))

	_, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.svc.Users.GetUser(ctx, "u-admin-1")
	assert.NoError(t, err)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.Login(ctx, "an.nguyen@example.com", "password123")
	require.NoError(t, err)

	u, err := env.svc.Auth.UpdatePassword(ctx, "u-buyer-1", "password123", "newpass")
	require.NoError(t, err)
	assert.Empty(t, u.Password)

	_, err = env.svc.Auth.Login(ctx, "an.nguyen@example.com", "password123")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	_, err = env.svc.Auth.Login(ctx, "an.nguyen@example.com", "newpass")
	assert.NoError(t, err)

	session, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, session.Password)
}

func TestUpdatePassword_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.UpdatePassword(ctx, "u-buyer-1", "wrong", "newpass")
	assert.Equal(t, KindInvalidCredentials, KindOf(err))

	_, err = env.svc.Auth.UpdatePassword(ctx, "u-nobody", "password123", "newpass")
	assert.True(t, IsNotFound(err))

	// Neither failure changed the stored password.
	_, err = env.svc.Auth.Login(ctx, "an.nguyen@example.com", "password123")
	assert.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	msg, err := env.svc.Auth.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, ResetRequestedMessage, msg)
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))
	assert.Empty(t, env.notifier.Sent())
}

func TestRequestPasswordReset_ReplacesEarlierTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.RequestPasswordReset(ctx, "an.nguyen@example.com")
	require.NoError(t, err)
	_, err = env.svc.Auth.RequestPasswordReset(ctx, "minh.le@example.com")
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	msg, err := env.svc.Auth.RequestPasswordReset(ctx, "an.nguyen@example.com")
	require.NoError(t, err)
	assert.Equal(t, ResetRequestedMessage, msg)

	tokens := store.GetAll(env.store, store.PasswordResetTokens)
	require.Len(t, tokens, 2)
	var buyerTokens []domain.PasswordResetToken
	for _, tok := range tokens {
		if tok.UserID == "u-buyer-1" {
			buyerTokens = append(buyerTokens, tok)
		}
	}
	require.Len(t, buyerTokens, 1)
	assert.Equal(t, env.clock.Now().Add(DefaultResetTokenTTL), buyerTokens[0].ExpiresAt)

	sent := env.notifier.Sent()
	require.Len(t, sent, 3)
	assert.Equal(t, "an.nguyen@example.com", sent[2].Email)
	assert.Equal(t, "#/reset-password/"+buyerTokens[0].Token, sent[2].Link)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.RequestPasswordReset(ctx, "an.nguyen@example.com")
	require.NoError(t, err)
	token := store.GetAll(env.store, store.PasswordResetTokens)[0].Token

	require.NoError(t, env.svc.Auth.ResetPassword(ctx, token, "fresh"))
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))

	// Reset does not log the user in.
	_, ok, err := env.svc.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.svc.Auth.Login(ctx, "an.nguyen@example.com", "fresh")
	assert.NoError(t, err)

	// Single use.
	err = env.svc.Auth.ResetPassword(ctx, token, "again")
	assert.True(t, IsNotFound(err))
}

func TestResetPassword_ExpiredTokenIsPurged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.RequestPasswordReset(ctx, "an.nguyen@example.com")
	require.NoError(t, err)
	token := store.GetAll(env.store, store.PasswordResetTokens)[0].Token

	env.clock.Advance(DefaultResetTokenTTL + time.Second)

	err = env.svc.Auth.ResetPassword(ctx, token, "late")
	require.Error(t, err)
	assert.True(t, IsExpired(err))
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))

	_, err = env.svc.Auth.Login(ctx, "an.nguyen@example.com", "password123")
	assert.NoError(t, err)
}

func TestResetPassword_PastExpiresAt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, env.store, store.PasswordResetTokens, []domain.PasswordResetToken{{
		ID:        "t-1",
		UserID:    "u-buyer-1",
		Token:     "stale",
		ExpiresAt: env.clock.Now().Add(-time.Minute),
	}}))

	err := env.svc.Auth.ResetPassword(ctx, "stale", "x")
	assert.True(t, IsExpired(err))
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))
}

func TestResetPassword_UserMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, env.store, store.PasswordResetTokens, []domain.PasswordResetToken{{
		ID:        "t-1",
		UserID:    "u-deleted",
		Token:     "orphan",
		ExpiresAt: env.clock.Now().Add(time.Hour),
	}}))

	err := env.svc.Auth.ResetPassword(ctx, "orphan", "x")
	assert.True(t, IsNotFound(err))
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))
}

func TestResetPassword_ConcurrentRedeemSucceedsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.RequestPasswordReset(ctx, "an.nguyen@example.com")
	require.NoError(t, err)
	token := store.GetAll(env.store, store.PasswordResetTokens)[0].Token

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = env.svc.Auth.ResetPassword(ctx, token, fmt.Sprintf("pw-%d", i))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, IsNotFound(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Empty(t, store.GetAll(env.store, store.PasswordResetTokens))
}

func TestResetTokenTTLOption(t *testing.T) {
	env := newTestEnv(t, WithResetTokenTTL(5*time.Minute))
	_, err := env.svc.Auth.RequestPasswordReset(context.Background(), "an.nguyen@example.com")
	require.NoError(t, err)

	tok := store.GetAll(env.store, store.PasswordResetTokens)[0]
	assert.Equal(t, env.clock.Now().Add(5*time.Minute), tok.ExpiresAt)
}
