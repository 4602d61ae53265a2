package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// ResetRequestedMessage is returned by RequestPasswordReset whether or not the
// email is registered, so the response never reveals which emails exist.
const ResetRequestedMessage = "If the email exists, a password reset link has been sent to it."

// Auth manages accounts, the session record and password resets.
//
// Emails are compared case-sensitively, exactly as stored. Passwords are
// compared in plain text: this is a simulation, not a security boundary.
type Auth struct {
	store *store.Store
	opts  *options
}

// SignupRequest holds the fields of a new account.
type SignupRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.Role // empty means buyer
}

// Login checks credentials and records the user as the session user.
func (a *Auth) Login(ctx context.Context, email, password string) (domain.User, error) {
	if err := a.opts.latency.wait(ctx, OpLogin); err != nil {
		return domain.User{}, err
	}

	for _, u := range store.GetAll(a.store, store.Users) {
		if u.Email == email && u.Password == password {
			return a.startSession(ctx, u)
		}
	}
	return domain.User{}, newError(KindInvalidCredentials, "invalid email or password")
}

// Signup creates a user and logs them in.
func (a *Auth) Signup(ctx context.Context, req SignupRequest) (domain.User, error) {
	if err := a.opts.latency.wait(ctx, OpSignup); err != nil {
		return domain.User{}, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	if !domain.ValidRoles[role] {
		return domain.User{}, validation(fmt.Sprintf("unknown role %q", role))
	}

	user := domain.User{
		ID:        a.store.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      role,
		AvatarURL: "https://picsum.photos/40/40?random=" + strconv.Itoa(rand.IntN(100)),
		Password:  req.Password,
	}

	err := store.Update(ctx, a.store, store.Users, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if u.Email == req.Email {
				return nil, conflict("email already exists")
			}
		}
		return append(users, user), nil
	})
	if err != nil {
		return domain.User{}, internal("signup", err)
	}

	return a.startSession(ctx, user)
}

// Logout clears the session record. The user record is untouched.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.opts.latency.wait(ctx, OpLogout); err != nil {
		return err
	}
	return internal("logout", a.store.ClearCurrentUser(ctx))
}

// CurrentUser returns the session user without a round-trip; the session
// record is client-local state.
func (a *Auth) CurrentUser(ctx context.Context) (domain.User, bool, error) {
	u, ok, err := a.store.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, false, internal("read session", err)
	}
	return u, ok, nil
}

// UpdatePassword replaces a user's password after checking the current one.
// A wrong current password is KindInvalidCredentials; an unknown user is
// KindNotFound. If the user is the session user the session copy is refreshed.
func (a *Auth) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (domain.User, error) {
	if err := a.opts.latency.wait(ctx, OpUpdatePassword); err != nil {
		return domain.User{}, err
	}

	var updated domain.User
	err := store.Update(ctx, a.store, store.Users, func(users []domain.User) ([]domain.User, error) {
		for i, u := range users {
			if u.ID != userID {
				continue
			}
			if u.Password != currentPassword {
				return nil, newError(KindInvalidCredentials, "current password is incorrect")
			}
			u.Password = newPassword
			users[i] = u
			updated = u
			return users, nil
		}
		return nil, notFound("user not found")
	})
	if err != nil {
		return domain.User{}, internal("update password", err)
	}

	current, ok, err := a.store.CurrentUser(ctx)
	if err == nil && ok && current.ID == userID {
		if err := a.store.SetCurrentUser(ctx, updated); err != nil {
			return domain.User{}, internal("refresh session", err)
		}
	}
	return updated.Public(), nil
}

// RequestPasswordReset issues a reset token for email if it is registered.
//
// It always succeeds with ResetRequestedMessage. For a registered user every
// earlier token is revoked, a new token valid for the configured TTL is
// stored and its link is handed to the ResetNotifier.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if err := a.opts.latency.wait(ctx, OpRequestPasswordReset); err != nil {
		return "", err
	}

	var user domain.User
	found := false
	for _, u := range store.GetAll(a.store, store.Users) {
		if u.Email == email {
			user, found = u, true
			break
		}
	}
	if !found {
		return ResetRequestedMessage, nil
	}

	now := a.store.Now()
	token := domain.PasswordResetToken{
		ID:        a.store.NewID(),
		UserID:    user.ID,
		Token:     a.store.NewID() + "-" + strconv.FormatInt(now.UnixMilli(), 36),
		ExpiresAt: now.Add(a.opts.resetTTL),
	}

	err := store.Update(ctx, a.store, store.PasswordResetTokens, func(tokens []domain.PasswordResetToken) ([]domain.PasswordResetToken, error) {
		kept := tokens[:0]
		for _, t := range tokens {
			if t.UserID != user.ID {
				kept = append(kept, t)
			}
		}
		return append(kept, token), nil
	})
	if err != nil {
		return "", internal("request password reset", err)
	}

	if err := a.opts.notifier.NotifyPasswordReset(ctx, email, "#/reset-password/"+token.Token); err != nil {
		return "", internal("send reset link", err)
	}
	return ResetRequestedMessage, nil
}

// ResetPassword consumes a reset token and sets a new password.
//
// Unknown tokens are KindNotFound. An expired token is deleted and reported
// as KindExpired. On success the token is deleted; the user is not logged in.
//
// The token is looked up and removed in one store update before the
// password is written, so a token can be redeemed at most once even when
// two resets race on it.
func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := a.opts.latency.wait(ctx, OpResetPassword); err != nil {
		return err
	}

	var found domain.PasswordResetToken
	err := store.Update(ctx, a.store, store.PasswordResetTokens, func(tokens []domain.PasswordResetToken) ([]domain.PasswordResetToken, error) {
		i := slices.IndexFunc(tokens, func(t domain.PasswordResetToken) bool { return t.Token == token })
		if i < 0 {
			return nil, notFound("invalid password reset link")
		}
		found = tokens[i]
		return slices.Delete(tokens, i, i+1), nil
	})
	if err != nil {
		return internal("consume reset token", err)
	}

	if found.Expired(a.store.Now()) {
		return newError(KindExpired, "password reset link has expired")
	}

	err = store.Update(ctx, a.store, store.Users, func(users []domain.User) ([]domain.User, error) {
		for i, u := range users {
			if u.ID == found.UserID {
				u.Password = newPassword
				users[i] = u
				return users, nil
			}
		}
		return nil, notFound("the user for this reset link no longer exists")
	})
	return internal("reset password", err)
}

func (a *Auth) startSession(ctx context.Context, u domain.User) (domain.User, error) {
	public := u.Public()
	if err := a.store.SetCurrentUser(ctx, public); err != nil {
		return domain.User{}, internal("start session", err)
	}
	return public, nil
}
