package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/service"
)

// Auth holds the session user.
type Auth struct {
	status

	svc *service.Auth

	mu   sync.RWMutex
	user *domain.User
}

// NewAuth creates the coordinator and restores any persisted session.
// An unreadable session record is logged and treated as logged out.
func NewAuth(ctx context.Context, svc *service.Auth) *Auth {
	a := &Auth{svc: svc}
	u, ok, err := svc.CurrentUser(ctx)
	if err != nil {
		slog.Warn("could not restore session", "error", err)
		return a
	}
	if ok {
		a.user = &u
	}
	return a
}

// User returns the session user, if any.
func (a *Auth) User() (domain.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return domain.User{}, false
	}
	return *a.user, true
}

func (a *Auth) setUser(u *domain.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

// Login authenticates and becomes the session user on success.
func (a *Auth) Login(ctx context.Context, email, password string) (u domain.User, err error) {
	done := a.begin()
	defer func() { done(err) }()

	u, err = a.svc.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	a.setUser(&u)
	return u, nil
}

// Signup registers an account and logs it in.
func (a *Auth) Signup(ctx context.Context, req service.SignupRequest) (u domain.User, err error) {
	done := a.begin()
	defer func() { done(err) }()

	u, err = a.svc.Signup(ctx, req)
	if err != nil {
		return domain.User{}, err
	}
	a.setUser(&u)
	return u, nil
}

// Logout ends the session.
func (a *Auth) Logout(ctx context.Context) (err error) {
	done := a.begin()
	defer func() { done(err) }()

	if err = a.svc.Logout(ctx); err != nil {
		return err
	}
	a.setUser(nil)
	return nil
}

// UpdatePassword changes the session user's password.
func (a *Auth) UpdatePassword(ctx context.Context, currentPassword, newPassword string) (err error) {
	done := a.begin()
	defer func() { done(err) }()

	u, ok := a.User()
	if !ok {
		return ErrLoginRequired
	}
	_, err = a.svc.UpdatePassword(ctx, u.ID, currentPassword, newPassword)
	return err
}

// RequestPasswordReset asks for a reset link and returns the generic reply.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (msg string, err error) {
	done := a.begin()
	defer func() { done(err) }()

	return a.svc.RequestPasswordReset(ctx, email)
}

// ResetPassword consumes a reset token. The session is left as it was.
func (a *Auth) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	done := a.begin()
	defer func() { done(err) }()

	return a.svc.ResetPassword(ctx, token, newPassword)
}
