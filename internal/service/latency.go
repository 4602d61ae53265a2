package service

import (
	"context"
	"time"
)

// Op names a service operation for latency lookup.
type Op string

const (
	OpLogin                Op = "auth.login"
	OpSignup               Op = "auth.signup"
	OpLogout               Op = "auth.logout"
	OpUpdatePassword       Op = "auth.updatePassword"
	OpRequestPasswordReset Op = "auth.requestPasswordReset"
	OpResetPassword        Op = "auth.resetPassword"

	OpListListings      Op = "listing.list"
	OpGetListing        Op = "listing.get"
	OpCreateListing     Op = "listing.create"
	OpUpdateListing     Op = "listing.update"
	OpDeleteListing     Op = "listing.delete"
	OpContactClick      Op = "listing.contactClick"
	OpSetVisibility     Op = "listing.setVisibility"
	OpListFavorites     Op = "favorite.list"
	OpAddFavorite       Op = "favorite.add"
	OpRemoveFavorite    Op = "favorite.remove"
	OpSaveSearch        Op = "search.save"
	OpListSavedSearches Op = "search.list"
	OpDeleteSavedSearch Op = "search.delete"

	OpListConversations Op = "chat.list"
	OpGetConversation   Op = "chat.get"
	OpCreateOrGet       Op = "chat.createOrGet"
	OpSendMessage       Op = "chat.send"

	OpGetUser    Op = "user.get"
	OpListUsers  Op = "user.list"
	OpGetAgent   Op = "agent.get"
	OpListAgents Op = "agent.list"
)

// DefaultDelays are the simulated round-trip times per operation.
var DefaultDelays = map[Op]time.Duration{
	OpLogin:                500 * time.Millisecond,
	OpSignup:               500 * time.Millisecond,
	OpLogout:               300 * time.Millisecond,
	OpUpdatePassword:       500 * time.Millisecond,
	OpRequestPasswordReset: 1000 * time.Millisecond,
	OpResetPassword:        1000 * time.Millisecond,

	OpListListings:      300 * time.Millisecond,
	OpGetListing:        300 * time.Millisecond,
	OpCreateListing:     500 * time.Millisecond,
	OpUpdateListing:     500 * time.Millisecond,
	OpDeleteListing:     300 * time.Millisecond,
	OpContactClick:      100 * time.Millisecond,
	OpSetVisibility:     300 * time.Millisecond,
	OpListFavorites:     300 * time.Millisecond,
	OpAddFavorite:       300 * time.Millisecond,
	OpRemoveFavorite:    300 * time.Millisecond,
	OpSaveSearch:        300 * time.Millisecond,
	OpListSavedSearches: 300 * time.Millisecond,
	OpDeleteSavedSearch: 300 * time.Millisecond,

	OpListConversations: 300 * time.Millisecond,
	OpGetConversation:   200 * time.Millisecond,
	OpCreateOrGet:       300 * time.Millisecond,
	OpSendMessage:       100 * time.Millisecond,

	OpGetUser:    200 * time.Millisecond,
	OpListUsers:  200 * time.Millisecond,
	OpGetAgent:   200 * time.Millisecond,
	OpListAgents: 200 * time.Millisecond,
}

// Latency simulates network round-trips.
//
// Scale multiplies every delay: 1 reproduces DefaultDelays, 0 disables
// waiting entirely (tests, batch CLI use).
type Latency struct {
	Scale  float64
	Delays map[Op]time.Duration // nil means DefaultDelays
}

// Delay returns the scaled delay for op.
func (l Latency) Delay(op Op) time.Duration {
	if l.Scale <= 0 {
		return 0
	}
	delays := l.Delays
	if delays == nil {
		delays = DefaultDelays
	}
	return time.Duration(float64(delays[op]) * l.Scale)
}

// wait blocks for op's delay. It returns ctx.Err() if ctx is done first,
// in which case the caller must not apply any effect.
func (l Latency) wait(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d := l.Delay(op)
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
