package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/homelist/internal/store"
)

// DefaultResetTokenTTL is how long a password-reset token stays usable.
const DefaultResetTokenTTL = time.Hour

// ResetNotifier delivers a password-reset link to a user.
// Delivery is simulated; the default implementation logs the link.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email, link string) error
}

// LogNotifier writes reset links to the structured log.
type LogNotifier struct{}

// NotifyPasswordReset implements ResetNotifier.
func (LogNotifier) NotifyPasswordReset(_ context.Context, email, link string) error {
	slog.Info("password reset link issued", "email", email, "link", link)
	return nil
}

type options struct {
	latency  Latency
	resetTTL time.Duration
	notifier ResetNotifier
}

// Option configures the services.
type Option func(*options)

// WithLatency sets the simulated round-trip model.
// Default: Latency{Scale: 1} (DefaultDelays).
func WithLatency(l Latency) Option {
	return func(o *options) { o.latency = l }
}

// WithLatencyScale is shorthand for WithLatency(Latency{Scale: scale}).
// Use WithLatencyScale(0) in tests.
func WithLatencyScale(scale float64) Option {
	return func(o *options) { o.latency = Latency{Scale: scale} }
}

// WithResetTokenTTL sets the password-reset token lifetime.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(o *options) { o.resetTTL = ttl }
}

// WithResetNotifier sets how reset links are delivered. Default: LogNotifier.
func WithResetNotifier(n ResetNotifier) Option {
	return func(o *options) { o.notifier = n }
}

// Services bundles every domain service over one store.
type Services struct {
	Auth     *Auth
	Listings *Listings
	Chat     *Chat
	Users    *Users
}

// New creates the services. The store is shared, never copied.
func New(st *store.Store, opts ...Option) *Services {
	o := &options{
		latency:  Latency{Scale: 1},
		resetTTL: DefaultResetTokenTTL,
		notifier: LogNotifier{},
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Services{
		Auth:     &Auth{store: st, opts: o},
		Listings: &Listings{store: st, opts: o},
		Chat:     &Chat{store: st, opts: o},
		Users:    &Users{store: st, opts: o},
	}
}
