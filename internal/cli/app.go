package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/homelist/internal/config"
	"github.com/roach88/homelist/internal/coordinator"
	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/kv"
	"github.com/roach88/homelist/internal/service"
	"github.com/roach88/homelist/internal/store"
)

// app is everything one command invocation needs: the opened store, the
// services over it and the client coordinators, with the session restored.
type app struct {
	cfg      config.Config
	store    *store.Store
	svc      *service.Services
	auth     *coordinator.Auth
	listings *coordinator.Listing
	chat     *coordinator.Chat
}

// resolveConfig loads the configuration and applies flag overrides.
func (o *RootOptions) resolveConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath, o.EnvPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
		if o.Backend == "" {
			cfg.Backend = config.BackendSQLite
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openMedium opens the key-value backend named by cfg.
func openMedium(cfg config.Config) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return kv.OpenSQLite(cfg.DBPath)
	case config.BackendRedis:
		return kv.NewRedis(kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// openApp resolves the configuration and opens the whole stack.
// Callers must Close the returned app.
func (o *RootOptions) openApp(ctx context.Context, extra ...service.Option) (*app, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	medium, err := openMedium(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}

	st, err := store.Open(ctx, medium,
		store.WithStorageKey(cfg.StorageKey),
		store.WithSessionKey(cfg.SessionKey),
	)
	if err != nil {
		return nil, errors.Join(
			WrapExitError(ExitCommandError, "failed to open store", err),
			medium.Close(),
		)
	}
	slog.Debug("store opened", "backend", cfg.Backend, "origin", st.Origin())

	opts := append([]service.Option{
		service.WithLatencyScale(cfg.LatencyScale),
		service.WithResetTokenTTL(cfg.ResetTokenTTL),
	}, extra...)
	svc := service.New(st, opts...)
	auth := coordinator.NewAuth(ctx, svc.Auth)

	return &app{
		cfg:      cfg,
		store:    st,
		svc:      svc,
		auth:     auth,
		listings: coordinator.NewListing(svc.Listings, auth),
		chat:     coordinator.NewChat(svc.Chat, svc.Users, auth),
	}, nil
}

// Close closes the storage backend.
func (a *app) Close() error {
	return a.store.Close()
}

// sessionUserID returns the id of the logged-in user.
func (a *app) sessionUserID() (string, error) {
	u, ok := a.auth.User()
	if !ok {
		return "", coordinator.ErrLoginRequired
	}
	return u.ID, nil
}

// requireRole returns the session user when their role is one of roles.
// The services never check roles; commands gate themselves with this.
func (a *app) requireRole(roles ...domain.Role) (domain.User, error) {
	u, ok := a.auth.User()
	if !ok {
		return domain.User{}, coordinator.ErrLoginRequired
	}
	if !slices.Contains(roles, u.Role) {
		return domain.User{}, forbidden(fmt.Sprintf("this action is not available to the %s role", u.Role))
	}
	return u, nil
}

// requireOwner fails unless u posted listing id. Admins pass when adminOK is
// set. A missing listing passes so the service reports it as not found.
// The lookup goes through List, not Get, so it does not count a view.
func (a *app) requireOwner(ctx context.Context, u domain.User, id string, adminOK bool) error {
	if adminOK && u.Role == domain.RoleAdmin {
		return nil
	}
	all, err := a.svc.Listings.List(ctx, domain.ListingFilters{IncludeHidden: true})
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(l domain.Listing) bool { return l.ID == id })
	if i >= 0 && all[i].PostedByUserID != u.ID {
		return forbidden("only the agent who posted this listing can change it")
	}
	return nil
}

func forbidden(message string) error {
	return &service.Error{Kind: service.KindUnauthorized, Message: message}
}

// withApp opens the stack, runs fn and closes the stack.
// Errors returned by fn are reported through f.Fail unless they already
// carry an exit code.
func (o *RootOptions) withApp(ctx context.Context, f *OutputFormatter, fn func(*app) error, extra ...service.Option) error {
	a, err := o.openApp(ctx, extra...)
	if err != nil {
		_ = f.Error(ErrCodeInternal, err.Error(), nil)
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("failed to close storage", "error", cerr)
		}
	}()

	if err := fn(a); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return f.Fail(err)
	}
	return nil
}
