package service

import (
	"context"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// Users looks up accounts and agent profiles. Users never leave here with
// a password set.
type Users struct {
	store *store.Store
	opts  *options
}

// GetUser returns the user with the given id.
func (s *Users) GetUser(ctx context.Context, id string) (domain.User, error) {
	if err := s.opts.latency.wait(ctx, OpGetUser); err != nil {
		return domain.User{}, err
	}
	for _, u := range store.GetAll(s.store, store.Users) {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return domain.User{}, notFound("user not found")
}

// ListUsers returns every user.
func (s *Users) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.opts.latency.wait(ctx, OpListUsers); err != nil {
		return nil, err
	}
	all := store.GetAll(s.store, store.Users)
	out := make([]domain.User, 0, len(all))
	for _, u := range all {
		out = append(out, u.Public())
	}
	return out, nil
}

// GetAgentByUserID returns the agent profile linked to userID.
func (s *Users) GetAgentByUserID(ctx context.Context, userID string) (domain.Agent, error) {
	if err := s.opts.latency.wait(ctx, OpGetAgent); err != nil {
		return domain.Agent{}, err
	}
	return s.findAgent(func(a domain.Agent) bool { return a.AgentUserID == userID })
}

// GetAgent returns the agent profile with the given id.
func (s *Users) GetAgent(ctx context.Context, id string) (domain.Agent, error) {
	if err := s.opts.latency.wait(ctx, OpGetAgent); err != nil {
		return domain.Agent{}, err
	}
	return s.findAgent(func(a domain.Agent) bool { return a.ID == id })
}

// ListAgents returns every agent profile.
func (s *Users) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	if err := s.opts.latency.wait(ctx, OpListAgents); err != nil {
		return nil, err
	}
	return store.GetAll(s.store, store.Agents), nil
}

func (s *Users) findAgent(match func(domain.Agent) bool) (domain.Agent, error) {
	for _, a := range store.GetAll(s.store, store.Agents) {
		if match(a) {
			return a, nil
		}
	}
	return domain.Agent{}, notFound("agent not found")
}
