package harness

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/service"
)

// opFunc invokes one service operation with decoded scenario args.
type opFunc func(ctx context.Context, h *Harness, args map[string]any) (any, error)

type idArgs struct {
	ID string `yaml:"id"`
}

type userArgs struct {
	UserID string `yaml:"userId"`
}

type favoriteArgs struct {
	UserID    string `yaml:"userId"`
	ListingID string `yaml:"listingId"`
}

type savedSearchArgs struct {
	UserID string `yaml:"userId"`
	ID     string `yaml:"id"`
}

// ops maps scenario op names to service calls.
var ops = map[string]opFunc{
	"auth.signup": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Name     string      `yaml:"name"`
			Email    string      `yaml:"email"`
			Phone    string      `yaml:"phone"`
			Password string      `yaml:"password"`
			Role     domain.Role `yaml:"role"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Auth.Signup(ctx, service.SignupRequest{
			Name:     a.Name,
			Email:    a.Email,
			Phone:    a.Phone,
			Password: a.Password,
			Role:     a.Role,
		})
	},
	"auth.login": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Email    string `yaml:"email"`
			Password string `yaml:"password"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Auth.Login(ctx, a.Email, a.Password)
	},
	"auth.logout": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		return nil, h.svc.Auth.Logout(ctx)
	},
	"auth.whoami": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		u, ok, err := h.svc.Auth.CurrentUser(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return u, nil
	},
	"auth.update_password": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			UserID          string `yaml:"userId"`
			CurrentPassword string `yaml:"currentPassword"`
			NewPassword     string `yaml:"newPassword"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Auth.UpdatePassword(ctx, a.UserID, a.CurrentPassword, a.NewPassword)
	},
	"auth.request_reset": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Email string `yaml:"email"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Auth.RequestPasswordReset(ctx, a.Email)
	},
	"auth.reset_password": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Token       string `yaml:"token"`
			NewPassword string `yaml:"newPassword"`
		}](args)
		if err != nil {
			return nil, err
		}
		return nil, h.svc.Auth.ResetPassword(ctx, a.Token, a.NewPassword)
	},

	"listing.list": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		f, err := decodeArgs[domain.ListingFilters](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.List(ctx, f)
	},
	"listing.get": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[idArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.Get(ctx, a.ID)
	},
	"listing.create": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		d, err := decodeArgs[domain.ListingDraft](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.Create(ctx, d)
	},
	"listing.update": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			ID    string              `yaml:"id"`
			Patch domain.ListingPatch `yaml:"patch"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.Update(ctx, a.ID, a.Patch)
	},
	"listing.delete": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[idArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, h.svc.Listings.Delete(ctx, a.ID)
	},
	"listing.contact": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[idArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, h.svc.Listings.IncrementContactClicks(ctx, a.ID)
	},
	"listing.set_visibility": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			ID     string `yaml:"id"`
			Hidden bool   `yaml:"hidden"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.SetVisibility(ctx, a.ID, a.Hidden)
	},

	"favorite.list": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[userArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.ListFavorites(ctx, a.UserID)
	},
	"favorite.add": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[favoriteArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.AddFavorite(ctx, a.UserID, a.ListingID)
	},
	"favorite.remove": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[favoriteArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, h.svc.Listings.RemoveFavorite(ctx, a.UserID, a.ListingID)
	},

	"search.save": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			UserID  string                `yaml:"userId"`
			Name    string                `yaml:"name"`
			Filters domain.ListingFilters `yaml:"filters"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.SaveSearch(ctx, a.UserID, a.Name, a.Filters)
	},
	"search.list": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[userArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.ListSavedSearches(ctx, a.UserID)
	},
	"search.delete": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[savedSearchArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, h.svc.Listings.DeleteSavedSearch(ctx, a.UserID, a.ID)
	},
	"search.run": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[savedSearchArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Listings.RunSavedSearch(ctx, a.UserID, a.ID)
	},

	"chat.list": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[userArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Chat.ListConversations(ctx, a.UserID)
	},
	"chat.get": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			ID     string `yaml:"id"`
			UserID string `yaml:"userId"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Chat.GetConversation(ctx, a.ID, a.UserID)
	},
	"chat.start": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Participants []string `yaml:"participants"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Chat.CreateOrGet(ctx, a.Participants)
	},
	"chat.send": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			ConversationID string `yaml:"conversationId"`
			SenderID       string `yaml:"senderId"`
			Text           string `yaml:"text"`
		}](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Chat.SendMessage(ctx, a.ConversationID, a.SenderID, a.Text)
	},

	"user.get": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[idArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Users.GetUser(ctx, a.ID)
	},
	"user.list": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		return h.svc.Users.ListUsers(ctx)
	},
	"agent.get": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[idArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Users.GetAgent(ctx, a.ID)
	},
	"agent.list": func(ctx context.Context, h *Harness, _ map[string]any) (any, error) {
		return h.svc.Users.ListAgents(ctx)
	},
	"agent.for_user": func(ctx context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[userArgs](args)
		if err != nil {
			return nil, err
		}
		return h.svc.Users.GetAgentByUserID(ctx, a.UserID)
	},

	// clock.advance moves the store clock, e.g. past a reset token's deadline.
	"clock.advance": func(_ context.Context, h *Harness, args map[string]any) (any, error) {
		a, err := decodeArgs[struct {
			Duration string `yaml:"duration"`
		}](args)
		if err != nil {
			return nil, err
		}
		d, err := time.ParseDuration(a.Duration)
		if err != nil {
			return nil, &service.Error{Kind: service.KindValidation, Message: err.Error()}
		}
		h.clock.Advance(d)
		return nil, nil
	},
}

// decodeArgs re-encodes scenario args into T. Unknown keys are rejected.
func decodeArgs[T any](args map[string]any) (T, error) {
	var v T
	if len(args) == 0 {
		return v, nil
	}
	raw, err := yaml.Marshal(args)
	if err != nil {
		return v, &service.Error{Kind: service.KindValidation, Message: "encode args", Err: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil {
		return v, &service.Error{Kind: service.KindValidation, Message: fmt.Sprintf("bad args: %v", err), Err: err}
	}
	return v, nil
}
