package coordinator

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/service"
)

// Fallbacks for participants whose profile cannot be resolved.
const (
	UnknownParticipantName = "Unknown User"
	UnknownSenderName      = "Unknown"
	SelfSenderName         = "You"
)

// DefaultLookupConcurrency bounds the parallel profile lookups made while
// building the inbox.
const DefaultLookupConcurrency = 4

// Chat caches the session user's inbox and the open conversation.
type Chat struct {
	status

	chat  *service.Chat
	users *service.Users
	auth  *Auth

	lookupLimit int

	mu            sync.RWMutex
	conversations []domain.ConversationDisplay
	active        *domain.Conversation
	messages      []domain.ChatMessageDisplay
	directory     map[string]domain.User // sender names, loaded once
}

// ChatOption configures a Chat coordinator.
type ChatOption func(*Chat)

// WithLookupConcurrency sets how many participant profiles are resolved in
// parallel. Default: DefaultLookupConcurrency.
func WithLookupConcurrency(n int) ChatOption {
	return func(c *Chat) { c.lookupLimit = n }
}

// NewChat creates the coordinator. Nothing is fetched until FetchConversations.
func NewChat(chat *service.Chat, users *service.Users, auth *Auth, opts ...ChatOption) *Chat {
	c := &Chat{
		chat:        chat,
		users:       users,
		auth:        auth,
		lookupLimit: DefaultLookupConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Conversations returns a copy of the cached inbox, most recent first.
func (c *Chat) Conversations() []domain.ConversationDisplay {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.conversations)
}

// ActiveConversation returns the open conversation, if any.
func (c *Chat) ActiveConversation() (domain.Conversation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active == nil {
		return domain.Conversation{}, false
	}
	return *c.active, true
}

// ActiveMessages returns a copy of the open conversation's messages as displayed.
func (c *Chat) ActiveMessages() []domain.ChatMessageDisplay {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.messages)
}

// FetchConversations rebuilds the inbox for the session user. Without a
// session the inbox and the open conversation are cleared.
func (c *Chat) FetchConversations(ctx context.Context) (err error) {
	me, ok := c.auth.User()
	if !ok {
		c.clear()
		return nil
	}

	done := c.begin()
	defer func() { done(err) }()

	convs, err := c.chat.ListConversations(ctx, me.ID)
	if err != nil {
		return err
	}

	rows := make([]domain.ConversationDisplay, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	if c.lookupLimit > 0 {
		g.SetLimit(c.lookupLimit)
	}
	for i, conv := range convs {
		g.Go(func() error {
			row, err := c.displayRow(gctx, me.ID, conv)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.conversations = rows
	c.mu.Unlock()
	return nil
}

// displayRow projects conv for the inbox as seen by userID.
// Only cancellation is an error; an unresolvable participant is shown
// with placeholder name and avatar.
func (c *Chat) displayRow(ctx context.Context, userID string, conv domain.Conversation) (domain.ConversationDisplay, error) {
	row := domain.ConversationDisplay{
		ID:                     conv.ID,
		OtherParticipantName:   UnknownParticipantName,
		OtherParticipantAvatar: domain.DefaultAvatarURL,
		LastMessageAt:          conv.LastMessageAt,
	}
	if n := len(conv.Messages); n > 0 {
		row.LastMessageText = conv.Messages[n-1].Text
	}

	other := ""
	for _, p := range conv.Participants {
		if p != userID {
			other = p
			break
		}
	}
	if other == "" {
		return row, nil
	}

	u, err := c.users.GetUser(ctx, other)
	switch {
	case err == nil:
		if u.Name != "" {
			row.OtherParticipantName = u.Name
		}
		if u.AvatarURL != "" {
			row.OtherParticipantAvatar = u.AvatarURL
		}
	case service.KindOf(err) == service.KindCanceled:
		return domain.ConversationDisplay{}, err
	}
	return row, nil
}

// SetActiveConversation opens a conversation. An empty id, or no session,
// closes the open one.
func (c *Chat) SetActiveConversation(ctx context.Context, id string) (err error) {
	me, ok := c.auth.User()
	if !ok || id == "" {
		c.setActive(nil, nil)
		return nil
	}

	done := c.begin()
	defer func() { done(err) }()

	conv, err := c.chat.GetConversation(ctx, id, me.ID)
	if err != nil {
		c.setActive(nil, nil)
		return err
	}
	dir, err := c.loadDirectory(ctx)
	if err != nil {
		return err
	}

	msgs := make([]domain.ChatMessageDisplay, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		msgs = append(msgs, messageDisplay(m, me.ID, dir, UnknownSenderName))
	}
	c.setActive(&conv, msgs)
	return nil
}

// SendMessage posts text to the open conversation as the session user,
// appends it to the open view and refreshes the inbox.
func (c *Chat) SendMessage(ctx context.Context, text string) (msg domain.Message, err error) {
	me, ok := c.auth.User()
	if !ok {
		return domain.Message{}, ErrLoginRequired
	}
	active, ok := c.ActiveConversation()
	if !ok {
		return domain.Message{}, &service.Error{Kind: service.KindValidation, Message: "no conversation is open"}
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, &service.Error{Kind: service.KindValidation, Message: "message is empty"}
	}

	done := c.begin()
	msg, err = c.chat.SendMessage(ctx, active.ID, me.ID, text)
	if err != nil {
		done(err)
		return domain.Message{}, err
	}
	dir, err := c.loadDirectory(ctx)
	done(err)
	if err != nil {
		return domain.Message{}, err
	}

	c.mu.Lock()
	if c.active != nil && c.active.ID == active.ID {
		c.active.Messages = append(slices.Clone(c.active.Messages), msg)
		c.active.LastMessageAt = msg.Timestamp
		c.messages = append(c.messages, messageDisplay(msg, me.ID, dir, SelfSenderName))
	}
	c.mu.Unlock()

	return msg, c.FetchConversations(ctx)
}

// StartConversation opens the conversation between the session user and
// otherUserID, creating it if needed, and refreshes the inbox.
func (c *Chat) StartConversation(ctx context.Context, otherUserID string) (conv domain.Conversation, err error) {
	me, ok := c.auth.User()
	if !ok {
		return domain.Conversation{}, ErrLoginRequired
	}
	if otherUserID == me.ID {
		return domain.Conversation{}, &service.Error{Kind: service.KindValidation, Message: "cannot start a conversation with yourself"}
	}

	done := c.begin()
	conv, err = c.chat.CreateOrGet(ctx, []string{me.ID, otherUserID})
	done(err)
	if err != nil {
		return domain.Conversation{}, err
	}

	if err := c.FetchConversations(ctx); err != nil {
		return domain.Conversation{}, err
	}
	if err := c.SetActiveConversation(ctx, conv.ID); err != nil {
		return domain.Conversation{}, err
	}
	return conv, nil
}

// loadDirectory returns the user directory used for sender names,
// fetching it on first use.
func (c *Chat) loadDirectory(ctx context.Context) (map[string]domain.User, error) {
	c.mu.RLock()
	dir := c.directory
	c.mu.RUnlock()
	if dir != nil {
		return dir, nil
	}

	users, err := c.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	dir = make(map[string]domain.User, len(users))
	for _, u := range users {
		dir[u.ID] = u
	}

	c.mu.Lock()
	c.directory = dir
	c.mu.Unlock()
	return dir, nil
}

func messageDisplay(m domain.Message, userID string, dir map[string]domain.User, fallback string) domain.ChatMessageDisplay {
	name := fallback
	if u, ok := dir[m.SenderID]; ok && u.Name != "" {
		name = u.Name
	}
	return domain.ChatMessageDisplay{
		ID:            m.ID,
		SenderName:    name,
		Text:          m.Text,
		Timestamp:     m.Timestamp,
		IsCurrentUser: m.SenderID == userID,
	}
}

func (c *Chat) setActive(conv *domain.Conversation, msgs []domain.ChatMessageDisplay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = conv
	c.messages = msgs
}

func (c *Chat) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations = nil
	c.active = nil
	c.messages = nil
}
