package service

import (
	"context"
	"slices"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/store"
)

// Chat manages conversations between users.
type Chat struct {
	store *store.Store
	opts  *options
}

// ListConversations returns every conversation userID takes part in,
// most recently active first.
func (c *Chat) ListConversations(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if err := c.opts.latency.wait(ctx, OpListConversations); err != nil {
		return nil, err
	}

	out := []domain.Conversation{}
	for _, conv := range store.GetAll(c.store, store.Conversations) {
		if conv.HasParticipant(userID) {
			out = append(out, conv)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Conversation) int {
		return b.LastMessageAt.Compare(a.LastMessageAt)
	})
	return out, nil
}

// GetConversation returns a conversation with its messages in time order.
// A conversation userID is not part of is reported exactly like a missing one.
func (c *Chat) GetConversation(ctx context.Context, id, userID string) (domain.Conversation, error) {
	if err := c.opts.latency.wait(ctx, OpGetConversation); err != nil {
		return domain.Conversation{}, err
	}

	for _, conv := range store.GetAll(c.store, store.Conversations) {
		if conv.ID != id || !conv.HasParticipant(userID) {
			continue
		}
		conv.Participants = slices.Clone(conv.Participants)
		conv.Messages = slices.Clone(conv.Messages)
		slices.SortStableFunc(conv.Messages, func(a, b domain.Message) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
		return conv, nil
	}
	return domain.Conversation{}, notFound("conversation not found")
}

// CreateOrGet returns the conversation between exactly participantIDs,
// creating an empty one if none exists. Participant order is irrelevant.
func (c *Chat) CreateOrGet(ctx context.Context, participantIDs []string) (domain.Conversation, error) {
	if err := c.opts.latency.wait(ctx, OpCreateOrGet); err != nil {
		return domain.Conversation{}, err
	}
	if len(participantIDs) == 0 {
		return domain.Conversation{}, validation("conversation needs participants")
	}

	var got domain.Conversation
	err := store.Update(ctx, c.store, store.Conversations, func(items []domain.Conversation) ([]domain.Conversation, error) {
		for _, conv := range items {
			if conv.SameParticipants(participantIDs) {
				got = conv
				return items, nil
			}
		}
		got = domain.Conversation{
			ID:            c.store.NewID(),
			Participants:  slices.Clone(participantIDs),
			Messages:      []domain.Message{},
			LastMessageAt: c.store.Now(),
		}
		return append(items, got), nil
	})
	if err != nil {
		return domain.Conversation{}, internal("create conversation", err)
	}
	return got, nil
}

// SendMessage appends a message and moves the conversation's LastMessageAt
// to the message timestamp in the same write. The sender must be a
// participant; otherwise the conversation is reported as not found.
func (c *Chat) SendMessage(ctx context.Context, conversationID, senderID, text string) (domain.Message, error) {
	if err := c.opts.latency.wait(ctx, OpSendMessage); err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:             c.store.NewID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Timestamp:      c.store.Now(),
	}
	err := store.Update(ctx, c.store, store.Conversations, func(items []domain.Conversation) ([]domain.Conversation, error) {
		for i, conv := range items {
			if conv.ID != conversationID || !conv.HasParticipant(senderID) {
				continue
			}
			// The stored Messages array is shared with the previous snapshot.
			conv.Messages = append(slices.Clone(conv.Messages), msg)
			conv.LastMessageAt = msg.Timestamp
			items[i] = conv
			return items, nil
		}
		return nil, notFound("conversation not found")
	})
	if err != nil {
		return domain.Message{}, internal("send message", err)
	}
	return msg, nil
}
