package domain

import "time"

// ConversationDisplay is the inbox row shown for a conversation.
type ConversationDisplay struct {
	ID                     string    `json:"id"`
	OtherParticipantName   string    `json:"otherParticipantName"`
	OtherParticipantAvatar string    `json:"otherParticipantAvatar"`
	LastMessageText        string    `json:"lastMessageText"`
	LastMessageAt          time.Time `json:"lastMessageAt"`
}

// ChatMessageDisplay is a message as rendered in an open conversation.
type ChatMessageDisplay struct {
	ID            string    `json:"id"`
	SenderName    string    `json:"senderName"`
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	IsCurrentUser bool      `json:"isCurrentUser"`
}
