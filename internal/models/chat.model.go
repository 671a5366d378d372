package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`

	// Structured payloads when the model answered with more than text.
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	List           []ChatListItem  `json:"list,omitempty"`
}

type ChatListItem struct {
	ID        int       `json:"id"`
	MediaKind MediaKind `json:"tmdbMediaType"`
	Title     string    `json:"title"`
}

// ChatSession is one conversation transcript. The title is generated
// lazily after the first exchange.
type ChatSession struct {
	BaseUUIDModel
	Title    string         `gorm:"not null;default:''" json:"title"`
	Messages datatypes.JSON `gorm:"not null"            json:"messages"`
}

func (s *ChatSession) DecodeMessages() ([]ChatMessage, error) {
	var messages []ChatMessage
	if err := json.Unmarshal(s.Messages, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatSession) EncodeMessages(messages []ChatMessage) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	s.Messages = datatypes.JSON(raw)
	return nil
}
