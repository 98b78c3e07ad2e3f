package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ChatSession struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	Title     string

	// Every model id that served a response in this chat, in order of first
	// use. A second entry on a Max chat means the premium budget ran out or
	// the relay fell back.
	ModelsUsed pq.StringArray `gorm:"type:text[]"`

	Messages []ChatMessage `gorm:"foreignKey:ChatSessionID"`
	Account  Account       `gorm:"foreignKey:AccountID"`
}

type ChatMessage struct {
	BaseModel
	ChatSessionID uuid.UUID `gorm:"index"`

	Role    string `gorm:"size:16"` // "user" | "assistant"
	Content string
	ModelID string
	// Fallback marks an assistant message served by a lower tier than the
	// one originally selected, so the UI can surface the downgrade.
	Fallback bool
}
