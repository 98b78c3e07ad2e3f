package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// MessageEmbedding backs the transcript similarity search. Written
// best-effort after a completed exchange; a missing row only degrades
// search, never chat.
type MessageEmbedding struct {
	MessageID uuid.UUID `gorm:"primaryKey;column:message_id"`
	AccountID uuid.UUID `gorm:"index"`
	ChatID    uuid.UUID `gorm:"index"`
	Content   string
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}
