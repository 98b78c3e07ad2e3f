package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelflow/internal/models/db_models"
)

type ChatRepository interface {
	InsertSession(ctx context.Context, session *db_models.ChatSession) error
	FindSession(ctx context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error)
	FindSessionWithMessages(ctx context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error)
	ListSessions(ctx context.Context, accountID uuid.UUID) ([]db_models.ChatSession, error)
	UpdateSession(ctx context.Context, session *db_models.ChatSession) error
	InsertMessage(ctx context.Context, message *db_models.ChatMessage) error
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]db_models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (c *chatRepository) InsertSession(ctx context.Context, session *db_models.ChatSession) error {
	return c.db.WithContext(ctx).Create(session).Error
}

func (c *chatRepository) FindSession(ctx context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error) {
	var session db_models.ChatSession
	err := c.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", chatID, accountID).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (c *chatRepository) FindSessionWithMessages(ctx context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error) {
	var session db_models.ChatSession
	err := c.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND account_id = ?", chatID, accountID).
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (c *chatRepository) ListSessions(ctx context.Context, accountID uuid.UUID) ([]db_models.ChatSession, error) {
	var sessions []db_models.ChatSession
	err := c.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&sessions).Error

	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (c *chatRepository) UpdateSession(ctx context.Context, session *db_models.ChatSession) error {
	return c.db.WithContext(ctx).Save(session).Error
}

func (c *chatRepository) InsertMessage(ctx context.Context, message *db_models.ChatMessage) error {
	return c.db.WithContext(ctx).Create(message).Error
}

func (c *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]db_models.ChatMessage, error) {
	var messages []db_models.ChatMessage
	err := c.db.WithContext(ctx).
		Where("chat_session_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	return messages, nil
}
