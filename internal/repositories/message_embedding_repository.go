package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"modelflow/internal/models/db_models"
)

type MessageEmbeddingRepository interface {
	Insert(ctx context.Context, embedding *db_models.MessageEmbedding) error
	SearchByVector(ctx context.Context, accountID uuid.UUID, vector pgvector.Vector, limit int) ([]db_models.MessageEmbedding, error)
}

type messageEmbeddingRepository struct {
	db *gorm.DB
}

func NewMessageEmbeddingRepository(db *gorm.DB) MessageEmbeddingRepository {
	return &messageEmbeddingRepository{
		db: db,
	}
}

func (m *messageEmbeddingRepository) Insert(ctx context.Context, embedding *db_models.MessageEmbedding) error {
	return m.db.WithContext(ctx).Create(embedding).Error
}

func (m *messageEmbeddingRepository) SearchByVector(ctx context.Context, accountID uuid.UUID, vector pgvector.Vector, limit int) ([]db_models.MessageEmbedding, error) {
	var results []db_models.MessageEmbedding

	query := `
        SELECT *, (1 - (embedding <=> $1)) as similarity
        FROM message_embeddings
        WHERE account_id = $2
        ORDER BY embedding <=> $1
        LIMIT $3
    `

	err := m.db.WithContext(ctx).Raw(query, vector.String(), accountID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
