package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelflow/internal/models/db_models"
)

// UsageRepository persists one row per user per calendar day. Writes are
// whole-row saves: the document-store contract is last-writer-wins per key,
// with the orchestrator's send guard preventing concurrent writers for the
// same user.
type UsageRepository interface {
	FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, dateKey string) (*db_models.UsageRecord, error)
	Save(ctx context.Context, record *db_models.UsageRecord) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{
		db: db,
	}
}

func (u *usageRepository) FindByAccountAndDate(ctx context.Context, accountID uuid.UUID, dateKey string) (*db_models.UsageRecord, error) {
	var record db_models.UsageRecord
	err := u.db.WithContext(ctx).
		Where("account_id = ? AND date_key = ?", accountID, dateKey).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &record, nil
}

func (u *usageRepository) Save(ctx context.Context, record *db_models.UsageRecord) error {
	return u.db.WithContext(ctx).Save(record).Error
}
