package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelflow/internal/models/db_models"
)

type UpgradeRequestRepository interface {
	Insert(ctx context.Context, request *db_models.UpgradeRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.UpgradeRequest, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.UpgradeRequest, error)
	ListByStatus(ctx context.Context, status db_models.UpgradeRequestStatus) ([]db_models.UpgradeRequest, error)
	ListAll(ctx context.Context) ([]db_models.UpgradeRequest, error)
	Update(ctx context.Context, request *db_models.UpgradeRequest) error
	// MarkApprovedAsRevoked flips any approved requests of the account to
	// revoked. Used by plan revocation, which is independent of request
	// history.
	MarkApprovedAsRevoked(ctx context.Context, accountID uuid.UUID, resolvedBy string, resolvedAt int64) error
}

type upgradeRequestRepository struct {
	db *gorm.DB
}

func NewUpgradeRequestRepository(db *gorm.DB) UpgradeRequestRepository {
	return &upgradeRequestRepository{
		db: db,
	}
}

func (r *upgradeRequestRepository) Insert(ctx context.Context, request *db_models.UpgradeRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *upgradeRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.UpgradeRequest, error) {
	var request db_models.UpgradeRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

func (r *upgradeRequestRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.UpgradeRequest, error) {
	var requests []db_models.UpgradeRequest
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *upgradeRequestRepository) ListByStatus(ctx context.Context, status db_models.UpgradeRequestStatus) ([]db_models.UpgradeRequest, error) {
	var requests []db_models.UpgradeRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *upgradeRequestRepository) ListAll(ctx context.Context) ([]db_models.UpgradeRequest, error) {
	var requests []db_models.UpgradeRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error

	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *upgradeRequestRepository) Update(ctx context.Context, request *db_models.UpgradeRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *upgradeRequestRepository) MarkApprovedAsRevoked(ctx context.Context, accountID uuid.UUID, resolvedBy string, resolvedAt int64) error {
	return r.db.WithContext(ctx).
		Model(&db_models.UpgradeRequest{}).
		Where("account_id = ? AND status = ?", accountID, db_models.UpgradeApproved).
		Updates(map[string]interface{}{
			"status":      db_models.UpgradeRevoked,
			"resolved_by": resolvedBy,
			"resolved_at": resolvedAt,
		}).Error
}
