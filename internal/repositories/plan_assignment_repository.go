package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modelflow/internal/models/db_models"
)

type PlanAssignmentRepository interface {
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.PlanAssignment, error)
	// Upsert replaces the account's single assignment row (one plan per user
	// at any time).
	Upsert(ctx context.Context, assignment *db_models.PlanAssignment) error
}

type planAssignmentRepository struct {
	db *gorm.DB
}

func NewPlanAssignmentRepository(db *gorm.DB) PlanAssignmentRepository {
	return &planAssignmentRepository{
		db: db,
	}
}

func (p *planAssignmentRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.PlanAssignment, error) {
	var assignment db_models.PlanAssignment
	err := p.db.WithContext(ctx).First(&assignment, "account_id = ?", accountID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &assignment, nil
}

func (p *planAssignmentRepository) Upsert(ctx context.Context, assignment *db_models.PlanAssignment) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"plan_id", "custom_limits", "granted_by", "granted_at", "updated_at",
			}),
		}).
		Create(assignment).Error
}
