package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PlanAssignment is the user's effective plan reference. Absence of a row
// means the free tier. CustomLimits holds admin-granted overrides applied on
// top of the catalog defaults.
type PlanAssignment struct {
	BaseModel
	AccountID uuid.UUID `gorm:"uniqueIndex"`
	PlanID    string    `gorm:"size:16"`

	CustomLimits datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	GrantedBy string
	GrantedAt int64

	Account Account `gorm:"foreignKey:AccountID"`
}
