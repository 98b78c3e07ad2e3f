package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UpgradeRequestStatus string

const (
	UpgradePending  UpgradeRequestStatus = "pending"
	UpgradeApproved UpgradeRequestStatus = "approved"
	UpgradeDenied   UpgradeRequestStatus = "denied"
	UpgradeRevoked  UpgradeRequestStatus = "revoked"
)

// UpgradeRequest is the plan-change workflow record. Only a pending request
// may transition; approved/denied/revoked are terminal.
type UpgradeRequest struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	UserEmail string

	CurrentPlanID   string `gorm:"size:16"`
	RequestedPlanID string `gorm:"size:16"`
	Reason          string

	CustomLimits datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Status     UpgradeRequestStatus `gorm:"size:16;index"`
	ResolvedAt *int64
	ResolvedBy string
	DenyReason string

	Account Account `gorm:"foreignKey:AccountID"`
}
