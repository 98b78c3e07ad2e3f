package db_models

import "github.com/google/uuid"

// UsageRecord holds one user's counters for one calendar day. The per-chat
// counters are scoped to the currently active chat and are zeroed whenever a
// new chat starts; ChatsStartedToday only grows within the day. Rollover is
// lazy: a new day simply reads under a new DateKey.
type UsageRecord struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index:idx_usage_account_date,unique"`
	DateKey   string    `gorm:"size:10;index:idx_usage_account_date,unique"`

	ChatsStartedToday              int
	ResponsesInCurrentChat         int
	AdvancedModelUsesInCurrentChat int

	LastResetAt int64

	Account Account `gorm:"foreignKey:AccountID"`
}
