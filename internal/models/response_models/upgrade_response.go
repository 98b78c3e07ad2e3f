package response_models

import "github.com/google/uuid"

type UpgradeRequestResponse struct {
	ID              uuid.UUID `json:"id"`
	UserEmail       string    `json:"user_email"`
	CurrentPlanID   string    `json:"current_plan_id"`
	RequestedPlanID string    `json:"requested_plan_id"`
	Reason          string    `json:"reason,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       int64     `json:"created_at"`
	ResolvedAt      *int64    `json:"resolved_at,omitempty"`
	ResolvedBy      string    `json:"resolved_by,omitempty"`
	DenyReason      string    `json:"deny_reason,omitempty"`
}
