package request_models

type CustomLimitsPayload struct {
	ResponsesPerChat *int `json:"responses_per_chat"`
	ChatsPerDay      *int `json:"chats_per_day"`
}

type SubmitUpgradeRequest struct {
	RequestedPlanID string               `json:"requested_plan_id" binding:"required"`
	Reason          string               `json:"reason"`
	CustomLimits    *CustomLimitsPayload `json:"custom_limits"`
}

type ApproveUpgradeRequest struct {
	OverrideLimits *CustomLimitsPayload `json:"override_limits"`
}

type DenyUpgradeRequest struct {
	Reason string `json:"reason"`
}
