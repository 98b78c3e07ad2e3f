package response_models

type PlanResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DisplayName      string `json:"display_name"`
	Icon             string `json:"icon"`
	Color            string `json:"color"`
	ModelID          string `json:"model_id"`
	ResponsesPerChat int    `json:"responses_per_chat"`
	ChatsPerDay      int    `json:"chats_per_day"`
	AdvancedUses     int    `json:"advanced_model_uses_per_chat,omitempty"`
	RequiresApproval bool   `json:"requires_approval"`
	Unlimited        bool   `json:"unlimited"`
}

type UsageResponse struct {
	DateKey string `json:"date_key"`

	ChatsStartedToday              int `json:"chats_started_today"`
	ResponsesInCurrentChat         int `json:"responses_in_current_chat"`
	AdvancedModelUsesInCurrentChat int `json:"advanced_model_uses_in_current_chat"`

	ChatsRemaining     int `json:"chats_remaining"`
	ResponsesRemaining int `json:"responses_remaining"`

	Plan PlanResponse `json:"plan"`
}
