package response_models

import "github.com/google/uuid"

type ChatSessionResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ModelsUsed []string  `json:"models_used"`
	CreatedAt  int64     `json:"created_at"`
}

type ChatMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ModelID   string    `json:"model_id,omitempty"`
	Fallback  bool      `json:"fallback,omitempty"`
	CreatedAt int64     `json:"created_at"`
}

type ChatDetailResponse struct {
	ChatSessionResponse
	Messages []ChatMessageResponse `json:"messages"`
}

// ChatReply is the outcome of one completed exchange. Fallback is true when
// the response was served by a lower tier than the one originally selected,
// either because the premium budget ran out or because the relay retried on
// the baseline model.
type ChatReply struct {
	ChatID   uuid.UUID `json:"chat_id"`
	Response string    `json:"response"`
	ModelID  string    `json:"model_id"`
	Advanced bool      `json:"advanced"`
	Fallback bool      `json:"fallback"`
}

type MessageSearchHit struct {
	ChatID  uuid.UUID `json:"chat_id"`
	Content string    `json:"content"`
}
