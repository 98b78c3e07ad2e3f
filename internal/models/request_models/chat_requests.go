package request_models

type StartChatRequest struct {
	Title string `json:"title"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}
