package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"modelflow/internal/models/request_models"
	"modelflow/internal/services"
	"modelflow/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// StartChat godoc
// @Summary Start a new chat
// @Description Open a new chat session. Consumes one of the caller's daily chat slots.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body request_models.StartChatRequest true "Optional title"
// @Success 200 {object} response_models.ChatSessionResponse
// @Failure 429 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chats [post]
func (ch *ChatController) StartChat(c *gin.Context) {
	accountID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req request_models.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := ch.chatService.StartChat(c.Request.Context(), accountID, email, req.Title)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Chat started successfully")
}

// SendMessage godoc
// @Summary Send a message in a chat
// @Description Relay one message to the model routed for the caller's plan and return the response
// @Tags Chat
// @Accept json
// @Produce json
// @Param chatId path string true "Chat ID"
// @Param request body request_models.SendMessageRequest true "Message"
// @Success 200 {object} response_models.ChatReply
// @Failure 409 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chats/{chatId}/messages [post]
func (ch *ChatController) SendMessage(c *gin.Context) {
	accountID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := ch.chatService.SendMessage(c.Request.Context(), accountID, email, chatID, req.Message)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, reply, "Message sent successfully")
}

// ListChats godoc
// @Summary List the caller's chats
// @Tags Chat
// @Produce json
// @Success 200 {array} response_models.ChatSessionResponse
// @Security BearerAuth
// @Router /chats [get]
func (ch *ChatController) ListChats(c *gin.Context) {
	accountID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	sessions, err := ch.chatService.ListChats(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sessions, "Chats fetched successfully")
}

// GetChat godoc
// @Summary Get a chat with its transcript
// @Tags Chat
// @Produce json
// @Param chatId path string true "Chat ID"
// @Success 200 {object} response_models.ChatDetailResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /chats/{chatId} [get]
func (ch *ChatController) GetChat(c *gin.Context) {
	accountID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	chatID, err := uuid.Parse(c.Param("chatId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid chat ID")
		return
	}

	detail, err := ch.chatService.GetChat(c.Request.Context(), accountID, chatID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, detail, "Chat fetched successfully")
}

// SearchMessages godoc
// @Summary Search the caller's transcripts
// @Description Semantic search over the caller's own chat messages
// @Tags Chat
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} response_models.MessageSearchHit
// @Security BearerAuth
// @Router /chats/search [get]
func (ch *ChatController) SearchMessages(c *gin.Context) {
	accountID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	hits, err := ch.chatService.SearchMessages(c.Request.Context(), accountID, query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, hits, "Search completed successfully")
}
