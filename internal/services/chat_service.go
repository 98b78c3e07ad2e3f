package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"modelflow/internal/models/db_models"
	"modelflow/internal/models/response_models"
	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/pkg/memcache"
	"modelflow/pkg/utils"
)

const (
	// Relay calls get a hard deadline; a timeout counts as a failed send and
	// increments nothing.
	relayTimeout = 60 * time.Second

	// How many prior messages travel with each relay call.
	historyWindow = 20
)

type ChatServiceInterface interface {
	StartChat(ctx context.Context, accountID uuid.UUID, email, title string) (*response_models.ChatSessionResponse, error)
	SendMessage(ctx context.Context, accountID uuid.UUID, email string, chatID uuid.UUID, message string) (*response_models.ChatReply, error)
	ListChats(ctx context.Context, accountID uuid.UUID) ([]response_models.ChatSessionResponse, error)
	GetChat(ctx context.Context, accountID, chatID uuid.UUID) (*response_models.ChatDetailResponse, error)
	SearchMessages(ctx context.Context, accountID uuid.UUID, query string) ([]response_models.MessageSearchHit, error)
}

type ChatService struct {
	chatRepo    repositories.ChatRepository
	entitlement EntitlementServiceInterface
	usage       UsageServiceInterface
	relay       RelayClient
	embeddings  EmbeddingServiceInterface
	sendGuard   memcache.SendGuard
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	entitlement EntitlementServiceInterface,
	usage UsageServiceInterface,
	relay RelayClient,
	embeddings EmbeddingServiceInterface,
	sendGuard memcache.SendGuard,
) ChatServiceInterface {
	return &ChatService{
		chatRepo:    chatRepo,
		entitlement: entitlement,
		usage:       usage,
		relay:       relay,
		embeddings:  embeddings,
		sendGuard:   sendGuard,
	}
}

// StartChat opens a new chat session. This is the only place a daily chat
// slot is consumed; resuming an existing chat never passes through here.
func (s *ChatService) StartChat(ctx context.Context, accountID uuid.UUID, email, title string) (*response_models.ChatSessionResponse, error) {
	plan := s.entitlement.EffectivePlanFor(ctx, accountID, email)
	usage := s.usage.GetUsage(ctx, accountID)

	decision := s.entitlement.Evaluate(plan, usage, true)
	if !decision.Allowed {
		return nil, &utils.QuotaExceededError{Kind: string(decision.Denial), Limit: decision.LimitValue}
	}

	if strings.TrimSpace(title) == "" {
		title = "New chat"
	}
	session := &db_models.ChatSession{
		AccountID: accountID,
		Title:     title,
	}
	if err := s.chatRepo.InsertSession(ctx, session); err != nil {
		return nil, utils.ErrDatabaseError
	}

	// The slot is consumed once the session exists, even if the first send
	// later fails: a created chat is a used chat.
	if !plan.Unlimited {
		s.usage.IncrementChatStart(ctx, accountID)
	}

	resp := sessionResponse(session)
	return &resp, nil
}

func (s *ChatService) SendMessage(ctx context.Context, accountID uuid.UUID, email string, chatID uuid.UUID, message string) (*response_models.ChatReply, error) {
	session, err := s.chatRepo.FindSession(ctx, accountID, chatID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if session == nil {
		return nil, utils.ErrChatNotFound
	}

	// One in-flight exchange per chat; duplicate retries from the client do
	// not double count.
	if !s.sendGuard.TryAcquire(chatID.String(), relayTimeout) {
		return nil, utils.ErrSendInFlight
	}
	defer s.sendGuard.Release(chatID.String())

	plan := s.entitlement.EffectivePlanFor(ctx, accountID, email)
	usage := s.usage.GetUsage(ctx, accountID)

	decision := s.entitlement.Evaluate(plan, usage, false)
	if !decision.Allowed {
		return nil, &utils.QuotaExceededError{Kind: string(decision.Denial), Limit: decision.LimitValue}
	}

	history, err := s.relayHistory(ctx, chatID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	relayCtx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()

	response, servedModel, relayFellBack, err := s.callRelay(relayCtx, plan, decision, message, history)
	if err != nil {
		// Failed send: nothing was consumed beyond the chat slot.
		return nil, err
	}

	wasAdvanced := decision.IsAdvancedModel && !relayFellBack
	if !plan.Unlimited {
		s.usage.IncrementResponse(ctx, accountID, wasAdvanced)
	}

	fallback := relayFellBack || (plan.AdvancedModelUsesPerChat > 0 && !decision.IsAdvancedModel)
	s.persistExchange(ctx, session, message, response, servedModel, fallback)

	return &response_models.ChatReply{
		ChatID:   chatID,
		Response: response,
		ModelID:  servedModel,
		Advanced: wasAdvanced,
		Fallback: fallback,
	}, nil
}

// callRelay tries the selected model, then retries once on the plan's
// baseline model when the selection was a higher tier.
func (s *ChatService) callRelay(ctx context.Context, plan plans.Plan, decision plans.Decision, message string, history []ChatTurn) (response, servedModel string, fellBack bool, err error) {
	response, err = s.relay.Complete(ctx, decision.ModelID, message, history)
	if err == nil {
		return response, decision.ModelID, false, nil
	}

	baseline := baselineModel(plan)
	if decision.ModelID == baseline {
		return "", "", false, utils.ErrRelayFailure
	}

	log.Printf("Relay failed on %s, retrying on baseline %s: %v", decision.ModelID, baseline, err)
	response, retryErr := s.relay.Complete(ctx, baseline, message, history)
	if retryErr != nil {
		return "", "", false, utils.ErrRelayFailure
	}
	return response, baseline, true, nil
}

// baselineModel is the lowest tier a plan can be served by.
func baselineModel(plan plans.Plan) string {
	if plan.AdvancedModelUsesPerChat > 0 || plan.Unlimited {
		return plans.ModelGPTOSS20B
	}
	return plan.ModelID
}

func (s *ChatService) relayHistory(ctx context.Context, chatID uuid.UUID) ([]ChatTurn, error) {
	messages, err := s.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}

	turns := make([]ChatTurn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, ChatTurn{Role: msg.Role, Content: msg.Content})
	}
	return turns, nil
}

// persistExchange stores the transcript pair and indexes the exchange for
// search. All of it is best-effort: the user already has their response.
func (s *ChatService) persistExchange(ctx context.Context, session *db_models.ChatSession, userMessage, assistantMessage, modelID string, fallback bool) {
	userMsg := &db_models.ChatMessage{
		ChatSessionID: session.ID,
		Role:          "user",
		Content:       userMessage,
	}
	if err := s.chatRepo.InsertMessage(ctx, userMsg); err != nil {
		log.Printf("Failed to store user message for chat %s: %v", session.ID, err)
		return
	}

	assistantMsg := &db_models.ChatMessage{
		ChatSessionID: session.ID,
		Role:          "assistant",
		Content:       assistantMessage,
		ModelID:       modelID,
		Fallback:      fallback,
	}
	if err := s.chatRepo.InsertMessage(ctx, assistantMsg); err != nil {
		log.Printf("Failed to store assistant message for chat %s: %v", session.ID, err)
	}

	if !containsModel(session.ModelsUsed, modelID) {
		session.ModelsUsed = append(session.ModelsUsed, modelID)
		if err := s.chatRepo.UpdateSession(ctx, session); err != nil {
			log.Printf("Failed to update models_used for chat %s: %v", session.ID, err)
		}
	}

	if s.embeddings != nil {
		accountID := session.AccountID
		chatID := session.ID
		messageID := userMsg.ID
		go func() {
			indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.embeddings.IndexMessage(indexCtx, accountID, chatID, messageID, userMessage); err != nil {
				log.Printf("Embedding index failed for message %s: %v", messageID, err)
			}
		}()
	}
}

func containsModel(models []string, modelID string) bool {
	for _, m := range models {
		if m == modelID {
			return true
		}
	}
	return false
}

func (s *ChatService) ListChats(ctx context.Context, accountID uuid.UUID) ([]response_models.ChatSessionResponse, error) {
	sessions, err := s.chatRepo.ListSessions(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.ChatSessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, sessionResponse(&sessions[i]))
	}
	return result, nil
}

func (s *ChatService) GetChat(ctx context.Context, accountID, chatID uuid.UUID) (*response_models.ChatDetailResponse, error) {
	session, err := s.chatRepo.FindSessionWithMessages(ctx, accountID, chatID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if session == nil {
		return nil, utils.ErrChatNotFound
	}

	detail := &response_models.ChatDetailResponse{
		ChatSessionResponse: sessionResponse(session),
		Messages:            make([]response_models.ChatMessageResponse, 0, len(session.Messages)),
	}
	for _, msg := range session.Messages {
		detail.Messages = append(detail.Messages, response_models.ChatMessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			ModelID:   msg.ModelID,
			Fallback:  msg.Fallback,
			CreatedAt: msg.CreatedAt,
		})
	}
	return detail, nil
}

func (s *ChatService) SearchMessages(ctx context.Context, accountID uuid.UUID, query string) ([]response_models.MessageSearchHit, error) {
	if s.embeddings == nil || strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.embeddings.Search(ctx, accountID, query, 15)
}

func sessionResponse(session *db_models.ChatSession) response_models.ChatSessionResponse {
	return response_models.ChatSessionResponse{
		ID:         session.ID,
		Title:      session.Title,
		ModelsUsed: session.ModelsUsed,
		CreatedAt:  session.CreatedAt,
	}
}
