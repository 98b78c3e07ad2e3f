package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"modelflow/internal/models/db_models"
	"modelflow/internal/plans"
	"modelflow/pkg/memcache"
	"modelflow/pkg/utils"
)

type fakeChatRepo struct {
	sessions map[uuid.UUID]*db_models.ChatSession
	messages map[uuid.UUID][]db_models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		sessions: make(map[uuid.UUID]*db_models.ChatSession),
		messages: make(map[uuid.UUID][]db_models.ChatMessage),
	}
}

func (f *fakeChatRepo) InsertSession(_ context.Context, session *db_models.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeChatRepo) FindSession(_ context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error) {
	session, ok := f.sessions[chatID]
	if !ok || session.AccountID != accountID {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeChatRepo) FindSessionWithMessages(ctx context.Context, accountID, chatID uuid.UUID) (*db_models.ChatSession, error) {
	session, err := f.FindSession(ctx, accountID, chatID)
	if session == nil || err != nil {
		return session, err
	}
	session.Messages = append([]db_models.ChatMessage(nil), f.messages[chatID]...)
	return session, nil
}

func (f *fakeChatRepo) ListSessions(_ context.Context, accountID uuid.UUID) ([]db_models.ChatSession, error) {
	var result []db_models.ChatSession
	for _, session := range f.sessions {
		if session.AccountID == accountID {
			result = append(result, *session)
		}
	}
	return result, nil
}

func (f *fakeChatRepo) UpdateSession(_ context.Context, session *db_models.ChatSession) error {
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeChatRepo) InsertMessage(_ context.Context, message *db_models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	f.messages[message.ChatSessionID] = append(f.messages[message.ChatSessionID], *message)
	return nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, chatID uuid.UUID) ([]db_models.ChatMessage, error) {
	return append([]db_models.ChatMessage(nil), f.messages[chatID]...), nil
}

// fakeRelay answers with a canned reply naming the served model, and fails
// any model listed in failModels.
type fakeRelay struct {
	failModels map[string]bool
	calls      []string
}

func (f *fakeRelay) Complete(_ context.Context, modelID, _ string, _ []ChatTurn) (string, error) {
	f.calls = append(f.calls, modelID)
	if f.failModels[modelID] {
		return "", errors.New("upstream 503")
	}
	return "reply from " + modelID, nil
}

type chatTestEnv struct {
	svc      ChatServiceInterface
	chatRepo *fakeChatRepo
	relay    *fakeRelay
	usage    *fakeUsageRepo
	plans    *fakeAssignmentRepo
	guard    memcache.SendGuard
}

func newChatTestEnv() *chatTestEnv {
	env := &chatTestEnv{
		chatRepo: newFakeChatRepo(),
		relay:    &fakeRelay{failModels: make(map[string]bool)},
		usage:    newFakeUsageRepo(),
		plans:    newFakeAssignmentRepo(),
		guard:    memcache.NewSendGuard(),
	}
	catalog := plans.NewCatalog([]string{"owner@modelflow.app"})
	env.svc = NewChatService(
		env.chatRepo,
		NewEntitlementService(catalog, env.plans),
		newUsageServiceAt(env.usage, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)),
		env.relay,
		nil,
		env.guard,
	)
	return env
}

func (env *chatTestEnv) assignPlan(accountID uuid.UUID, planID string) {
	env.plans.assignments[accountID] = &db_models.PlanAssignment{
		AccountID: accountID,
		PlanID:    planID,
	}
}

func quotaKind(t *testing.T, err error) (string, int) {
	t.Helper()
	var quotaErr *utils.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("error = %v, want QuotaExceededError", err)
	}
	return quotaErr.Kind, quotaErr.Limit
}

// Free plan, full day: 5 responses per chat, 2 chats per day.
func TestFreePlanFullDayScenario(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "user@example.com"

	first, err := env.svc.StartChat(ctx, accountID, email, "first")
	if err != nil {
		t.Fatalf("StartChat failed: %v", err)
	}

	for i := 1; i <= 5; i++ {
		reply, err := env.svc.SendMessage(ctx, accountID, email, first.ID, fmt.Sprintf("message %d", i))
		if err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
		if reply.ModelID != plans.ModelDeepSeek7B {
			t.Errorf("send %d served by %s, want %s", i, reply.ModelID, plans.ModelDeepSeek7B)
		}
		if reply.Advanced || reply.Fallback {
			t.Errorf("send %d flags = advanced=%v fallback=%v, want both false", i, reply.Advanced, reply.Fallback)
		}
	}

	_, err = env.svc.SendMessage(ctx, accountID, email, first.ID, "one too many")
	if kind, limit := quotaKind(t, err); kind != "CHAT_RESPONSE_LIMIT" || limit != 5 {
		t.Errorf("6th send denial = %s/%d, want CHAT_RESPONSE_LIMIT/5", kind, limit)
	}

	// A new chat resets the per-chat counter and is allowed immediately.
	second, err := env.svc.StartChat(ctx, accountID, email, "second")
	if err != nil {
		t.Fatalf("second StartChat failed: %v", err)
	}
	if _, err := env.svc.SendMessage(ctx, accountID, email, second.ID, "fresh chat"); err != nil {
		t.Fatalf("send in fresh chat failed: %v", err)
	}

	_, err = env.svc.StartChat(ctx, accountID, email, "third")
	if kind, limit := quotaKind(t, err); kind != "DAILY_CHAT_LIMIT" || limit != 2 {
		t.Errorf("3rd chat denial = %s/%d, want DAILY_CHAT_LIMIT/2", kind, limit)
	}

	if got := len(env.chatRepo.messages[first.ID]); got != 10 {
		t.Errorf("first chat transcript has %d messages, want 10", got)
	}
}

func TestMaxPlanAdvancedBudgetThenFallback(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "payinguser@example.com"
	env.assignPlan(accountID, "max")

	chat, err := env.svc.StartChat(ctx, accountID, email, "")
	if err != nil {
		t.Fatalf("StartChat failed: %v", err)
	}

	for i := 1; i <= 2; i++ {
		reply, err := env.svc.SendMessage(ctx, accountID, email, chat.ID, "hard question")
		if err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
		if reply.ModelID != plans.ModelGPTOSS120B || !reply.Advanced || reply.Fallback {
			t.Errorf("send %d = %+v, want advanced 120b", i, reply)
		}
	}

	// Budget of 2 spent: the 3rd send is served, on the baseline model.
	reply, err := env.svc.SendMessage(ctx, accountID, email, chat.ID, "another one")
	if err != nil {
		t.Fatalf("3rd send failed: %v", err)
	}
	if reply.ModelID != plans.ModelGPTOSS20B || reply.Advanced || !reply.Fallback {
		t.Errorf("3rd send = %+v, want baseline fallback", reply)
	}

	session := env.chatRepo.sessions[chat.ID]
	if len(session.ModelsUsed) != 2 {
		t.Errorf("modelsUsed = %v, want both tiers recorded once each", session.ModelsUsed)
	}
}

func TestRelayFailureRetriesOnBaseline(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "payinguser@example.com"
	env.assignPlan(accountID, "max")
	env.relay.failModels[plans.ModelGPTOSS120B] = true

	chat, err := env.svc.StartChat(ctx, accountID, email, "")
	if err != nil {
		t.Fatalf("StartChat failed: %v", err)
	}

	reply, err := env.svc.SendMessage(ctx, accountID, email, chat.ID, "hello")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if reply.ModelID != plans.ModelGPTOSS20B || !reply.Fallback || reply.Advanced {
		t.Errorf("reply = %+v, want baseline retry flagged as fallback", reply)
	}
	if len(env.relay.calls) != 2 {
		t.Fatalf("relay calls = %v, want 120b then 20b", env.relay.calls)
	}

	// The failed premium attempt must not burn an advanced use.
	record, _ := env.usage.FindByAccountAndDate(ctx, accountID, "2025-06-01")
	if record.AdvancedModelUsesInCurrentChat != 0 {
		t.Errorf("advanced uses = %d after fallback, want 0", record.AdvancedModelUsesInCurrentChat)
	}
	if record.ResponsesInCurrentChat != 1 {
		t.Errorf("responses = %d, want 1", record.ResponsesInCurrentChat)
	}
}

func TestRelayFailureOnBaselineCountsNothing(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "user@example.com"
	env.relay.failModels[plans.ModelDeepSeek7B] = true

	chat, err := env.svc.StartChat(ctx, accountID, email, "")
	if err != nil {
		t.Fatalf("StartChat failed: %v", err)
	}

	_, err = env.svc.SendMessage(ctx, accountID, email, chat.ID, "hello")
	if !errors.Is(err, utils.ErrRelayFailure) {
		t.Fatalf("error = %v, want ErrRelayFailure", err)
	}

	record, _ := env.usage.FindByAccountAndDate(ctx, accountID, "2025-06-01")
	if record.ResponsesInCurrentChat != 0 {
		t.Errorf("responses = %d after failed send, want 0", record.ResponsesInCurrentChat)
	}
	if len(env.chatRepo.messages[chat.ID]) != 0 {
		t.Error("failed send left transcript entries behind")
	}
}

func TestConcurrentSendOnSameChatRejected(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "user@example.com"

	chat, err := env.svc.StartChat(ctx, accountID, email, "")
	if err != nil {
		t.Fatalf("StartChat failed: %v", err)
	}

	// Simulate an exchange already in flight on this chat.
	if !env.guard.TryAcquire(chat.ID.String(), time.Minute) {
		t.Fatal("could not pre-acquire guard")
	}
	_, err = env.svc.SendMessage(ctx, accountID, email, chat.ID, "duplicate")
	if !errors.Is(err, utils.ErrSendInFlight) {
		t.Fatalf("error = %v, want ErrSendInFlight", err)
	}

	env.guard.Release(chat.ID.String())
	if _, err := env.svc.SendMessage(ctx, accountID, email, chat.ID, "retry"); err != nil {
		t.Fatalf("send after release failed: %v", err)
	}
}

func TestSendToUnknownChat(t *testing.T) {
	env := newChatTestEnv()

	_, err := env.svc.SendMessage(context.Background(), uuid.New(), "user@example.com", uuid.New(), "hello")
	if !errors.Is(err, utils.ErrChatNotFound) {
		t.Errorf("error = %v, want ErrChatNotFound", err)
	}
}

func TestOwnerBypassesAllLimits(t *testing.T) {
	env := newChatTestEnv()
	ctx := context.Background()
	accountID := uuid.New()
	email := "owner@modelflow.app"

	for i := 0; i < 5; i++ {
		chat, err := env.svc.StartChat(ctx, accountID, email, "")
		if err != nil {
			t.Fatalf("StartChat %d failed: %v", i, err)
		}
		for j := 0; j < 12; j++ {
			if _, err := env.svc.SendMessage(ctx, accountID, email, chat.ID, "ping"); err != nil {
				t.Fatalf("owner send denied: %v", err)
			}
		}
	}

	// Unlimited accounts are not metered at all.
	if record, _ := env.usage.FindByAccountAndDate(ctx, accountID, "2025-06-01"); record != nil {
		t.Errorf("owner usage record = %+v, want none", record)
	}
}
