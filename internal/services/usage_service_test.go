package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"modelflow/internal/models/db_models"
)

// fakeUsageRepo keeps records in memory, keyed the same way the table is.
type fakeUsageRepo struct {
	records map[string]*db_models.UsageRecord
	fail    bool
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{records: make(map[string]*db_models.UsageRecord)}
}

func usageKey(accountID uuid.UUID, dateKey string) string {
	return accountID.String() + "/" + dateKey
}

func (f *fakeUsageRepo) FindByAccountAndDate(_ context.Context, accountID uuid.UUID, dateKey string) (*db_models.UsageRecord, error) {
	if f.fail {
		return nil, errors.New("store unreachable")
	}
	record, ok := f.records[usageKey(accountID, dateKey)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeUsageRepo) Save(_ context.Context, record *db_models.UsageRecord) error {
	if f.fail {
		return errors.New("store unreachable")
	}
	copied := *record
	f.records[usageKey(record.AccountID, record.DateKey)] = &copied
	return nil
}

func newUsageServiceAt(repo *fakeUsageRepo, at time.Time) *UsageService {
	return &UsageService{
		usageRepo: repo,
		now:       func() time.Time { return at },
	}
}

func TestGetUsageIsIdempotentWithinADay(t *testing.T) {
	repo := newFakeUsageRepo()
	accountID := uuid.New()
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newUsageServiceAt(repo, day)

	svc.IncrementChatStart(context.Background(), accountID)
	svc.IncrementResponse(context.Background(), accountID, false)

	first := svc.GetUsage(context.Background(), accountID)
	second := svc.GetUsage(context.Background(), accountID)

	if first != second {
		t.Errorf("repeated reads on the same day differ: %+v vs %+v", first, second)
	}
	if first.ChatsStartedToday != 1 || first.ResponsesInCurrentChat != 1 {
		t.Errorf("unexpected counters: %+v", first)
	}
}

func TestGetUsageRollsOverAtDayBoundary(t *testing.T) {
	repo := newFakeUsageRepo()
	accountID := uuid.New()
	dayN := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)

	svc := newUsageServiceAt(repo, dayN)
	svc.IncrementChatStart(context.Background(), accountID)
	svc.IncrementResponse(context.Background(), accountID, true)

	// Same service, next calendar day: no explicit reset call anywhere.
	svc.now = func() time.Time { return dayN.Add(2 * time.Hour) }

	usage := svc.GetUsage(context.Background(), accountID)
	if usage.ChatsStartedToday != 0 {
		t.Errorf("chatsStartedToday = %d after rollover, want 0", usage.ChatsStartedToday)
	}
	if usage.ResponsesInCurrentChat != 0 || usage.AdvancedModelUsesInCurrentChat != 0 {
		t.Errorf("per-chat counters survived rollover: %+v", usage)
	}
	if usage.DateKey != "2025-06-02" {
		t.Errorf("dateKey = %s, want 2025-06-02", usage.DateKey)
	}
}

func TestIncrementChatStartZeroesPerChatCounters(t *testing.T) {
	repo := newFakeUsageRepo()
	accountID := uuid.New()
	svc := newUsageServiceAt(repo, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	svc.IncrementChatStart(context.Background(), accountID)
	svc.IncrementResponse(context.Background(), accountID, true)
	svc.IncrementResponse(context.Background(), accountID, false)

	usage := svc.IncrementChatStart(context.Background(), accountID)
	if usage.ChatsStartedToday != 2 {
		t.Errorf("chatsStartedToday = %d, want 2", usage.ChatsStartedToday)
	}
	if usage.ResponsesInCurrentChat != 0 || usage.AdvancedModelUsesInCurrentChat != 0 {
		t.Errorf("per-chat counters not zeroed on new chat: %+v", usage)
	}
}

func TestIncrementResponseTracksAdvancedUses(t *testing.T) {
	repo := newFakeUsageRepo()
	accountID := uuid.New()
	svc := newUsageServiceAt(repo, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	svc.IncrementResponse(context.Background(), accountID, true)
	svc.IncrementResponse(context.Background(), accountID, false)
	usage := svc.IncrementResponse(context.Background(), accountID, true)

	if usage.ResponsesInCurrentChat != 3 {
		t.Errorf("responses = %d, want 3", usage.ResponsesInCurrentChat)
	}
	if usage.AdvancedModelUsesInCurrentChat != 2 {
		t.Errorf("advanced uses = %d, want 2", usage.AdvancedModelUsesInCurrentChat)
	}
}

func TestUsageDegradesGracefullyOnStoreOutage(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.fail = true
	accountID := uuid.New()
	svc := newUsageServiceAt(repo, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	// Reads degrade to a zeroed record rather than blocking chat.
	usage := svc.GetUsage(context.Background(), accountID)
	if usage.ChatsStartedToday != 0 || usage.ResponsesInCurrentChat != 0 {
		t.Errorf("degraded read not zeroed: %+v", usage)
	}

	// Increments are best-effort and must not panic or error the caller.
	usage = svc.IncrementResponse(context.Background(), accountID, false)
	if usage.ResponsesInCurrentChat != 1 {
		t.Errorf("in-memory increment lost: %+v", usage)
	}
}
