package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"modelflow/internal/models/db_models"
	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/pkg/utils"
)

// UsageSnapshot is today's counter state handed to the entitlement engine
// and the usage display.
type UsageSnapshot struct {
	DateKey                        string
	ChatsStartedToday              int
	ResponsesInCurrentChat         int
	AdvancedModelUsesInCurrentChat int
	LastResetAt                    int64
}

func (s UsageSnapshot) ToEngineUsage() plans.Usage {
	return plans.Usage{
		ChatsStartedToday:              s.ChatsStartedToday,
		ResponsesInCurrentChat:         s.ResponsesInCurrentChat,
		AdvancedModelUsesInCurrentChat: s.AdvancedModelUsesInCurrentChat,
	}
}

// UsageServiceInterface is the Usage Store. Daily rollover is lazy: records
// are keyed by calendar day, so reading under today's key is the reset — no
// background job. When the backing store is unreachable, reads degrade to a
// zeroed record and writes are best-effort; chat availability is preferred
// over strict accounting.
type UsageServiceInterface interface {
	GetUsage(ctx context.Context, accountID uuid.UUID) UsageSnapshot
	IncrementChatStart(ctx context.Context, accountID uuid.UUID) UsageSnapshot
	IncrementResponse(ctx context.Context, accountID uuid.UUID, wasAdvancedModel bool) UsageSnapshot
}

type UsageService struct {
	usageRepo repositories.UsageRepository
	now       func() time.Time
}

func NewUsageService(usageRepo repositories.UsageRepository) UsageServiceInterface {
	return &UsageService{
		usageRepo: usageRepo,
		now:       time.Now,
	}
}

func (u *UsageService) GetUsage(ctx context.Context, accountID uuid.UUID) UsageSnapshot {
	today := utils.DateKey(u.now())

	record, err := u.usageRepo.FindByAccountAndDate(ctx, accountID, today)
	if err != nil {
		log.Printf("Usage store read failed for %s, degrading to zeroed record: %v", accountID, err)
		return UsageSnapshot{DateKey: today}
	}
	if record == nil {
		// Created lazily on first increment; a missing row is a zeroed day.
		return UsageSnapshot{DateKey: today}
	}

	return snapshotFromRecord(record)
}

func (u *UsageService) IncrementChatStart(ctx context.Context, accountID uuid.UUID) UsageSnapshot {
	record := u.loadOrNewRecord(ctx, accountID)

	record.ChatsStartedToday++
	record.ResponsesInCurrentChat = 0
	record.AdvancedModelUsesInCurrentChat = 0

	u.save(ctx, record)
	return snapshotFromRecord(record)
}

func (u *UsageService) IncrementResponse(ctx context.Context, accountID uuid.UUID, wasAdvancedModel bool) UsageSnapshot {
	record := u.loadOrNewRecord(ctx, accountID)

	record.ResponsesInCurrentChat++
	if wasAdvancedModel {
		record.AdvancedModelUsesInCurrentChat++
	}

	u.save(ctx, record)
	return snapshotFromRecord(record)
}

func (u *UsageService) loadOrNewRecord(ctx context.Context, accountID uuid.UUID) *db_models.UsageRecord {
	now := u.now()
	today := utils.DateKey(now)

	record, err := u.usageRepo.FindByAccountAndDate(ctx, accountID, today)
	if err != nil {
		log.Printf("Usage store read failed for %s, counting in-memory only: %v", accountID, err)
		record = nil
	}
	if record == nil {
		record = &db_models.UsageRecord{
			AccountID:   accountID,
			DateKey:     today,
			LastResetAt: now.Unix(),
		}
	}
	return record
}

func (u *UsageService) save(ctx context.Context, record *db_models.UsageRecord) {
	if err := u.usageRepo.Save(ctx, record); err != nil {
		// A lost increment under a store outage is an accepted accounting
		// gap, not a reason to block the chat.
		log.Printf("Usage store write failed for %s: %v", record.AccountID, err)
	}
}

func snapshotFromRecord(record *db_models.UsageRecord) UsageSnapshot {
	return UsageSnapshot{
		DateKey:                        record.DateKey,
		ChatsStartedToday:              record.ChatsStartedToday,
		ResponsesInCurrentChat:         record.ResponsesInCurrentChat,
		AdvancedModelUsesInCurrentChat: record.AdvancedModelUsesInCurrentChat,
		LastResetAt:                    record.LastResetAt,
	}
}
