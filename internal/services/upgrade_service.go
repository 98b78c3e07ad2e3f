package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"modelflow/internal/models/db_models"
	"modelflow/internal/models/response_models"
	"modelflow/internal/plans"
	"modelflow/internal/repositories"
	"modelflow/pkg/utils"
)

// UpgradeServiceInterface is the plan-change workflow:
// pending → approved|denied, approved → revoked. Approval is the only path
// that mutates a user's plan assignment; denial touches nothing but the
// request.
type UpgradeServiceInterface interface {
	Submit(ctx context.Context, accountID uuid.UUID, email, requestedPlanID, reason string, customLimits *plans.CustomLimits) (*response_models.UpgradeRequestResponse, error)
	ListMine(ctx context.Context, accountID uuid.UUID) ([]response_models.UpgradeRequestResponse, error)
	ListRequests(ctx context.Context, status string) ([]response_models.UpgradeRequestResponse, error)
	Approve(ctx context.Context, requestID uuid.UUID, approverIdentity string, overrideLimits *plans.CustomLimits) error
	Deny(ctx context.Context, requestID uuid.UUID, approverIdentity, reason string) error
	Revoke(ctx context.Context, accountID uuid.UUID, approverIdentity string) error
}

type UpgradeService struct {
	requestRepo    repositories.UpgradeRequestRepository
	assignmentRepo repositories.PlanAssignmentRepository
	catalog        *plans.Catalog
	mail           IMailService
	now            func() time.Time
}

func NewUpgradeService(
	requestRepo repositories.UpgradeRequestRepository,
	assignmentRepo repositories.PlanAssignmentRepository,
	catalog *plans.Catalog,
	mail IMailService,
) UpgradeServiceInterface {
	return &UpgradeService{
		requestRepo:    requestRepo,
		assignmentRepo: assignmentRepo,
		catalog:        catalog,
		mail:           mail,
		now:            time.Now,
	}
}

func (u *UpgradeService) Submit(ctx context.Context, accountID uuid.UUID, email, requestedPlanID, reason string, customLimits *plans.CustomLimits) (*response_models.UpgradeRequestResponse, error) {
	requested := u.catalog.GetPlan(requestedPlanID)
	// Self-selectable tiers (free) never go through the workflow, and an id
	// that fell back to free either did not exist or does not need approval.
	if !requested.RequiresApproval || string(requested.ID) != requestedPlanID {
		return nil, utils.ErrPlanNotEligible
	}

	currentPlanID := string(plans.PlanFree)
	if assignment, err := u.assignmentRepo.FindByAccount(ctx, accountID); err == nil && assignment != nil {
		currentPlanID = assignment.PlanID
	}

	request := &db_models.UpgradeRequest{
		AccountID:       accountID,
		UserEmail:       email,
		CurrentPlanID:   currentPlanID,
		RequestedPlanID: string(requested.ID),
		Reason:          reason,
		Status:          db_models.UpgradePending,
	}
	if limits := marshalLimits(customLimits); limits != nil {
		request.CustomLimits = limits
	}

	if err := u.requestRepo.Insert(ctx, request); err != nil {
		return nil, utils.ErrDatabaseError
	}

	resp := requestResponse(request)
	return &resp, nil
}

func (u *UpgradeService) ListMine(ctx context.Context, accountID uuid.UUID) ([]response_models.UpgradeRequestResponse, error) {
	requests, err := u.requestRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return requestResponses(requests), nil
}

func (u *UpgradeService) ListRequests(ctx context.Context, status string) ([]response_models.UpgradeRequestResponse, error) {
	var (
		requests []db_models.UpgradeRequest
		err      error
	)
	if status == "" || status == "all" {
		requests, err = u.requestRepo.ListAll(ctx)
	} else {
		requests, err = u.requestRepo.ListByStatus(ctx, db_models.UpgradeRequestStatus(status))
	}
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return requestResponses(requests), nil
}

func (u *UpgradeService) Approve(ctx context.Context, requestID uuid.UUID, approverIdentity string, overrideLimits *plans.CustomLimits) error {
	request, err := u.loadPending(ctx, requestID)
	if err != nil {
		return err
	}

	now := u.now().Unix()
	request.Status = db_models.UpgradeApproved
	request.ResolvedAt = &now
	request.ResolvedBy = approverIdentity

	if err := u.requestRepo.Update(ctx, request); err != nil {
		return utils.ErrDatabaseError
	}

	// Override limits win over whatever the user asked for.
	limits := request.CustomLimits
	if overrideLimits != nil {
		limits = marshalLimits(overrideLimits)
	}

	assignment := &db_models.PlanAssignment{
		AccountID:    request.AccountID,
		PlanID:       request.RequestedPlanID,
		CustomLimits: limits,
		GrantedBy:    approverIdentity,
		GrantedAt:    now,
	}
	if err := u.assignmentRepo.Upsert(ctx, assignment); err != nil {
		return utils.ErrDatabaseError
	}

	u.notify(request.UserEmail, fmt.Sprintf("Your %s upgrade was approved", request.RequestedPlanID),
		fmt.Sprintf("Your upgrade request to the %s plan has been approved. The new limits apply from your next chat.", request.RequestedPlanID))
	return nil
}

func (u *UpgradeService) Deny(ctx context.Context, requestID uuid.UUID, approverIdentity, reason string) error {
	request, err := u.loadPending(ctx, requestID)
	if err != nil {
		return err
	}

	now := u.now().Unix()
	request.Status = db_models.UpgradeDenied
	request.ResolvedAt = &now
	request.ResolvedBy = approverIdentity
	request.DenyReason = reason

	if err := u.requestRepo.Update(ctx, request); err != nil {
		return utils.ErrDatabaseError
	}

	u.notify(request.UserEmail, "Your upgrade request was denied",
		"Your plan upgrade request was denied. You can submit a new request at any time.")
	return nil
}

// Revoke resets the user's effective plan to free. It is independent of
// request history; any approved requests are flipped to revoked as a
// bookkeeping side effect.
func (u *UpgradeService) Revoke(ctx context.Context, accountID uuid.UUID, approverIdentity string) error {
	now := u.now().Unix()

	assignment := &db_models.PlanAssignment{
		AccountID: accountID,
		PlanID:    string(plans.PlanFree),
		GrantedBy: approverIdentity,
		GrantedAt: now,
	}
	if err := u.assignmentRepo.Upsert(ctx, assignment); err != nil {
		return utils.ErrDatabaseError
	}

	if err := u.requestRepo.MarkApprovedAsRevoked(ctx, accountID, approverIdentity, now); err != nil {
		log.Printf("Failed to mark approved requests revoked for %s: %v", accountID, err)
	}
	return nil
}

// loadPending fetches the request and enforces that only pending requests
// may transition.
func (u *UpgradeService) loadPending(ctx context.Context, requestID uuid.UUID) (*db_models.UpgradeRequest, error) {
	request, err := u.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if request == nil {
		return nil, utils.ErrRequestNotFound
	}
	if request.Status != db_models.UpgradePending {
		return nil, utils.ErrInvalidStateTransition
	}
	return request, nil
}

func (u *UpgradeService) notify(to, subject, body string) {
	if u.mail == nil || to == "" {
		return
	}
	go func() {
		if err := u.mail.SendUpgradeResolvedMail(to, subject, body); err != nil {
			log.Printf("Failed to send upgrade notification to %s: %v", to, err)
		}
	}()
}

func marshalLimits(limits *plans.CustomLimits) datatypes.JSON {
	if limits == nil {
		return nil
	}
	data, err := json.Marshal(limits)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func requestResponse(request *db_models.UpgradeRequest) response_models.UpgradeRequestResponse {
	return response_models.UpgradeRequestResponse{
		ID:              request.ID,
		UserEmail:       request.UserEmail,
		CurrentPlanID:   request.CurrentPlanID,
		RequestedPlanID: request.RequestedPlanID,
		Reason:          request.Reason,
		Status:          string(request.Status),
		CreatedAt:       request.CreatedAt,
		ResolvedAt:      request.ResolvedAt,
		ResolvedBy:      request.ResolvedBy,
		DenyReason:      request.DenyReason,
	}
}

func requestResponses(requests []db_models.UpgradeRequest) []response_models.UpgradeRequestResponse {
	result := make([]response_models.UpgradeRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, requestResponse(&requests[i]))
	}
	return result
}
