package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"modelflow/internal/plans"
	"modelflow/internal/repositories"
)

// EntitlementServiceInterface bridges stored state (plan assignment, owner
// allowlist, custom limits) to the pure entitlement engine. The engine never
// reads shared state itself; this service is the only place that assembles
// its inputs.
type EntitlementServiceInterface interface {
	// EffectivePlanFor resolves the plan the identity acts under: owner
	// allowlist first, then the stored assignment with custom limits
	// applied, defaulting to free.
	EffectivePlanFor(ctx context.Context, accountID uuid.UUID, email string) plans.Plan
	Evaluate(plan plans.Plan, usage UsageSnapshot, isNewChat bool) plans.Decision
}

type EntitlementService struct {
	catalog        *plans.Catalog
	assignmentRepo repositories.PlanAssignmentRepository
}

func NewEntitlementService(catalog *plans.Catalog, assignmentRepo repositories.PlanAssignmentRepository) EntitlementServiceInterface {
	return &EntitlementService{
		catalog:        catalog,
		assignmentRepo: assignmentRepo,
	}
}

func (e *EntitlementService) EffectivePlanFor(ctx context.Context, accountID uuid.UUID, email string) plans.Plan {
	if e.catalog.IsOwnerIdentity(email) {
		return e.catalog.GetPlan(string(plans.PlanOwner))
	}

	assignment, err := e.assignmentRepo.FindByAccount(ctx, accountID)
	if err != nil {
		// A corrupted or unreachable assignment never locks a user out;
		// they act as free until the store recovers.
		log.Printf("Plan assignment read failed for %s, defaulting to free: %v", accountID, err)
		return e.catalog.GetPlan(string(plans.PlanFree))
	}
	if assignment == nil {
		return e.catalog.GetPlan(string(plans.PlanFree))
	}

	plan := e.catalog.GetPlan(assignment.PlanID)

	if len(assignment.CustomLimits) > 0 {
		var limits plans.CustomLimits
		if err := json.Unmarshal(assignment.CustomLimits, &limits); err != nil {
			log.Printf("Malformed custom limits for %s ignored: %v", accountID, err)
			return plan
		}
		plan = plans.ApplyOverrides(plan, &limits)
	}

	return plan
}

func (e *EntitlementService) Evaluate(plan plans.Plan, usage UsageSnapshot, isNewChat bool) plans.Decision {
	return plans.Evaluate(plan, usage.ToEngineUsage(), isNewChat)
}
