package controllers

import (
	"github.com/gin-gonic/gin"

	"modelflow/internal/models/response_models"
	"modelflow/internal/plans"
	"modelflow/internal/services"
	"modelflow/pkg/utils"
)

type PlanController struct {
	catalog     *plans.Catalog
	entitlement services.EntitlementServiceInterface
	usage       services.UsageServiceInterface
}

func NewPlanController(
	catalog *plans.Catalog,
	entitlement services.EntitlementServiceInterface,
	usage services.UsageServiceInterface,
) *PlanController {
	return &PlanController{
		catalog:     catalog,
		entitlement: entitlement,
		usage:       usage,
	}
}

// ListPlans godoc
// @Summary List selectable plans
// @Description Fetch the plan catalog shown on the upgrade page
// @Tags Plan
// @Produce json
// @Success 200 {array} response_models.PlanResponse
// @Router /plans [get]
func (p *PlanController) ListPlans(c *gin.Context) {
	catalog := p.catalog.AllPlans()
	result := make([]response_models.PlanResponse, 0, len(catalog))
	for _, plan := range catalog {
		result = append(result, planResponse(plan))
	}
	utils.RespondSuccess(c, result, "Plans fetched successfully")
}

// MyPlan godoc
// @Summary Get the caller's effective plan
// @Description Resolves the plan the caller acts under, including custom limits
// @Tags Plan
// @Produce json
// @Success 200 {object} response_models.PlanResponse
// @Security BearerAuth
// @Router /plans/me [get]
func (p *PlanController) MyPlan(c *gin.Context) {
	accountID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	plan := p.entitlement.EffectivePlanFor(c.Request.Context(), accountID, email)
	utils.RespondSuccess(c, planResponse(plan), "Plan fetched successfully")
}

// Usage godoc
// @Summary Get today's usage counters
// @Description Today's chat and response counters next to the caller's plan limits
// @Tags Plan
// @Produce json
// @Success 200 {object} response_models.UsageResponse
// @Security BearerAuth
// @Router /usage [get]
func (p *PlanController) Usage(c *gin.Context) {
	accountID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	plan := p.entitlement.EffectivePlanFor(c.Request.Context(), accountID, email)
	snapshot := p.usage.GetUsage(c.Request.Context(), accountID)

	resp := response_models.UsageResponse{
		DateKey:                        snapshot.DateKey,
		ChatsStartedToday:              snapshot.ChatsStartedToday,
		ResponsesInCurrentChat:         snapshot.ResponsesInCurrentChat,
		AdvancedModelUsesInCurrentChat: snapshot.AdvancedModelUsesInCurrentChat,
		Plan:                           planResponse(plan),
	}
	if !plan.Unlimited {
		resp.ChatsRemaining = remaining(plan.ChatsPerDay, snapshot.ChatsStartedToday)
		resp.ResponsesRemaining = remaining(plan.ResponsesPerChat, snapshot.ResponsesInCurrentChat)
	}

	utils.RespondSuccess(c, resp, "Usage fetched successfully")
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

func planResponse(plan plans.Plan) response_models.PlanResponse {
	return response_models.PlanResponse{
		ID:               string(plan.ID),
		Name:             plan.Name,
		DisplayName:      plan.DisplayName,
		Icon:             plan.Icon,
		Color:            plan.Color,
		ModelID:          plan.ModelID,
		ResponsesPerChat: plan.ResponsesPerChat,
		ChatsPerDay:      plan.ChatsPerDay,
		AdvancedUses:     plan.AdvancedModelUsesPerChat,
		RequiresApproval: plan.RequiresApproval,
		Unlimited:        plan.Unlimited,
	}
}
