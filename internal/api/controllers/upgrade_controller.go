package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modelflow/internal/models/request_models"
	"modelflow/internal/plans"
	"modelflow/internal/services"
	"modelflow/pkg/utils"
)

type UpgradeController struct {
	upgradeService services.UpgradeServiceInterface
}

func NewUpgradeController(upgradeService services.UpgradeServiceInterface) *UpgradeController {
	return &UpgradeController{
		upgradeService: upgradeService,
	}
}

// Submit godoc
// @Summary Submit an upgrade request
// @Description Ask for a plan that requires approval (pro or max). The request stays pending until an admin resolves it.
// @Tags Upgrade
// @Accept json
// @Produce json
// @Param request body request_models.SubmitUpgradeRequest true "Requested plan, optional reason and custom limits"
// @Success 200 {object} response_models.UpgradeRequestResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /upgrade-requests [post]
func (u *UpgradeController) Submit(c *gin.Context) {
	accountID, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req request_models.SubmitUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Requested plan ID is required")
		return
	}

	result, err := u.upgradeService.Submit(c.Request.Context(), accountID, email,
		req.RequestedPlanID, req.Reason, customLimits(req.CustomLimits))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Upgrade request submitted successfully")
}

// ListMine godoc
// @Summary List the caller's upgrade requests
// @Tags Upgrade
// @Produce json
// @Success 200 {array} response_models.UpgradeRequestResponse
// @Security BearerAuth
// @Router /upgrade-requests/me [get]
func (u *UpgradeController) ListMine(c *gin.Context) {
	accountID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	requests, err := u.upgradeService.ListMine(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, requests, "Upgrade requests fetched successfully")
}

func customLimits(payload *request_models.CustomLimitsPayload) *plans.CustomLimits {
	if payload == nil {
		return nil
	}
	return &plans.CustomLimits{
		ResponsesPerChat: payload.ResponsesPerChat,
		ChatsPerDay:      payload.ChatsPerDay,
	}
}
