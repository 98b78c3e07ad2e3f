package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"modelflow/internal/models/request_models"
	"modelflow/internal/services"
	"modelflow/pkg/utils"
)

// AdminController is the owner-only surface. Routes using it sit behind
// AdminMiddleware.
type AdminController struct {
	upgradeService services.UpgradeServiceInterface
}

func NewAdminController(upgradeService services.UpgradeServiceInterface) *AdminController {
	return &AdminController{
		upgradeService: upgradeService,
	}
}

// ListRequests godoc
// @Summary List upgrade requests
// @Description All upgrade requests, optionally filtered by status (pending, approved, denied, revoked)
// @Tags Admin
// @Produce json
// @Param status query string false "Status filter" default(all)
// @Success 200 {array} response_models.UpgradeRequestResponse
// @Security BearerAuth
// @Router /admin/upgrade-requests [get]
func (a *AdminController) ListRequests(c *gin.Context) {
	requests, err := a.upgradeService.ListRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, requests, "Upgrade requests fetched successfully")
}

// Approve godoc
// @Summary Approve a pending upgrade request
// @Description Grants the requested plan, optionally with override limits in place of what the user asked for
// @Tags Admin
// @Accept json
// @Produce json
// @Param requestId path string true "Request ID"
// @Param request body request_models.ApproveUpgradeRequest false "Optional override limits"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/upgrade-requests/{requestId}/approve [post]
func (a *AdminController) Approve(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req request_models.ApproveUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	approver := c.GetString("user_email")
	if err := a.upgradeService.Approve(c.Request.Context(), requestID, approver, customLimits(req.OverrideLimits)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Upgrade request approved successfully")
}

// Deny godoc
// @Summary Deny a pending upgrade request
// @Tags Admin
// @Accept json
// @Produce json
// @Param requestId path string true "Request ID"
// @Param request body request_models.DenyUpgradeRequest false "Optional reason"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/upgrade-requests/{requestId}/deny [post]
func (a *AdminController) Deny(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req request_models.DenyUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	approver := c.GetString("user_email")
	if err := a.upgradeService.Deny(c.Request.Context(), requestID, approver, req.Reason); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Upgrade request denied successfully")
}

// Revoke godoc
// @Summary Revoke a user's plan
// @Description Resets the user to the free plan regardless of request history
// @Tags Admin
// @Produce json
// @Param userId path string true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{userId}/revoke [post]
func (a *AdminController) Revoke(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	approver := c.GetString("user_email")
	if err := a.upgradeService.Revoke(c.Request.Context(), accountID, approver); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Plan revoked successfully")
}
