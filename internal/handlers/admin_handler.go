package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
	"trips-club/internal/logger"
	"trips-club/internal/models"
	"trips-club/internal/services"
	"trips-club/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	lifecycle    *services.LifecycleService
	viability    *services.ViabilityService
	credits      *services.CreditService
}

func NewAdminHandler(
	adminService *services.AdminService,
	lifecycle *services.LifecycleService,
	viability *services.ViabilityService,
	credits *services.CreditService,
) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		lifecycle:    lifecycle,
		viability:    viability,
		credits:      credits,
	}
}

// AdminMiddleware checks if user is admin
func (h *AdminHandler) AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		admin, err := h.adminService.GetAdminByUserID(c.Request.Context(), userID)
		if err != nil {
			logger.Get().LogSecurity("admin_denied", userID, c.ClientIP(), map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			c.JSON(http.StatusForbidden, gin.H{"error": "Not an admin"})
			c.Abort()
			return
		}

		c.Set("admin_id", admin.ID)
		c.Set("admin_role", admin.Role)
		c.Next()
	}
}

// SuperAdminMiddleware checks if user is super admin
func (h *AdminHandler) SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("admin_role")
		if !exists || role != models.RoleSuperAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Super admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CreateProposal seeds a club-authored proposal
func (h *AdminHandler) CreateProposal(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	var draft services.TripDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.lifecycle.Create(c.Request.Context(), &draft, models.SourceNTG, nil, adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    trip,
	})
}

// ApproveProposal opens a proposal for voting
func (h *AdminHandler) ApproveProposal(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	trip, err := h.lifecycle.Approve(c.Request.Context(), tripID, req.Notes, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal approved",
		"data":    trip,
	})
}

// ScheduleProposal schedules a proposal and pays the creator reward
func (h *AdminHandler) ScheduleProposal(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	result, err := h.lifecycle.Schedule(c.Request.Context(), tripID, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Proposal scheduled",
		"data":        result.Trip,
		"reward_paid": result.Reward != nil,
		"reward":      result.Reward,
	})
}

// ArchiveProposal archives a proposal with an optional reason
func (h *AdminHandler) ArchiveProposal(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}

	trip, err := h.lifecycle.Archive(c.Request.Context(), tripID, req.Reason, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal archived",
		"data":    trip,
	})
}

// ReopenProposal sends a proposal back to review
func (h *AdminHandler) ReopenProposal(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	trip, err := h.lifecycle.Reopen(c.Request.Context(), tripID, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Proposal reopened",
		"data":    trip,
	})
}

// UpdateProposalStatus sets a proposal status directly
func (h *AdminHandler) UpdateProposalStatus(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.lifecycle.SetStatus(c.Request.Context(), tripID, req.Status, req.Notes, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trip,
	})
}

// GetPendingProposals lists proposals awaiting review
func (h *AdminHandler) GetPendingProposals(c *gin.Context) {
	limit, offset := pagination(c)

	trips, total, err := h.lifecycle.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trips,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetProposalsByStatus lists proposals in one status
func (h *AdminHandler) GetProposalsByStatus(c *gin.Context) {
	limit, offset := pagination(c)

	trips, total, err := h.lifecycle.ListByStatus(c.Request.Context(), c.Param("status"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trips,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetProposalViability shows full viability stats to admins
func (h *AdminHandler) GetProposalViability(c *gin.Context) {
	tripID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// AdjustUserCredits applies a signed credit correction
func (h *AdminHandler) AdjustUserCredits(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		AmountCents int64  `json:"amount_cents" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID := c.GetUint("admin_id")
	txn, err := h.credits.Adjust(c.Request.Context(), userID, req.AmountCents, req.Description, adminID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.adminService.LogAdminAction(c.Request.Context(), adminID, services.ActionAdjustCredits, "USER", &userID, map[string]interface{}{
		"amount_cents": req.AmountCents,
		"description":  req.Description,
	})

	balance, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"data":            txn,
		"credits":         balance,
		"credits_display": utils.FormatCents(balance),
	})
}

// GetAdminLogs returns admin activity logs
func (h *AdminHandler) GetAdminLogs(c *gin.Context) {
	limit, offset := pagination(c)

	logs, total, err := h.adminService.GetAdminLogs(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// PromoteUser grants admin rights to a user
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminService.PromoteUserToAdmin(c.Request.Context(), userID, req.Role, c.GetUint("admin_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    admin,
	})
}
