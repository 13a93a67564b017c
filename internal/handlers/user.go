package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trips-club/internal/services"
	"trips-club/internal/utils"
)

// UserHandler handles the member's own credit and vote endpoints
type UserHandler struct {
	credits *services.CreditService
	votes   *services.VoteService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(credits *services.CreditService, votes *services.VoteService) *UserHandler {
	return &UserHandler{
		credits: credits,
		votes:   votes,
	}
}

// GetCredits returns the current user's travel credit balance
func (h *UserHandler) GetCredits(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	balance, err := h.credits.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"credits":         balance,
		"credits_display": utils.FormatCents(balance),
	})
}

// GetCreditHistory returns the current user's ledger, newest first
func (h *UserHandler) GetCreditHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	history, err := h.credits.GetHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetVotes returns the proposals the current user voted for
func (h *UserHandler) GetVotes(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	votes, err := h.votes.ListUserVotes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    votes,
	})
}
