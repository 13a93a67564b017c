package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
	"trips-club/internal/models"
	"trips-club/internal/services"
)

// ProposalHandler serves the public and member proposal endpoints
type ProposalHandler struct {
	lifecycle *services.LifecycleService
	votes     *services.VoteService
	interest  *services.InterestService
	viability *services.ViabilityService
	users     *services.UserService
}

func NewProposalHandler(
	lifecycle *services.LifecycleService,
	votes *services.VoteService,
	interest *services.InterestService,
	viability *services.ViabilityService,
	users *services.UserService,
) *ProposalHandler {
	return &ProposalHandler{
		lifecycle: lifecycle,
		votes:     votes,
		interest:  interest,
		viability: viability,
		users:     users,
	}
}

// tripID resolves the :id parameter, which may be a numeric id or a slug
func (h *ProposalHandler) tripID(c *gin.Context) (uint, bool) {
	param := c.Param("id")
	if id, err := strconv.ParseUint(param, 10, 64); err == nil {
		return uint(id), true
	}

	trip, err := h.lifecycle.Get(c.Request.Context(), param)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	return trip.ID, true
}

// ListProposals returns published proposals open for voting
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	limit, offset := pagination(c)

	trips, total, err := h.lifecycle.ListPublic(c.Request.Context(), limit, offset)
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

// GetProposal returns one trip by id or slug
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	trip, err := h.lifecycle.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    trip,
	})
}

// CreateProposal submits a member draft for review
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var draft services.TripDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.lifecycle.Create(c.Request.Context(), &draft, models.SourceMember, &userID, 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    trip,
	})
}

// GetViability reports viability and applies any promotion it calls for
func (h *ProposalHandler) GetViability(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HasVoted reports whether the caller voted; anonymous callers never have
func (h *ProposalHandler) HasVoted(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	userID, authenticated := auth.GetUserID(c)
	if !authenticated {
		c.JSON(http.StatusOK, gin.H{"voted": false})
		return
	}

	voted, err := h.votes.HasVoted(c.Request.Context(), userID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voted": voted})
}

// Vote casts the caller's vote
func (h *ProposalHandler) Vote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	vote, err := h.votes.AddVote(c.Request.Context(), userID, tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"vote":    vote,
		"stats":   stats,
	})
}

// Unvote withdraws the caller's vote
func (h *ProposalHandler) Unvote(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	if err := h.votes.RemoveVote(c.Request.Context(), userID, tripID); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

type interestRequest struct {
	Visibility models.Visibility `json:"visibility"`
	Note       *string           `json:"note"`
}

// AddInterest registers or updates the caller's interest
func (h *ProposalHandler) AddInterest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	// the body is optional
	var req interestRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	interest, created, err := h.interest.AddInterest(c.Request.Context(), userID, tripID, req.Visibility, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"updated":  true,
			"interest": interest,
			"stats":    stats,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"interest": interest,
		"stats":    stats,
	})
}

// RemoveInterest withdraws the caller's interest
func (h *ProposalHandler) RemoveInterest(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	if err := h.interest.RemoveInterest(c.Request.Context(), userID, tripID); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.viability.Stats(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// publicInterest is an interest row as shown to everyone. Anonymous rows
// carry neither user id nor display name.
type publicInterest struct {
	UserID           *uint             `json:"user_id,omitempty"`
	DisplayName      string            `json:"display_name,omitempty"`
	PublicVisibility models.Visibility `json:"public_visibility"`
	Note             string            `json:"note,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func redactInterest(rows []models.TripInterest, names map[uint]string) []publicInterest {
	out := make([]publicInterest, 0, len(rows))
	for _, row := range rows {
		entry := publicInterest{
			PublicVisibility: row.PublicVisibility,
			Note:             row.Note,
			CreatedAt:        row.CreatedAt,
		}
		if row.PublicVisibility == models.VisibilityNamed {
			userID := row.UserID
			entry.UserID = &userID
			entry.DisplayName = names[row.UserID]
		}
		out = append(out, entry)
	}
	return out
}

// ListInterest returns who is interested, redacting anonymous members
func (h *ProposalHandler) ListInterest(c *gin.Context) {
	tripID, ok := h.tripID(c)
	if !ok {
		return
	}

	rows, err := h.interest.ListInterest(c.Request.Context(), tripID)
	if err != nil {
		respondError(c, err)
		return
	}

	var named []uint
	for _, row := range rows {
		if row.PublicVisibility == models.VisibilityNamed {
			named = append(named, row.UserID)
		}
	}
	names, err := h.users.DisplayNames(c.Request.Context(), named)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    redactInterest(rows, names),
		"total":   len(rows),
	})
}
