package handlers

import (
	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
)

// Handlers groups everything RegisterRoutes mounts
type Handlers struct {
	Auth      *AuthHandler
	Proposals *ProposalHandler
	Users     *UserHandler
	Admin     *AdminHandler
	// Limiter throttles write routes; nil disables rate limiting
	Limiter *IPRateLimiter
}

// RegisterRoutes mounts the /api tree on router
func RegisterRoutes(router gin.IRouter, h Handlers) {
	writes := []gin.HandlerFunc{auth.AuthMiddleware()}
	if h.Limiter != nil {
		writes = append(writes, RateLimit(h.Limiter))
	}

	api := router.Group("/api")

	// Public proposal routes, identity optional
	proposals := api.Group("/proposals")
	proposals.Use(auth.OptionalAuthMiddleware())
	{
		proposals.GET("", h.Proposals.ListProposals)
		proposals.GET("/:id", h.Proposals.GetProposal)
		proposals.GET("/:id/viability", h.Proposals.GetViability)
		proposals.GET("/:id/voted", h.Proposals.HasVoted)
		proposals.GET("/:id/interest", h.Proposals.ListInterest)
	}

	// Member writes
	member := api.Group("/proposals", writes...)
	{
		member.POST("", h.Proposals.CreateProposal)
		member.POST("/:id/vote", h.Proposals.Vote)
		member.DELETE("/:id/vote", h.Proposals.Unvote)
		member.POST("/:id/interest", h.Proposals.AddInterest)
		member.DELETE("/:id/interest", h.Proposals.RemoveInterest)
	}

	api.GET("/me", auth.AuthMiddleware(), h.Auth.GetMe)

	user := api.Group("/user", auth.AuthMiddleware())
	{
		user.GET("/credits", h.Users.GetCredits)
		user.GET("/credits/history", h.Users.GetCreditHistory)
		user.GET("/votes", h.Users.GetVotes)
	}

	admin := api.Group("/admin", auth.AuthMiddleware(), h.Admin.AdminMiddleware())
	{
		admin.POST("/proposals", h.Admin.CreateProposal)
		admin.GET("/proposals/pending", h.Admin.GetPendingProposals)
		admin.GET("/proposals/by-status/:status", h.Admin.GetProposalsByStatus)
		admin.GET("/proposals/:id/viability", h.Admin.GetProposalViability)
		admin.POST("/proposals/:id/approve", h.Admin.ApproveProposal)
		admin.POST("/proposals/:id/schedule", h.Admin.ScheduleProposal)
		admin.POST("/proposals/:id/archive", h.Admin.ArchiveProposal)
		admin.POST("/proposals/:id/reopen", h.Admin.ReopenProposal)
		admin.PATCH("/proposals/:id/status", h.Admin.UpdateProposalStatus)
		admin.POST("/users/:id/credits", h.Admin.AdjustUserCredits)
		admin.POST("/users/:id/promote", h.Admin.SuperAdminMiddleware(), h.Admin.PromoteUser)
		admin.GET("/logs", h.Admin.GetAdminLogs)
	}
}
