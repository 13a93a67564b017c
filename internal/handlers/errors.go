package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
	"trips-club/internal/logger"
	"trips-club/internal/services"
)

// bindOptionalJSON binds a body that may be absent. An empty body leaves obj
// untouched; a malformed one is answered with 400 and false.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrAlreadyInterested),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrProposalClosed),
		errors.Is(err, services.ErrInsufficientCredits):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// requireUser returns the authenticated user or writes a 401
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		respondError(c, services.ErrUnauthenticated)
		return 0, false
	}
	return userID, true
}

// parseUintParam reads a numeric path parameter or writes a 400
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pagination reads limit and offset query parameters
func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
