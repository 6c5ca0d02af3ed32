package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/domains/library"
	"bookbuddy-backend/internal/shared/response"
)

type LibraryHandler struct {
	service library.Service
}

func NewLibraryHandler(service library.Service) *LibraryHandler {
	return &LibraryHandler{service: service}
}

// Like handles POST /users/:id/likes.
func (h *LibraryHandler) Like(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req library.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid like request", err)
		return
	}

	result, err := h.service.Like(c.Request.Context(), userID, req)
	if err != nil {
		library.HandleError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Outcome == library.OutcomeAlreadyLiked {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// LikedBooks handles GET /users/:id/likes.
func (h *LibraryHandler) LikedBooks(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	likes, err := h.service.LikedBooks(c.Request.Context(), userID)
	if err != nil {
		library.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, likes)
}

// History handles GET /users/:id/history.
func (h *LibraryHandler) History(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		library.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}

// ClearHistory handles DELETE /users/:id/history.
func (h *LibraryHandler) ClearHistory(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		library.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid user id")
		return 0, false
	}
	return id, true
}
