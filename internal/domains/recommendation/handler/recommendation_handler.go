package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/domains/recommendation"
	"bookbuddy-backend/internal/shared/response"
)

type RecommendationHandler struct {
	service recommendation.Service
}

func NewRecommendationHandler(service recommendation.Service) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// Daily handles POST /users/:id/daily: run a generation pass.
func (h *RecommendationHandler) Daily(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.Daily(c.Request.Context(), userID)
	if err != nil {
		recommendation.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// DailyLog handles GET /users/:id/daily: the append-only surfaced log.
func (h *RecommendationHandler) DailyLog(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	recs, err := h.service.DailyLog(c.Request.Context(), userID)
	if err != nil {
		recommendation.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, recs)
}

// Recommend handles POST /users/:id/recommendations.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req recommendation.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid recommendation", err)
		return
	}

	receipt, err := h.service.Recommend(c.Request.Context(), userID, req)
	if err != nil {
		recommendation.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, receipt)
}

// Inbox handles GET /users/:id/recommendations.
func (h *RecommendationHandler) Inbox(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	items, err := h.service.Inbox(c.Request.Context(), userID)
	if err != nil {
		recommendation.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid user id")
		return 0, false
	}
	return id, true
}
