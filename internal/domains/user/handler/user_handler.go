package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/domains/user"
	"bookbuddy-backend/internal/shared/response"
)

// UserHandler exposes the identity directory over HTTP. Stateless; holds
// only its service dependency.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterContact handles POST /users, first-contact registration.
func (h *UserHandler) RegisterContact(c *gin.Context) {
	var req user.RegisterContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration", err)
		return
	}

	result, err := h.service.EnsureUser(c.Request.Context(), req)
	if err != nil {
		user.HandleError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, result)
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid user id")
		return
	}

	u, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		user.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user.ToDTO(u))
}
