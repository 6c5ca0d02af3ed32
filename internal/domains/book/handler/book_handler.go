package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/internal/shared/response"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Search handles GET /books/search?user_id=&q=&limit=.
func (h *BookHandler) Search(c *gin.Context) {
	var req book.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid search", err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		book.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Random handles GET /books/random.
func (h *BookHandler) Random(c *gin.Context) {
	b, err := h.service.Random(c.Request.Context())
	if err != nil {
		book.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}
