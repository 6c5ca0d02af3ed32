package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/shared/response"
)

var (
	// ErrUserNotFound: directory miss. Deliberately distinct from store
	// failures so callers can tell "unknown handle" from "database down".
	ErrUserNotFound = errors.New("user not found")
)

// HandleError maps user domain errors to HTTP responses.
func HandleError(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, "USER_NOT_FOUND", "This user hasn't used BookBuddy yet")
		return
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled user domain error")
	response.InternalServerError(c, "Something went wrong")
}
