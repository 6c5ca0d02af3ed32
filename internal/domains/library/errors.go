package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/shared/response"
)

var (
	// ErrBookNotCached: the title is not in the user's last-search cache, so
	// we have no author/genre to store. The user must search first.
	ErrBookNotCached = errors.New("book details not found in recent searches")
)

func HandleError(c *gin.Context, err error) {
	if errors.Is(err, ErrBookNotCached) {
		response.ErrorResponse(c, http.StatusNotFound, "BOOK_NOT_CACHED",
			"Book details not found. Please search for the book again before liking")
		return
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled library domain error")
	response.InternalServerError(c, "Something went wrong")
}
