package book

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookbuddy-backend/internal/shared/response"
)

// Catalog-level errors
var (
	// ErrCatalogUnavailable: the remote call failed, timed out, or returned a
	// non-success status. Fail-fast, surfaced to the caller.
	ErrCatalogUnavailable = errors.New("book catalog is unavailable")

	// ErrCatalogEmpty: the call succeeded but returned zero usable records.
	// Non-fatal; callers treat it as "try an alternate query".
	ErrCatalogEmpty = errors.New("no books found")
)

var bookErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrCatalogUnavailable: {
		Status:  http.StatusServiceUnavailable,
		Code:    "CATALOG_UNAVAILABLE",
		Message: "Error connecting to the book service. Please try again later",
	},
	ErrCatalogEmpty: {
		Status:  http.StatusNotFound,
		Code:    "NO_BOOKS_FOUND",
		Message: "No books found",
	},
}

// HandleError maps domain errors to HTTP responses. Unrecognized errors are
// reported generically and logged with full detail for operators.
func HandleError(c *gin.Context, err error) {
	for domainErr, mapped := range bookErrorMap {
		if errors.Is(err, domainErr) {
			response.ErrorResponse(c, mapped.Status, mapped.Code, mapped.Message)
			return
		}
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled book domain error")
	response.InternalServerError(c, "Something went wrong")
}
