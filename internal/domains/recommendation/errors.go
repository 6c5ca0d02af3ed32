package recommendation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookbuddy-backend/internal/domains/book"
	"bookbuddy-backend/internal/domains/user"
	"bookbuddy-backend/internal/shared/response"
)

var (
	// ErrNoPreferenceHistory: the user has no liked books to sample a genre
	// from. Terminal until they like something.
	ErrNoPreferenceHistory = errors.New("no liked books yet")

	// ErrNoCandidatesFound: both the subject-scoped and the plain keyword
	// query came back empty. Transient, "try again later".
	ErrNoCandidatesFound = errors.New("no recommendation candidates found")

	// ErrAllCandidatesExhausted: candidates existed but every one matched a
	// book the user already liked. Distinct from ErrNoCandidatesFound: the
	// genre is exhausted, not the service down.
	ErrAllCandidatesExhausted = errors.New("all candidates already liked")

	// ErrRecipientUnknown: directory miss on the target handle. The dominant
	// expected failure of the exchange; never a store error in disguise.
	ErrRecipientUnknown = errors.New("recipient is not a known user")
)

var recErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrNoPreferenceHistory: {
		Status:  http.StatusConflict,
		Code:    "NO_PREFERENCE_HISTORY",
		Message: "You haven't liked any books yet. Like some books first to get personalized recommendations",
	},
	ErrNoCandidatesFound: {
		Status:  http.StatusNotFound,
		Code:    "NO_CANDIDATES_FOUND",
		Message: "Couldn't find any book recommendations right now. Please try again later",
	},
	ErrAllCandidatesExhausted: {
		Status:  http.StatusConflict,
		Code:    "CANDIDATES_EXHAUSTED",
		Message: "You seem to have liked all the books we can find in this genre. Try liking books from different genres",
	},
	ErrRecipientUnknown: {
		Status:  http.StatusNotFound,
		Code:    "RECIPIENT_UNKNOWN",
		Message: "That user hasn't used BookBuddy yet. They need to start first",
	},
}

// HandleError maps recommendation errors to HTTP responses, falling back to
// the book domain for catalog errors and the generic handler for the rest.
func HandleError(c *gin.Context, err error) {
	for domainErr, mapped := range recErrorMap {
		if errors.Is(err, domainErr) {
			response.ErrorResponse(c, mapped.Status, mapped.Code, mapped.Message)
			return
		}
	}

	// A directory miss on the sender surfaces from the user domain; keep its
	// mapping instead of degrading to a generic 500.
	if errors.Is(err, user.ErrUserNotFound) {
		user.HandleError(c, err)
		return
	}

	book.HandleError(c, err)
}
