package recommendation

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var handlePattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{3,32}$`)

// RecommendRequest is the structured peer-recommendation payload. The
// transport validates it once here; the core never parses delimited strings,
// so titles containing dashes are fine.
type RecommendRequest struct {
	ToHandle string `json:"to_handle"`
	Title    string `json:"title"`
	Message  string `json:"message,omitempty"`
}

func (r RecommendRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ToHandle,
			validation.Required.Error("please provide the recipient's handle"),
			validation.Match(handlePattern).Error("handle must be 3-32 letters, digits or underscores"),
		),
		validation.Field(&r.Title,
			validation.Required.Error("please specify a book title"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Message,
			validation.Length(0, 1000),
		),
	)
}
