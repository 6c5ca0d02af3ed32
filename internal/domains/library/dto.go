package library

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"bookbuddy-backend/internal/domains/book"
)

type LikeRequest struct {
	Title string `json:"title"`
}

func (r LikeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("please provide a book title"),
			validation.Length(1, 500),
		),
	)
}

type LikeResponse struct {
	Outcome LikeOutcome `json:"outcome"`
	Book    book.Book   `json:"book"`
}

type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}
