package book

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SearchRequest carries a user-scoped catalog search.
type SearchRequest struct {
	UserID int64  `form:"user_id" json:"user_id"`
	Query  string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
}

func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID,
			validation.Required.Error("user_id is required"),
			validation.Min(int64(1)).Error("user_id must be positive"),
		),
		validation.Field(&r.Query,
			validation.Required.Error("please provide a book title to search"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Limit,
			validation.Min(0),
			validation.Max(40).Error("limit must be at most 40"),
		),
	)
}

// SearchResponse is the search result set in provider relevance order.
type SearchResponse struct {
	Query string `json:"query"`
	Books []Book `json:"books"`
}
