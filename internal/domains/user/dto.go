package user

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var handlePattern = regexp.MustCompile(`^@?[A-Za-z0-9_]{3,32}$`)

// RegisterContactRequest records a user on first contact. The transport layer
// calls this once per new conversation; repeats are harmless (insert-if-absent).
type RegisterContactRequest struct {
	ID          int64  `json:"id"`
	Handle      string `json:"handle,omitempty"`
	DisplayName string `json:"display_name"`
}

func (r RegisterContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID,
			validation.Required.Error("id is required"),
			validation.Min(int64(1)).Error("id must be positive"),
		),
		validation.Field(&r.DisplayName,
			validation.Required.Error("display_name is required"),
			validation.Length(1, 100),
		),
		validation.Field(&r.Handle,
			validation.When(r.Handle != "",
				validation.Match(handlePattern).Error("handle must be 3-32 letters, digits or underscores"),
			),
		),
	)
}

// RegisterContactResponse reports whether the contact was new.
type RegisterContactResponse struct {
	User    UserDTO `json:"user"`
	Created bool    `json:"created"`
}

// UserDTO is the public projection of a User.
type UserDTO struct {
	ID          int64   `json:"id"`
	Handle      *string `json:"handle,omitempty"`
	DisplayName string  `json:"display_name"`
}

func ToDTO(u *User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
	}
}
