package user

import (
	"time"
)

// User is a known identity in the directory. The id is issued by the chat
// transport (opaque to us, stable and globally unique); we never generate or
// mutate it. A user row is created on first contact and never deleted.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Handle      *string   `db:"handle" json:"handle,omitempty"`
	DisplayName string    `db:"display_name" json:"display_name"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
}

// Display is the name shown to other users: @handle when the user has one,
// display name otherwise.
func (u *User) Display() string {
	if u.Handle != nil && *u.Handle != "" {
		return "@" + *u.Handle
	}
	return u.DisplayName
}
