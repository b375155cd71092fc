package models

import "time"

// User represents a user account in the system.
//
// A User with an empty ID is a draft that has not been persisted yet; the
// store assigns the ID and timestamps on insert.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Persisted reports whether the account has been durably stored.
func (u User) Persisted() bool {
	return u.ID != ""
}
