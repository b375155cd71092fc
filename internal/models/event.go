package models

import "time"

// Audit event types recorded by the auth flows.
const (
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
	EventUserLoginFail  = "user.login_failed"
)

// Event is an audit log entry for account activity.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	ActorID   *string   `json:"actorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
