package entity

import (
	"fmt"
	"time"
)

const (
	EntityBook = "book"
	EntityUser = "user"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is published after every successful write.
type Event struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   int       `json:"entity_id"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key returns the message key, e.g. "book.updated.12".
func (e Event) Key() string {
	return fmt.Sprintf("%s.%s.%d", e.Entity, e.Action, e.EntityID)
}
