package models

import "time"

// Member is a registered member.
//
// Invariants:
//   - ID is assigned once at registration and never changes
//   - Name is 1-25 characters and contains no digits
//   - Email is well-formed and unique across all members
//   - PhoneNumber is 10-12 ASCII digits
type Member struct {
	ID          int64  `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
}

// RegisteredEvent announces a member that has been persisted.
type RegisteredEvent struct {
	Member       Member    `json:"member"`
	RegisteredAt time.Time `json:"registered_at"`
	RequestID    string    `json:"request_id,omitempty"`
}
