// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation statuses.
const (
	ParticipationActive    = "active"
	ParticipationCancelled = "cancelled"
)

// Participation is one member's registration for one event.
//
// At most one active document exists per (event_id, user_id); the
// participations collection carries a unique partial index over that pair
// restricted to status=active, so a racing duplicate insert surfaces as a
// duplicate-key error rather than a second record. Cancelled documents are
// kept for the member's participation history.
type Participation struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`

	Answers map[string]Answer `bson:"answers,omitempty" json:"answers,omitempty"` // keyed by FormField.ID

	Status      string     `bson:"status" json:"status"` // active | cancelled
	SubmittedAt time.Time  `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
}
