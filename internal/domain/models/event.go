// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event visibility values. A restricted event is only surfaced to members
// with a connected Discord account; admin clients may submit "discord".
const (
	VisibilityPublic     = "public"
	VisibilityRestricted = "restricted"
)

// Event is an admin-created club event together with the registration form
// its participants must answer.
//
// NOTE:
//   - FormSchema is embedded rather than joined: the schema belongs to
//     exactly one event and is read on every registration.
//   - Whether registration is open is always derived from Deadline against a
//     caller-supplied clock; it is never stored or updated by a timer.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        time.Time          `bson:"date" json:"date"`
	Visibility  string             `bson:"visibility" json:"visibility"` // public | restricted
	TargetYear  string             `bson:"target_year,omitempty" json:"target_year,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"` // ordered opaque storage refs

	Deadline   time.Time   `bson:"deadline" json:"deadline"`
	FormSchema []FormField `bson:"form_schema,omitempty" json:"form_schema,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// AcceptingAt reports whether the event still accepts participation at the
// given instant. The deadline itself is inclusive.
func (e *Event) AcceptingAt(now time.Time) bool {
	return !now.After(e.Deadline)
}
