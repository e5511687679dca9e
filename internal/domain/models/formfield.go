// internal/domain/models/formfield.go
package models

// FieldKind is the closed set of registration-form question types. Code that
// branches on a kind should handle every value and treat anything else as
// invalid, never as a default.
type FieldKind string

const (
	KindShortText    FieldKind = "short_text"
	KindLongText     FieldKind = "long_text"
	KindSingleChoice FieldKind = "single_choice"
	KindMultiChoice  FieldKind = "multi_choice"
)

// FieldKinds lists every valid kind.
var FieldKinds = []FieldKind{
	KindShortText, KindLongText, KindSingleChoice, KindMultiChoice,
}

// IsValid reports whether k is one of the known kinds.
func (k FieldKind) IsValid() bool {
	switch k {
	case KindShortText, KindLongText, KindSingleChoice, KindMultiChoice:
		return true
	}
	return false
}

// RequiresOptions reports whether the kind carries an option list.
// Choice kinds must have at least one option; text kinds must have none.
func (k FieldKind) RequiresOptions() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

// FormField is one question in an event's registration form. The id is
// stable within the event; the event store assigns one when the admin
// omits it.
type FormField struct {
	ID       string    `bson:"id" json:"id"`
	Kind     FieldKind `bson:"kind" json:"kind"`
	Label    string    `bson:"label" json:"label"`
	Required bool      `bson:"required" json:"required"`
	Options  []string  `bson:"options,omitempty" json:"options,omitempty"`
}

// Answer is a participant's value for one form field. Text holds the value
// for text and single-choice kinds; Values holds the selection for
// multi-choice kinds. Exactly one side is meaningful per field kind.
type Answer struct {
	Text   string   `bson:"text,omitempty" json:"text,omitempty"`
	Values []string `bson:"values,omitempty" json:"values,omitempty"`
}

// IsEmpty reports whether the answer carries no value at all.
func (a Answer) IsEmpty() bool {
	return a.Text == "" && len(a.Values) == 0
}
