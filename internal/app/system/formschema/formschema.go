// internal/app/system/formschema/formschema.go

// Package formschema validates participation answers against an event's
// ordered form schema, and the schema itself against its invariants.
//
// Both entry points are pure: they see only their arguments, collect every
// violation instead of failing fast, and return the violations in schema
// order so callers can render all problems in one round trip.
package formschema

import (
	"fmt"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Validate checks answers against the schema.
//
// Rules:
//   - a required field must have a present, non-empty answer
//   - a single-choice answer must be exactly one of the field's options
//     (case-sensitive match)
//   - every multi-choice selection must be one of the options; an empty
//     selection is fine unless the field is required
//   - answers whose key matches no field id are ignored, so answers saved
//     against an older schema don't fail when fields are removed
//
// The returned slice is nil when everything is valid.
func Validate(schema []models.FormField, answers map[string]models.Answer) []domainerr.FieldError {
	var errs []domainerr.FieldError

	for _, f := range schema {
		ans, ok := answers[f.ID]
		if !ok || ans.IsEmpty() {
			if f.Required {
				errs = append(errs, domainerr.FieldError{
					Field:   f.ID,
					Reason:  domainerr.ReasonRequired,
					Message: fmt.Sprintf("%q is required", f.Label),
				})
			}
			continue
		}

		switch f.Kind {
		case models.KindShortText, models.KindLongText:
			if len(ans.Values) > 0 {
				errs = append(errs, shapeError(f, "expects a text answer"))
			}
		case models.KindSingleChoice:
			if len(ans.Values) > 0 || ans.Text == "" {
				errs = append(errs, shapeError(f, "expects exactly one selected option"))
				continue
			}
			if !containsOption(f.Options, ans.Text) {
				errs = append(errs, optionError(f, ans.Text))
			}
		case models.KindMultiChoice:
			if ans.Text != "" {
				errs = append(errs, shapeError(f, "expects a list of selected options"))
				continue
			}
			for _, v := range ans.Values {
				if !containsOption(f.Options, v) {
					errs = append(errs, optionError(f, v))
				}
			}
		default:
			// A stored schema should never carry an unknown kind; surface it
			// as the field's problem rather than panicking on admin data.
			errs = append(errs, domainerr.FieldError{
				Field:   f.ID,
				Reason:  domainerr.ReasonInvalid,
				Message: fmt.Sprintf("unknown field kind %q", f.Kind),
			})
		}
	}

	return errs
}

// CheckSchema verifies the schema's own invariants: every field has a
// non-blank label and a valid kind, ids are unique, choice kinds carry at
// least one non-blank, non-duplicate option, and text kinds carry none.
// Fields with blank ids are reported under their ordinal position.
func CheckSchema(schema []models.FormField) []domainerr.FieldError {
	var errs []domainerr.FieldError
	seen := make(map[string]struct{}, len(schema))

	for i, f := range schema {
		name := f.ID
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("form_schema[%d]", i)
		}

		if f.ID != "" {
			if _, dup := seen[f.ID]; dup {
				errs = append(errs, domainerr.FieldError{
					Field: name, Reason: domainerr.ReasonDuplicate,
					Message: "duplicate field id",
				})
			}
			seen[f.ID] = struct{}{}
		}

		if strings.TrimSpace(f.Label) == "" {
			errs = append(errs, domainerr.FieldError{
				Field: name, Reason: domainerr.ReasonRequired,
				Message: "field label is required",
			})
		}

		if !f.Kind.IsValid() {
			errs = append(errs, domainerr.FieldError{
				Field: name, Reason: domainerr.ReasonInvalid,
				Message: fmt.Sprintf("unknown field kind %q", f.Kind),
			})
			continue
		}

		if f.Kind.RequiresOptions() {
			if len(f.Options) == 0 {
				errs = append(errs, domainerr.FieldError{
					Field: name, Reason: domainerr.ReasonRequired,
					Message: "choice fields need at least one option",
				})
				continue
			}
			opts := make(map[string]struct{}, len(f.Options))
			for _, o := range f.Options {
				if strings.TrimSpace(o) == "" {
					errs = append(errs, domainerr.FieldError{
						Field: name, Reason: domainerr.ReasonInvalid,
						Message: "blank option",
					})
					continue
				}
				if _, dup := opts[o]; dup {
					errs = append(errs, domainerr.FieldError{
						Field: name, Reason: domainerr.ReasonDuplicate,
						Message: fmt.Sprintf("duplicate option %q", o),
					})
				}
				opts[o] = struct{}{}
			}
		} else if len(f.Options) > 0 {
			errs = append(errs, domainerr.FieldError{
				Field: name, Reason: domainerr.ReasonInvalid,
				Message: "text fields cannot have options",
			})
		}
	}

	return errs
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func shapeError(f models.FormField, msg string) domainerr.FieldError {
	return domainerr.FieldError{
		Field:   f.ID,
		Reason:  domainerr.ReasonInvalid,
		Message: fmt.Sprintf("%q %s", f.Label, msg),
	}
}

func optionError(f models.FormField, got string) domainerr.FieldError {
	return domainerr.FieldError{
		Field:   f.ID,
		Reason:  domainerr.ReasonInvalidOption,
		Message: fmt.Sprintf("%q is not an option of %q", got, f.Label),
	}
}
