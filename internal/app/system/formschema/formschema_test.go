package formschema

import (
	"testing"

	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

func testSchema() []models.FormField {
	return []models.FormField{
		{ID: "reason", Kind: models.KindShortText, Label: "参加理由", Required: true},
		{ID: "comment", Kind: models.KindLongText, Label: "意気込み・コメント"},
		{ID: "meal", Kind: models.KindSingleChoice, Label: "食事", Required: true, Options: []string{"none", "vegetarian"}},
		{ID: "days", Kind: models.KindMultiChoice, Label: "参加日", Options: []string{"sat", "sun"}},
	}
}

func findError(errs []domainerr.FieldError, field string) (domainerr.FieldError, bool) {
	for _, e := range errs {
		if e.Field == field {
			return e, true
		}
	}
	return domainerr.FieldError{}, false
}

func TestValidate_AllValid(t *testing.T) {
	answers := map[string]models.Answer{
		"reason": {Text: "楽しそうだから"},
		"meal":   {Text: "vegetarian"},
		"days":   {Values: []string{"sat", "sun"}},
	}
	if errs := Validate(testSchema(), answers); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_RequiredMissing(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]models.Answer
	}{
		{"absent key", map[string]models.Answer{"meal": {Text: "none"}}},
		{"empty string", map[string]models.Answer{"reason": {Text: ""}, "meal": {Text: "none"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(testSchema(), tt.answers)
			e, ok := findError(errs, "reason")
			if !ok {
				t.Fatalf("expected an error for %q, got %v", "reason", errs)
			}
			if e.Reason != domainerr.ReasonRequired {
				t.Errorf("reason: got %q, want %q", e.Reason, domainerr.ReasonRequired)
			}
		})
	}
}

func TestValidate_InvalidSingleChoiceOption(t *testing.T) {
	answers := map[string]models.Answer{
		"reason": {Text: "x"},
		"meal":   {Text: "vegan"},
	}
	errs := Validate(testSchema(), answers)
	e, ok := findError(errs, "meal")
	if !ok {
		t.Fatalf("expected an error for meal, got %v", errs)
	}
	if e.Reason != domainerr.ReasonInvalidOption {
		t.Errorf("reason: got %q, want %q", e.Reason, domainerr.ReasonInvalidOption)
	}
}

func TestValidate_OptionMatchIsCaseSensitive(t *testing.T) {
	answers := map[string]models.Answer{
		"reason": {Text: "x"},
		"meal":   {Text: "None"},
	}
	errs := Validate(testSchema(), answers)
	if _, ok := findError(errs, "meal"); !ok {
		t.Fatalf("expected case-sensitive mismatch to fail, got %v", errs)
	}
}

func TestValidate_MultiChoice(t *testing.T) {
	base := map[string]models.Answer{"reason": {Text: "x"}, "meal": {Text: "none"}}

	t.Run("empty selection on optional field is valid", func(t *testing.T) {
		if errs := Validate(testSchema(), base); errs != nil {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})

	t.Run("unknown selection fails", func(t *testing.T) {
		answers := map[string]models.Answer{
			"reason": base["reason"], "meal": base["meal"],
			"days": {Values: []string{"sat", "mon"}},
		}
		errs := Validate(testSchema(), answers)
		e, ok := findError(errs, "days")
		if !ok {
			t.Fatalf("expected an error for days, got %v", errs)
		}
		if e.Reason != domainerr.ReasonInvalidOption {
			t.Errorf("reason: got %q, want %q", e.Reason, domainerr.ReasonInvalidOption)
		}
	})

	t.Run("empty selection on required field fails", func(t *testing.T) {
		schema := testSchema()
		schema[3].Required = true
		errs := Validate(schema, base)
		e, ok := findError(errs, "days")
		if !ok {
			t.Fatalf("expected an error for days, got %v", errs)
		}
		if e.Reason != domainerr.ReasonRequired {
			t.Errorf("reason: got %q, want %q", e.Reason, domainerr.ReasonRequired)
		}
	})
}

func TestValidate_WrongShape(t *testing.T) {
	answers := map[string]models.Answer{
		"reason": {Values: []string{"a"}},
		"meal":   {Values: []string{"none"}},
	}
	errs := Validate(testSchema(), answers)
	if e, ok := findError(errs, "reason"); !ok || e.Reason != domainerr.ReasonInvalid {
		t.Errorf("text field with values: got %v", errs)
	}
	if e, ok := findError(errs, "meal"); !ok || e.Reason != domainerr.ReasonInvalid {
		t.Errorf("single choice with values: got %v", errs)
	}
}

func TestValidate_UnknownAnswerKeysIgnored(t *testing.T) {
	answers := map[string]models.Answer{
		"reason":  {Text: "x"},
		"meal":    {Text: "none"},
		"deleted": {Text: "whatever"},
	}
	if errs := Validate(testSchema(), answers); errs != nil {
		t.Fatalf("unknown keys must be ignored, got %v", errs)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	errs := Validate(testSchema(), map[string]models.Answer{
		"meal": {Text: "vegan"},
		"days": {Values: []string{"mon"}},
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 aggregated errors (reason, meal, days), got %d: %v", len(errs), errs)
	}
}

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema []models.FormField
		field  string
		reason string
	}{
		{
			"choice field without options",
			[]models.FormField{{ID: "meal", Kind: models.KindSingleChoice, Label: "食事", Required: true}},
			"meal", domainerr.ReasonRequired,
		},
		{
			"text field with options",
			[]models.FormField{{ID: "reason", Kind: models.KindShortText, Label: "理由", Options: []string{"a"}}},
			"reason", domainerr.ReasonInvalid,
		},
		{
			"unknown kind",
			[]models.FormField{{ID: "f", Kind: "dropdown", Label: "x"}},
			"f", domainerr.ReasonInvalid,
		},
		{
			"blank label",
			[]models.FormField{{ID: "f", Kind: models.KindShortText, Label: "  "}},
			"f", domainerr.ReasonRequired,
		},
		{
			"duplicate ids",
			[]models.FormField{
				{ID: "f", Kind: models.KindShortText, Label: "a"},
				{ID: "f", Kind: models.KindLongText, Label: "b"},
			},
			"f", domainerr.ReasonDuplicate,
		},
		{
			"duplicate option",
			[]models.FormField{{ID: "m", Kind: models.KindMultiChoice, Label: "m", Options: []string{"a", "a"}}},
			"m", domainerr.ReasonDuplicate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckSchema(tt.schema)
			e, ok := findError(errs, tt.field)
			if !ok {
				t.Fatalf("expected an error for %q, got %v", tt.field, errs)
			}
			if e.Reason != tt.reason {
				t.Errorf("reason: got %q, want %q", e.Reason, tt.reason)
			}
		})
	}

	t.Run("valid schema passes", func(t *testing.T) {
		if errs := CheckSchema(testSchema()); errs != nil {
			t.Fatalf("expected no errors, got %v", errs)
		}
	})
}
