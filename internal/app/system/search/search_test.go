package search

import (
	"testing"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func member() *models.Member {
	return &models.Member{
		LastName:   "田中",
		FirstName:  "太郎",
		Nickname:   "Tanataro",
		Department: "情報工学部",
		Roles:      []string{"Web班", "副代表"},
	}
}

func TestMatchesMember(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty matches all", "", true},
		{"whitespace-only folds empty", "   ", true},
		{"name substring", "田中", true},
		{"nickname case-insensitive", "TANA", true},
		{"department substring", "情報", true},
		{"role label", "web", true},
		{"second role", "副代表", true},
		{"no match", "존재しない", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesMember(member(), tt.query); got != tt.want {
				t.Errorf("MatchesMember(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMemberFilter_Empty(t *testing.T) {
	f := MemberFilter("  ")
	if len(f) != 0 {
		t.Errorf("empty query must produce an empty filter, got %v", f)
	}
}

func TestMemberFilter_OrAcrossFields(t *testing.T) {
	f := MemberFilter("Web")
	or, ok := f["$or"].(bson.A)
	if !ok {
		t.Fatalf("expected $or filter, got %v", f)
	}
	if len(or) != 4 {
		t.Errorf("expected 4 OR branches (name, nickname, department, roles), got %d", len(or))
	}
}

func TestMemberFilter_QuotesRegexMeta(t *testing.T) {
	f := MemberFilter("c++ (club)")
	or := f["$or"].(bson.A)
	branch := or[0].(bson.M)["full_name_ci"].(bson.M)
	re := branch["$regex"].(string)
	if re == "c++ (club)" {
		t.Error("regex metacharacters must be quoted")
	}
}
