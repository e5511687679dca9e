// internal/app/system/search/search.go

// Package search builds the member-directory search filter.
//
// A directory query is a single free-text box matched as a case-insensitive
// substring of the member's full name, nickname, department, or any role
// label, as a logical OR across the four. Matching runs against the folded
// *_ci copies the member store maintains, so "WEB" finds "Web班" and
// accented spellings fold together.
package search

import (
	"regexp"
	"strings"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// MemberFilter returns the Mongo filter for a directory query. An empty or
// whitespace query matches everything (empty filter); the caller merges in
// its own status constraint. The query is regexp-quoted, so metacharacters
// match literally.
func MemberFilter(query string) bson.M {
	q := text.Fold(strings.TrimSpace(query))
	if q == "" {
		return bson.M{}
	}
	re := regexp.QuoteMeta(q)
	return bson.M{"$or": bson.A{
		bson.M{"full_name_ci": bson.M{"$regex": re}},
		bson.M{"nickname_ci": bson.M{"$regex": re}},
		bson.M{"department_ci": bson.M{"$regex": re}},
		bson.M{"roles_ci": bson.M{"$regex": re}},
	}}
}

// MatchesMember is the pure equivalent of MemberFilter for a single member,
// used by tests and anywhere a loaded member must be re-checked without a
// round trip.
func MatchesMember(m *models.Member, query string) bool {
	q := text.Fold(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if containsFold(m.FullName(), q) ||
		containsFold(m.Nickname, q) ||
		containsFold(m.Department, q) {
		return true
	}
	for _, role := range m.Roles {
		if containsFold(role, q) {
			return true
		}
	}
	return false
}

func containsFold(s, foldedSub string) bool {
	return strings.Contains(text.Fold(s), foldedSub)
}
