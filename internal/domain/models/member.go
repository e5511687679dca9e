// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership lifecycle states. A rejected registration is removed from the
// members collection entirely (a tombstone lands in member_rejections), so
// no "rejected" status value exists here.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// ProfileField names a privacy-controlled profile attribute. Adding a new
// controlled field is a data change: add a constant here and a default in
// DefaultPrivacy, and the projection picks it up.
type ProfileField string

const (
	FieldStudentID  ProfileField = "student_id"
	FieldName       ProfileField = "name"
	FieldNickname   ProfileField = "nickname"
	FieldDepartment ProfileField = "department"
	FieldBio        ProfileField = "bio"
)

// ProfileFields lists every privacy-controlled field in display order.
var ProfileFields = []ProfileField{
	FieldStudentID, FieldName, FieldNickname, FieldDepartment, FieldBio,
}

// DefaultPrivacy returns the publish flags for a fresh registration:
// the student id is hidden, everything else is visible.
func DefaultPrivacy() map[ProfileField]bool {
	return map[ProfileField]bool{
		FieldStudentID:  false,
		FieldName:       true,
		FieldNickname:   true,
		FieldDepartment: true,
		FieldBio:        true,
	}
}

// Linked-account providers. LINE and Discord are marked required for active
// membership in the directory, but connecting them is independent of the
// approval workflow.
const (
	ProviderLine      = "line"
	ProviderDiscord   = "discord"
	ProviderGitHub    = "github"
	ProviderInstagram = "instagram"
	ProviderTwitter   = "twitter"
)

// Providers lists the supported external account providers.
var Providers = []string{
	ProviderLine, ProviderDiscord, ProviderGitHub, ProviderInstagram, ProviderTwitter,
}

// LinkedAccount records the connection state for one provider. The external
// id is only ever shown to the profile owner.
type LinkedAccount struct {
	Connected  bool   `bson:"connected" json:"connected"`
	ExternalID string `bson:"external_id,omitempty" json:"external_id,omitempty"`
}

// FavoriteLink is one entry of a member's pinned links (at most
// MaxFavoriteLinks per member).
type FavoriteLink struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	URL   string `bson:"url" json:"url"`
}

// Limits on free-text profile content.
const (
	MaxBioLength     = 500
	MaxFavoriteLinks = 3
)

// Member represents a club member or a pending registration.
//
// NOTE:
//   - The *_ci fields are lowercase, diacritics-stripped copies maintained by
//     the member store for case-insensitive directory search.
//   - Privacy is keyed by ProfileField; a missing key means "use the default
//     for that field" so older documents stay valid when fields are added.
type Member struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LastName   string             `bson:"last_name" json:"last_name"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	Nickname   string             `bson:"nickname" json:"nickname"`
	StudentID  string             `bson:"student_id" json:"student_id"`
	Department string             `bson:"department" json:"department"`
	Year       string             `bson:"year,omitempty" json:"year,omitempty"` // academic-year label, e.g. "2年生"

	FullNameCI   string   `bson:"full_name_ci" json:"-"`
	NicknameCI   string   `bson:"nickname_ci" json:"-"`
	DepartmentCI string   `bson:"department_ci" json:"-"`
	RolesCI      []string `bson:"roles_ci,omitempty" json:"-"`

	Roles []string `bson:"roles,omitempty" json:"roles,omitempty"`
	Bio   string   `bson:"bio,omitempty" json:"bio,omitempty"`

	Privacy        map[ProfileField]bool    `bson:"privacy,omitempty" json:"privacy,omitempty"`
	LinkedAccounts map[string]LinkedAccount `bson:"linked_accounts,omitempty" json:"linked_accounts,omitempty"`
	FavoriteLinks  []FavoriteLink           `bson:"favorite_links,omitempty" json:"favorite_links,omitempty"`

	Status       string     `bson:"status" json:"status"` // pending | approved
	RegisteredAt time.Time  `bson:"registered_at" json:"registered_at"`
	ApprovedAt   *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
}

// FullName joins the legal name the way the directory displays it.
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	if m.FirstName == "" {
		return m.LastName
	}
	return m.LastName + " " + m.FirstName
}

// FieldVisible reports whether a privacy-controlled field is published,
// falling back to the default when the member document has no explicit flag.
func (m *Member) FieldVisible(f ProfileField) bool {
	if m.Privacy != nil {
		if v, ok := m.Privacy[f]; ok {
			return v
		}
	}
	return DefaultPrivacy()[f]
}

// ConnectionComplete reports whether both required chat accounts
// (LINE and Discord) are connected.
func (m *Member) ConnectionComplete() bool {
	return m.LinkedAccounts[ProviderLine].Connected &&
		m.LinkedAccounts[ProviderDiscord].Connected
}

// MemberRejection is the tombstone kept when a registration is rejected.
// The member document itself is removed, so this is the only audit trail.
type MemberRejection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID   primitive.ObjectID `bson:"member_id" json:"member_id"`
	StudentID  string             `bson:"student_id" json:"student_id"`
	LastName   string             `bson:"last_name" json:"last_name"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	RejectedAt time.Time          `bson:"rejected_at" json:"rejected_at"`
}
