// Package profilepolicy decides what one member sees of another member's
// profile.
//
// Visibility rules:
//   - A member always sees their own profile in full, including external
//     account ids, regardless of the publish flags.
//   - For any other viewer, each privacy-controlled field (student id, name,
//     nickname, department, bio) is included verbatim when its flag is true
//     and replaced with the Hidden marker when false.
//   - Roles, favorite links, academic year, membership status, and the
//     per-provider connected booleans are always visible. External account
//     ids are never shown to a non-self viewer, connected or not.
package profilepolicy

import (
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Hidden is the marker substituted for a field whose publish flag is off.
// The directory UI renders it as-is.
const Hidden = "非公開"

// View is the per-viewer projection of a member profile.
type View struct {
	ID string `json:"id"`

	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Nickname   string `json:"nickname"`
	Department string `json:"department"`
	Bio        string `json:"bio"`

	Year       string     `json:"year,omitempty"`
	Roles      []string   `json:"roles,omitempty"`
	Status     string     `json:"status"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	FavoriteLinks []models.FavoriteLink `json:"favorite_links,omitempty"`

	// Connections maps provider name to connected state for every supported
	// provider. Populated for all viewers.
	Connections map[string]bool `json:"connections"`

	// LinkedAccounts carries the full account records, external ids
	// included. Only populated when IsSelf.
	LinkedAccounts map[string]models.LinkedAccount `json:"linked_accounts,omitempty"`

	IsSelf bool `json:"is_self"`
}

// Project builds the view of m for a viewer. It is total: every member
// value, every flag combination, and both viewer modes produce a complete
// View, and a false flag never leaks the stored value to a non-self viewer.
func Project(m *models.Member, viewerIsSelf bool) View {
	v := View{
		ID:            m.ID.Hex(),
		Year:          m.Year,
		Roles:         append([]string(nil), m.Roles...),
		Status:        m.Status,
		ApprovedAt:    m.ApprovedAt,
		FavoriteLinks: append([]models.FavoriteLink(nil), m.FavoriteLinks...),
		Connections:   make(map[string]bool, len(models.Providers)),
		IsSelf:        viewerIsSelf,
	}

	for _, p := range models.Providers {
		v.Connections[p] = m.LinkedAccounts[p].Connected
	}

	if viewerIsSelf {
		v.StudentID = m.StudentID
		v.Name = m.FullName()
		v.Nickname = m.Nickname
		v.Department = m.Department
		v.Bio = m.Bio
		v.LinkedAccounts = make(map[string]models.LinkedAccount, len(m.LinkedAccounts))
		for p, a := range m.LinkedAccounts {
			v.LinkedAccounts[p] = a
		}
		return v
	}

	v.StudentID = gate(m, models.FieldStudentID, m.StudentID)
	v.Name = gate(m, models.FieldName, m.FullName())
	v.Nickname = gate(m, models.FieldNickname, m.Nickname)
	v.Department = gate(m, models.FieldDepartment, m.Department)
	v.Bio = gate(m, models.FieldBio, m.Bio)
	return v
}

func gate(m *models.Member, f models.ProfileField, value string) string {
	if m.FieldVisible(f) {
		return value
	}
	return Hidden
}
