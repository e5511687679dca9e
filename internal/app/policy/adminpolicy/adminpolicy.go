// Package adminpolicy provides authorization policies for the admin console
// commands.
//
// Authorization rules:
//   - Admins approve/reject registrations, create and delete events, edit
//     event form schemas, and see the participant list with answers.
//   - Members see the directory and events, manage their own profile, and
//     register for events; they never see other members' answers.
//   - Visitors (no session) can only submit a registration.
package adminpolicy

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/authz"
)

// CanManageRegistrations reports whether the current user may approve or
// reject pending registrations and list them.
func CanManageRegistrations(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanManageEvents reports whether the current user may create or delete
// events and edit their form schemas.
func CanManageEvents(r *http.Request) bool {
	return authz.IsAdmin(r)
}

// CanViewParticipants reports whether the current user may list an event's
// participants with their form answers.
func CanViewParticipants(r *http.Request) bool {
	return authz.IsAdmin(r)
}
