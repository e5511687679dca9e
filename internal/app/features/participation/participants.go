// internal/app/features/participation/participants.go
package participation

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/adminpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// participantEntry joins one active participation with the member behind it
// for the admin list. Name and student id bypass the privacy flags here;
// only admins reach this endpoint.
type participantEntry struct {
	models.Participation
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

// HandleParticipants lists an event's active participants with their form
// answers, in submission order. GET /events/{id}/participants (admin)
func (h *Handler) HandleParticipants(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanViewParticipants(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	eventID, ok := h.eventID(w, r, "list participants")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		h.ErrLog.WriteDomainError(w, r, "list participants failed", err)
		return
	}

	parts, err := h.Parts.ListByEvent(ctx, eventID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list participants failed", err, "")
		return
	}

	entries := make([]participantEntry, 0, len(parts))
	for _, p := range parts {
		entry := participantEntry{Participation: p}
		m, err := h.Members.GetByID(ctx, p.UserID)
		switch {
		case err == nil:
			entry.Name = m.FullName()
			entry.StudentID = m.StudentID
		case errors.Is(err, domainerr.ErrNotFound):
			// Member removed after registering; keep the row with answers.
		default:
			h.ErrLog.LogServerError(w, r, "load participant member failed", err, "")
			return
		}
		entries = append(entries, entry)
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"participants": entries,
		"count":        len(entries),
	})
}
