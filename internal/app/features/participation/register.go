// internal/app/features/participation/register.go
package participation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.uber.org/zap"
)

type registerRequest struct {
	Answers map[string]models.Answer `json:"answers"`
}

// HandleRegister signs the member up for an event.
// POST /events/{id}/participation
//
// Re-registering while already active overwrites the stored answers.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.selfID(w, r)
	if !ok {
		return
	}
	eventID, ok := h.eventID(w, r, "register participation")
	if !ok {
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse participation body failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// A restricted event a member cannot see cannot be joined either.
	e, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "register participation failed", err)
		return
	}
	if e.Visibility == models.VisibilityRestricted {
		m, err := h.Members.GetByID(ctx, userID)
		if err != nil || !m.LinkedAccounts[models.ProviderDiscord].Connected {
			h.ErrLog.WriteDomainError(w, r, "register participation", domainerr.ErrNotFound)
			return
		}
	}

	p, err := h.Parts.Register(ctx, eventID, userID, req.Answers, time.Now())
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "register participation failed", err)
		return
	}

	h.Log.Info("participation registered",
		zap.String("event_id", eventID.Hex()),
		zap.String("user_id", userID.Hex()))
	uierrors.JSON(w, http.StatusCreated, p)
}

// HandleCancel withdraws the member from an event.
// DELETE /events/{id}/participation
//
// The event must exist. Cancelling is allowed after the deadline and when
// no active registration exists; both come back 200.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.selfID(w, r)
	if !ok {
		return
	}
	eventID, ok := h.eventID(w, r, "cancel participation")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Events.GetByID(ctx, eventID); err != nil {
		h.ErrLog.WriteDomainError(w, r, "cancel participation", err)
		return
	}

	if err := h.Parts.Cancel(ctx, eventID, userID, time.Now()); err != nil {
		h.ErrLog.LogServerError(w, r, "cancel participation failed", err, "")
		return
	}

	h.Log.Info("participation cancelled",
		zap.String("event_id", eventID.Hex()),
		zap.String("user_id", userID.Hex()))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type statusResponse struct {
	Participating bool                  `json:"participating"`
	Participation *models.Participation `json:"participation,omitempty"`
}

// HandleStatus reports the member's own registration for an event.
// GET /events/{id}/participation
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.selfID(w, r)
	if !ok {
		return
	}
	eventID, ok := h.eventID(w, r, "participation status")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Parts.Get(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			uierrors.JSON(w, http.StatusOK, statusResponse{Participating: false})
			return
		}
		h.ErrLog.LogServerError(w, r, "load participation failed", err, "")
		return
	}

	uierrors.JSON(w, http.StatusOK, statusResponse{
		Participating: true,
		Participation: p,
	})
}
