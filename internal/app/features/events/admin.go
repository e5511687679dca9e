// internal/app/features/events/admin.go
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/adminpolicy"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type eventRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Date        time.Time          `json:"date"`
	Visibility  string             `json:"visibility"`
	TargetYear  string             `json:"target_year,omitempty"`
	Images      []string           `json:"images,omitempty"`
	Deadline    time.Time          `json:"deadline"`
	FormSchema  []models.FormField `json:"form_schema,omitempty"`
}

func (req *eventRequest) draft() eventstore.Draft {
	return eventstore.Draft{
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		Visibility:  req.Visibility,
		TargetYear:  req.TargetYear,
		Images:      req.Images,
		Deadline:    req.Deadline,
		FormSchema:  req.FormSchema,
	}
}

// HandleCreate creates an event. POST /events (admin)
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageEvents(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse event body failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e, err := h.Events.Create(ctx, req.draft(), time.Now())
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "create event failed", err)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", e.ID.Hex()),
		zap.String("name", e.Name))
	uierrors.JSON(w, http.StatusCreated, e)
}

// HandleUpdate overwrites an event. PUT /events/{id} (admin)
//
// Form schema edits are refused once the event has active participations.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageEvents(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "update event", domainerr.ErrNotFound)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse event body failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e, err := h.Events.Update(ctx, id, req.draft(), time.Now())
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "update event failed", err)
		return
	}

	h.Log.Info("event updated", zap.String("event_id", id.Hex()))
	uierrors.JSON(w, http.StatusOK, e)
}

// HandleDelete removes an event and its participations. DELETE /events/{id}
// (admin). Deleting twice is fine.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageEvents(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "delete event", domainerr.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete event failed", err, "")
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
