// internal/app/features/events/list.go
package events

import (
	"context"
	"net/http"
	"sort"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// eventView is an event plus its derived registration state at serve time.
type eventView struct {
	models.Event
	Accepting bool `json:"accepting"`
}

// HandleList lists events. GET /events?year=&sort=
//
// The default order is creation order; sort=date orders by event date,
// sort=-date reverses it. Restricted events are dropped for viewers
// without a Discord connection.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.List(ctx, q.Get("year"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, "")
		return
	}

	if !h.canSeeRestricted(ctx, r) {
		visible := events[:0]
		for _, e := range events {
			if e.Visibility == models.VisibilityPublic {
				visible = append(visible, e)
			}
		}
		events = visible
	}

	switch q.Get("sort") {
	case "date":
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date.Before(events[j].Date)
		})
	case "-date":
		sort.SliceStable(events, func(i, j int) bool {
			return events[j].Date.Before(events[i].Date)
		})
	}

	now := time.Now()
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{Event: e, Accepting: e.AcceptingAt(now)})
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"events": views})
}

// HandleView shows one event. GET /events/{id}
//
// A restricted event is indistinguishable from a missing one for viewers
// without a Discord connection.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "view event", domainerr.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "view event failed", err)
		return
	}

	if e.Visibility == models.VisibilityRestricted && !h.canSeeRestricted(ctx, r) {
		h.ErrLog.WriteDomainError(w, r, "view event", domainerr.ErrNotFound)
		return
	}

	uierrors.JSON(w, http.StatusOK, eventView{Event: *e, Accepting: e.AcceptingAt(time.Now())})
}
