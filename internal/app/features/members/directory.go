// internal/app/features/members/directory.go
package members

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/profilepolicy"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type directoryResponse struct {
	Members    []profilepolicy.View `json:"members"`
	HasPrev    bool                 `json:"has_prev"`
	HasNext    bool                 `json:"has_next"`
	PrevCursor string               `json:"prev_cursor,omitempty"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// HandleDirectory lists approved members. GET /members?q=&before=&after=
//
// Pages are keyed on folded full name; q matches name, nickname, department,
// and roles after the same folding. Each entry is run through the privacy
// projection for the current viewer.
func (h *Handler) HandleDirectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Members.SearchApproved(ctx, q.Get("q"), q.Get("before"), q.Get("after"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "member search failed", err, "")
		return
	}

	views := make([]profilepolicy.View, 0, len(res.Members))
	for i := range res.Members {
		m := &res.Members[i]
		views = append(views, profilepolicy.Project(m, authz.IsSelf(r, m.ID)))
	}

	uierrors.JSON(w, http.StatusOK, directoryResponse{
		Members:    views,
		HasPrev:    res.HasPrev,
		HasNext:    res.HasNext,
		PrevCursor: res.PrevCursor,
		NextCursor: res.NextCursor,
	})
}

// HandleView shows one member's profile. GET /members/{id}
//
// Pending members are only visible to admins and to themselves; everyone
// else gets the same 404 as a missing id.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "view member", domainerr.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "view member failed", err)
		return
	}

	isSelf := authz.IsSelf(r, m.ID)
	if m.Status != models.StatusApproved && !isSelf && !authz.IsAdmin(r) {
		h.ErrLog.WriteDomainError(w, r, "view member", domainerr.ErrNotFound)
		return
	}

	uierrors.JSON(w, http.StatusOK, profilepolicy.Project(m, isSelf))
}

// HandleMe shows the signed-in member's own profile. GET /members/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.selfID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			// Session refers to a member that no longer exists.
			h.ErrLog.WriteDomainError(w, r, "load own profile", err)
			return
		}
		h.ErrLog.LogServerError(w, r, "load own profile failed", err, "")
		return
	}

	uierrors.JSON(w, http.StatusOK, profilepolicy.Project(m, true))
}
