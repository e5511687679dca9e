// internal/app/features/members/admin.go
package members

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/adminpolicy"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type pendingResponse struct {
	Pending       []models.Member `json:"pending"`
	PendingCount  int64           `json:"pending_count"`
	ApprovedCount int64           `json:"approved_count"`
}

// HandlePending lists applications awaiting review, oldest first.
// GET /members/pending (admin)
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageRegistrations(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pending, err := h.Members.ListPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending members failed", err, "")
		return
	}
	approved, err := h.Members.CountByStatus(ctx, models.StatusApproved)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count approved members failed", err, "")
		return
	}

	uierrors.JSON(w, http.StatusOK, pendingResponse{
		Pending:       pending,
		PendingCount:  int64(len(pending)),
		ApprovedCount: approved,
	})
}

// HandleApprove admits a pending application. POST /members/{id}/approve (admin)
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageRegistrations(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "approve member", domainerr.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.Approve(ctx, id, time.Now())
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "approve member failed", err)
		return
	}

	h.Log.Info("member approved",
		zap.String("member_id", m.ID.Hex()),
		zap.String("student_id", m.StudentID))
	uierrors.JSON(w, http.StatusOK, m)
}

// HandleReject removes a member in any state. POST /members/{id}/reject (admin)
//
// The record is removed; only a rejection tombstone remains. The student can
// apply again with the same student id.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	if !adminpolicy.CanManageRegistrations(r) {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "reject member", domainerr.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Reject(ctx, id, time.Now()); err != nil {
		h.ErrLog.WriteDomainError(w, r, "reject member failed", err)
		return
	}

	h.Log.Info("member rejected", zap.String("member_id", id.Hex()))
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}
