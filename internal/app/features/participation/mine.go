// internal/app/features/participation/mine.go
package participation

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
)

// HandleMine lists the member's own participation history, newest first,
// cancelled records included. GET /me/participations
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.selfID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	parts, err := h.Parts.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own participations failed", err, "")
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"participations": parts})
}
