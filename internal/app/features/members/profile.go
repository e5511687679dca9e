// internal/app/features/members/profile.go
package members

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/profilepolicy"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type profileUpdateRequest struct {
	Nickname   *string `json:"nickname"`
	Department *string `json:"department"`
	Year       *string `json:"year"`
	Bio        *string `json:"bio"`

	Roles         []string                     `json:"roles"`
	Privacy       map[models.ProfileField]bool `json:"privacy"`
	FavoriteLinks []models.FavoriteLink        `json:"favorite_links"`
}

// HandleUpdateProfile applies the signed-in member's profile edits.
// PUT /members/me
//
// Absent fields are left untouched; the privacy map and favorite links
// replace the stored set wholesale when present.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.selfID(w, r)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile update body failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.UpdateProfile(ctx, id, memberstore.ProfileUpdate{
		Nickname:      req.Nickname,
		Department:    req.Department,
		Year:          req.Year,
		Bio:           req.Bio,
		Roles:         req.Roles,
		Privacy:       req.Privacy,
		FavoriteLinks: req.FavoriteLinks,
	})
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "update profile failed", err)
		return
	}

	uierrors.JSON(w, http.StatusOK, profilepolicy.Project(m, true))
}

type linkAccountRequest struct {
	Connected  bool   `json:"connected"`
	ExternalID string `json:"external_id,omitempty"`
}

// HandleLinkAccount records the state of one external account connection
// for the signed-in member. PUT /members/me/accounts/{provider}
//
// Disconnecting clears the stored external id along with the flag.
func (h *Handler) HandleLinkAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := h.selfID(w, r)
	if !ok {
		return
	}

	var req linkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse link account body failed", err, "")
		return
	}

	acct := models.LinkedAccount{Connected: req.Connected}
	if req.Connected {
		acct.ExternalID = req.ExternalID
	}

	provider := chi.URLParam(r, "provider")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.SetLinkedAccount(ctx, id, provider, acct); err != nil {
		h.ErrLog.WriteDomainError(w, r, "link account failed", err)
		return
	}

	h.Log.Info("linked account updated",
		zap.String("member_id", id.Hex()),
		zap.String("provider", provider),
		zap.Bool("connected", req.Connected))
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"provider":  provider,
		"connected": req.Connected,
	})
}
