// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	SessionMgr *auth.Manager
	Members    *memberstore.Store

	// Admin credentials from config. The hash is bcrypt.
	AdminLoginID      string
	AdminPasswordHash string
}

func NewHandler(db *mongo.Database, sessionMgr *auth.Manager, errLog *uierrors.ErrorLogger, logger *zap.Logger, adminLoginID, adminPasswordHash string) *Handler {
	return &Handler{
		DB:                db,
		Log:               logger,
		ErrLog:            errLog,
		SessionMgr:        sessionMgr,
		Members:           memberstore.New(db),
		AdminLoginID:      adminLoginID,
		AdminPasswordHash: adminPasswordHash,
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"` // admin login id or member student id
	Password string `json:"password,omitempty"`
}

type loginResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// HandleLogin signs a user in. POST /login
//
// An admin authenticates with the configured login id and password. Anyone
// else is treated as a member logging in by student id; the identity
// provider fronting this API has already vouched for them, so no member
// password exists here. Pending members cannot sign in.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login body failed", err, "")
		return
	}

	if req.LoginID == h.AdminLoginID && h.AdminLoginID != "" {
		if bcrypt.CompareHashAndPassword([]byte(h.AdminPasswordHash), []byte(req.Password)) != nil {
			h.Log.Warn("admin login rejected", zap.String("login_id", req.LoginID))
			uierrors.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
			return
		}
		u := auth.SessionUser{ID: "admin", Name: h.AdminLoginID, Role: "admin"}
		if err := h.SessionMgr.SignIn(w, r, u); err != nil {
			h.ErrLog.LogServerError(w, r, "admin sign-in failed", err, "")
			return
		}
		uierrors.JSON(w, http.StatusOK, loginResponse{ID: u.ID, Name: u.Name, Role: u.Role})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByStudentID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			uierrors.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
			return
		}
		h.ErrLog.LogServerError(w, r, "member login lookup failed", err, "")
		return
	}
	if m.Status != models.StatusApproved {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "not_approved"})
		return
	}

	u := auth.SessionUser{ID: m.ID.Hex(), Name: m.FullName(), Role: "member"}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "member sign-in failed", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, loginResponse{ID: u.ID, Name: u.Name, Role: u.Role})
}

// HandleLogout clears the session. POST /logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.ErrLog.LogServerError(w, r, "sign-out failed", err, "")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
