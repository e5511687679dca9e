// internal/app/features/registration/handler.go

// Package registration exposes the public membership-application endpoint.
// Submissions land in the approval queue; the members feature owns the
// admin side of that queue.
package registration

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Members: memberstore.New(db),
	}
}

type registrationRequest struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	Nickname   string `json:"nickname,omitempty"`
	StudentID  string `json:"student_id"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// HandleSubmit accepts a new membership application. POST /registration
//
// The application is stored as a pending member; 201 on success with the
// created record. Validation failures come back as 422 with one entry per
// problem field.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse registration body failed", err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.SubmitRegistration(ctx, memberstore.Registration{
		LastName:   req.LastName,
		FirstName:  req.FirstName,
		Nickname:   req.Nickname,
		StudentID:  req.StudentID,
		Department: req.Department,
		Year:       req.Year,
		Bio:        req.Bio,
	}, time.Now())
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, "submit registration failed", err)
		return
	}

	h.Log.Info("registration submitted",
		zap.String("member_id", m.ID.Hex()),
		zap.String("student_id", m.StudentID))
	uierrors.JSON(w, http.StatusCreated, m)
}
