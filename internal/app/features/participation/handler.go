// internal/app/features/participation/handler.go

// Package participation serves event registration: members joining and
// leaving events, their own status and history, and the admin participant
// list.
package participation

import (
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	participationstore "github.com/dalemusser/clubhub/internal/app/store/participations"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/domainerr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Parts   *participationstore.Store
	Events  *eventstore.Store
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Parts:   participationstore.New(db),
		Events:  eventstore.New(db),
		Members: memberstore.New(db),
	}
}

// selfID extracts the signed-in member's ObjectID. Admin sessions have no
// member record and cannot participate; they get a 403.
func (h *Handler) selfID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, _, id, ok := authz.UserCtx(r)
	if !ok {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// eventID parses the enclosing {id} route parameter. A malformed id reads
// as a missing event.
func (h *Handler) eventID(w http.ResponseWriter, r *http.Request, op string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.WriteDomainError(w, r, op, domainerr.ErrNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}
