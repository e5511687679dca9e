// internal/app/features/members/handler.go

// Package members serves the member directory, self profile management, and
// the admin approval queue.
package members

import (
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
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

// selfID extracts the signed-in member's ObjectID. The admin session has no
// member record, so admins (and anything else without a valid id) get a 403
// and false.
func (h *Handler) selfID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, _, id, ok := authz.UserCtx(r)
	if !ok {
		uierrors.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return primitive.NilObjectID, false
	}
	return id, true
}
