// internal/app/features/events/handler.go

// Package events serves the event catalog: admin CRUD over events and their
// registration forms, and the member-facing listings.
package events

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	memberstore "github.com/dalemusser/clubhub/internal/app/store/members"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Events  *eventstore.Store
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Events:  eventstore.New(db),
		Members: memberstore.New(db),
	}
}

// canSeeRestricted reports whether the current viewer may see restricted
// events. Admins always can; members must have their Discord account
// connected. Errors fail closed.
func (h *Handler) canSeeRestricted(ctx context.Context, r *http.Request) bool {
	if authz.IsAdmin(r) {
		return true
	}
	_, _, id, ok := authz.UserCtx(r)
	if !ok {
		return false
	}
	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return m.LinkedAccounts[models.ProviderDiscord].Connected
}
