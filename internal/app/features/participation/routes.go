// internal/app/features/participation/routes.go
package participation

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MeRoutes mounts the member's own participation history. Typically:
// r.Mount("/me", participation.MeRoutes(handler))
//
// The per-event endpoints live in the events router; see events.Routes.
func MeRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/participations", h.HandleMine)
	})
	return r
}
