// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/clubhub/internal/app/features/participation"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the event endpoints along with the per-event participation
// endpoints, which share the {id} parameter. Typically:
// r.Mount("/events", events.Routes(handler, participationHandler))
//
// Everything requires a session; the management handlers and the participant
// list additionally check adminpolicy themselves.
func Routes(h *Handler, p *participation.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", h.HandleView)
		r.Put("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)

		r.Post("/{id}/participation", p.HandleRegister)
		r.Delete("/{id}/participation", p.HandleCancel)
		r.Get("/{id}/participation", p.HandleStatus)
		r.Get("/{id}/participants", p.HandleParticipants)
	})

	return r
}
