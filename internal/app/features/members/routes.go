// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the member endpoints. Typically:
// r.Mount("/members", members.Routes(handler))
//
// Everything requires a session; the approval-queue handlers additionally
// check adminpolicy themselves.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/", h.HandleDirectory)
		r.Get("/me", h.HandleMe)
		r.Put("/me", h.HandleUpdateProfile)
		r.Put("/me/accounts/{provider}", h.HandleLinkAccount)

		r.Get("/pending", h.HandlePending)
		r.Get("/{id}", h.HandleView)
		r.Post("/{id}/approve", h.HandleApprove)
		r.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
