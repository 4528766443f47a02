package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/streamhive/account-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	UpdateAvatar(w http.ResponseWriter, r *http.Request)
	UpdateCoverImage(w http.ResponseWriter, r *http.Request)
	DeleteAvatar(w http.ResponseWriter, r *http.Request)
	DeleteCoverImage(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Account AccountHandler

	AuthMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Account == nil {
		return nil, fmt.Errorf("nil Account handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/users/v1", func(r chi.Router) {
		// --- Anonymous ---
		r.Post("/register", deps.Account.Register)
		r.Post("/login", deps.Account.Login)
		r.Post("/refresh", deps.Account.Refresh)

		// --- Authenticated ---
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Post("/logout", deps.Account.Logout)
			r.Get("/me", deps.Account.Me)
			r.Patch("/me", deps.Account.UpdateProfile)
			r.Post("/password/change", deps.Account.ChangePassword)

			r.Patch("/avatar", deps.Account.UpdateAvatar)
			r.Delete("/avatar", deps.Account.DeleteAvatar)
			r.Patch("/cover-image", deps.Account.UpdateCoverImage)
			r.Delete("/cover-image", deps.Account.DeleteCoverImage)
		})
	})

	return r, nil
}
