package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

type UserEndpoints struct {
	Signup http.HandlerFunc
	Login  http.HandlerFunc
}

func NewUserEndpoints(log zerolog.Logger, h *handlers.Handlers) *UserEndpoints {
	return &UserEndpoints{
		Signup: transport.For(h.UserHandler.Signup).RequestFromJSON().Build(log),
		Login:  transport.For(h.UserHandler.Login).RequestFromJSON().Build(log),
	}
}

func NewUserRoutes(endpoints *UserEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/signup", endpoints.Signup)
		router.Post("/login", endpoints.Login)
	}
}
