package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

type QueryEndpoints struct {
	Upload       http.HandlerFunc
	PreviewSheet http.HandlerFunc
	Transform    http.HandlerFunc
	ExecuteQuery http.HandlerFunc
}

func NewQueryEndpoints(log zerolog.Logger, h *handlers.Handlers) *QueryEndpoints {
	return &QueryEndpoints{
		Upload:       transport.For(h.QueryHandler.Upload).Build(log),
		PreviewSheet: transport.For(h.QueryHandler.PreviewSheet).RequestFromJSON().Build(log),
		Transform:    transport.For(h.QueryHandler.Transform).RequestFromJSON().Build(log),
		ExecuteQuery: transport.For(h.QueryHandler.ExecuteQuery).RequestFromJSON().Build(log),
	}
}

func NewQueryRoutes(endpoints *QueryEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/upload", endpoints.Upload)
		router.Post("/preview_sheet", endpoints.PreviewSheet)
		router.Post("/transform", endpoints.Transform)
		router.Post("/api/execute-query", endpoints.ExecuteQuery)
	}
}
