package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

type AnalysisEndpoints struct {
	RunAnalysisScript http.HandlerFunc
}

func NewAnalysisEndpoints(log zerolog.Logger, h *handlers.Handlers) *AnalysisEndpoints {
	return &AnalysisEndpoints{
		RunAnalysisScript: transport.For(h.AnalysisHandler.RunAnalysisScript).RequestFromJSON().Build(log),
	}
}

func NewAnalysisRoutes(endpoints *AnalysisEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Post("/run_analysis_script", endpoints.RunAnalysisScript)
	}
}
