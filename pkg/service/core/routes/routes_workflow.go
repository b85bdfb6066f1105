package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core/handlers"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/transport"
)

type WorkflowEndpoints struct {
	ListWorkflows  http.HandlerFunc
	CreateWorkflow http.HandlerFunc
	GetWorkflow    http.HandlerFunc
	UpdateWorkflow http.HandlerFunc
	DeleteWorkflow http.HandlerFunc
}

func NewWorkflowEndpoints(log zerolog.Logger, h *handlers.Handlers) *WorkflowEndpoints {
	return &WorkflowEndpoints{
		ListWorkflows:  transport.For(h.WorkflowHandler.ListWorkflows).Build(log),
		CreateWorkflow: transport.For(h.WorkflowHandler.CreateWorkflow).RequestFromJSON().Build(log),
		GetWorkflow:    transport.For(h.WorkflowHandler.GetWorkflow).Build(log),
		UpdateWorkflow: transport.For(h.WorkflowHandler.UpdateWorkflow).RequestFromJSON().Build(log),
		DeleteWorkflow: transport.For(h.WorkflowHandler.DeleteWorkflow).Build(log),
	}
}

func NewWorkflowRoutes(endpoints *WorkflowEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/workflows", func(r chi.Router) {
			r.Get("/", endpoints.ListWorkflows)
			r.Post("/", endpoints.CreateWorkflow)
			r.Get("/{id}", endpoints.GetWorkflow)
			r.Put("/{id}", endpoints.UpdateWorkflow)
			r.Delete("/{id}", endpoints.DeleteWorkflow)
		})
	}
}
