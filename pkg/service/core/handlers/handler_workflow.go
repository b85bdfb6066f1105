package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

type workflowHandler struct {
	workflowService service.WorkflowService
}

func NewWorkflowHandler(s service.WorkflowService) *workflowHandler {
	return &workflowHandler{workflowService: s}
}

func (h *workflowHandler) ListWorkflows(ctx context.Context, r *http.Request, _ any) ([]*service.Workflow, error) {
	const op errs.Op = "workflowHandler.ListWorkflows"

	username := r.URL.Query().Get("username")
	if username == "" {
		return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("username"), "username is required")
	}

	return h.workflowService.ListWorkflows(ctx, username)
}

func (h *workflowHandler) CreateWorkflow(ctx context.Context, _ *http.Request, in service.CreateWorkflowDto) (*service.Workflow, error) {
	return h.workflowService.CreateWorkflow(ctx, in)
}

func (h *workflowHandler) GetWorkflow(ctx context.Context, _ *http.Request, _ any) (*service.Workflow, error) {
	const op errs.Op = "workflowHandler.GetWorkflow"

	id, err := workflowID(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.workflowService.GetWorkflow(ctx, id)
}

func (h *workflowHandler) UpdateWorkflow(ctx context.Context, _ *http.Request, in service.UpdateWorkflowDto) (*service.Workflow, error) {
	const op errs.Op = "workflowHandler.UpdateWorkflow"

	id, err := workflowID(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.workflowService.UpdateWorkflow(ctx, id, in)
}

func (h *workflowHandler) DeleteWorkflow(ctx context.Context, _ *http.Request, _ any) (*service.DeleteResponse, error) {
	const op errs.Op = "workflowHandler.DeleteWorkflow"

	id, err := workflowID(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.workflowService.DeleteWorkflow(ctx, id)
}

func workflowID(ctx context.Context) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParamFromCtx(ctx, "id"), 10, 64)
	if err != nil {
		return 0, errs.E(errs.InvalidRequest, errs.Parameter("id"), err)
	}
	return id, nil
}
