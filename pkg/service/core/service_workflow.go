package core

import (
	"context"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.WorkflowService = &workflowService{}

type workflowService struct {
	workflowStorage service.WorkflowStorage
	userStorage     service.UserStorage
}

func NewWorkflowService(workflows service.WorkflowStorage, users service.UserStorage) *workflowService {
	return &workflowService{workflowStorage: workflows, userStorage: users}
}

func (s *workflowService) ListWorkflows(ctx context.Context, username string) ([]*service.Workflow, error) {
	const op errs.Op = "workflowService.ListWorkflows"

	user, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errs.E(op, err)
	}

	workflows, err := s.workflowStorage.GetWorkflowsForUser(ctx, user.ID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return workflows, nil
}

func (s *workflowService) CreateWorkflow(ctx context.Context, input service.CreateWorkflowDto) (*service.Workflow, error) {
	const op errs.Op = "workflowService.CreateWorkflow"

	if input.Name == "" {
		return nil, errs.E(op, errs.InvalidRequest, errs.Parameter("name"), "name is required")
	}

	// A workflow always belongs to an existing user.
	user, err := s.userStorage.GetUserByUsername(ctx, input.Username)
	if err != nil {
		return nil, errs.E(op, err)
	}

	wf, err := s.workflowStorage.CreateWorkflow(ctx, user.ID, input.NewWorkflowFields)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return wf, nil
}

func (s *workflowService) GetWorkflow(ctx context.Context, id int64) (*service.Workflow, error) {
	const op errs.Op = "workflowService.GetWorkflow"

	wf, err := s.workflowStorage.GetWorkflow(ctx, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return wf, nil
}

func (s *workflowService) UpdateWorkflow(ctx context.Context, id int64, update service.UpdateWorkflowDto) (*service.Workflow, error) {
	const op errs.Op = "workflowService.UpdateWorkflow"

	wf, err := s.workflowStorage.UpdateWorkflow(ctx, id, update)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return wf, nil
}

func (s *workflowService) DeleteWorkflow(ctx context.Context, id int64) (*service.DeleteResponse, error) {
	const op errs.Op = "workflowService.DeleteWorkflow"

	if err := s.workflowStorage.DeleteWorkflow(ctx, id); err != nil {
		return nil, errs.E(op, err)
	}

	return &service.DeleteResponse{Success: true}, nil
}
