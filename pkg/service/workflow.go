package service

import "context"

// Workflow is a saved pipeline of data-prep, analysis and visualisation
// definitions. The owner is not part of the wire shape.
type Workflow struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	DataPrep      string `json:"data_prep"`
	Analysis      string `json:"analysis"`
	Visualisation string `json:"visualisation"`
}

type WorkflowStorage interface {
	CreateWorkflow(ctx context.Context, userID int64, wf NewWorkflowFields) (*Workflow, error)
	GetWorkflow(ctx context.Context, id int64) (*Workflow, error)
	GetWorkflowsForUser(ctx context.Context, userID int64) ([]*Workflow, error)
	UpdateWorkflow(ctx context.Context, id int64, update UpdateWorkflowDto) (*Workflow, error)
	DeleteWorkflow(ctx context.Context, id int64) error
}

type WorkflowService interface {
	ListWorkflows(ctx context.Context, username string) ([]*Workflow, error)
	CreateWorkflow(ctx context.Context, input CreateWorkflowDto) (*Workflow, error)
	GetWorkflow(ctx context.Context, id int64) (*Workflow, error)
	UpdateWorkflow(ctx context.Context, id int64, update UpdateWorkflowDto) (*Workflow, error)
	DeleteWorkflow(ctx context.Context, id int64) (*DeleteResponse, error)
}

type NewWorkflowFields struct {
	Name          string `json:"name"`
	DataPrep      string `json:"data_prep"`
	Analysis      string `json:"analysis"`
	Visualisation string `json:"visualisation"`
}

type CreateWorkflowDto struct {
	Username string `json:"username"`
	NewWorkflowFields
}

// UpdateWorkflowDto is a partial update: only non-nil fields change.
type UpdateWorkflowDto struct {
	Name          *string `json:"name"`
	DataPrep      *string `json:"data_prep"`
	Analysis      *string `json:"analysis"`
	Visualisation *string `json:"visualisation"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
