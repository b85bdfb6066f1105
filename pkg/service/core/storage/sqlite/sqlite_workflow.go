package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.WorkflowStorage = &workflowStorage{}

type workflowStorage struct {
	db *database.Repo
}

func NewWorkflowStorage(db *database.Repo) *workflowStorage {
	return &workflowStorage{db: db}
}

func (s *workflowStorage) CreateWorkflow(ctx context.Context, userID int64, wf service.NewWorkflowFields) (*service.Workflow, error) {
	const op errs.Op = "sqlite.CreateWorkflow"

	res, err := s.db.GetDB().ExecContext(ctx,
		"INSERT INTO workflows (user_id, name, data_prep, analysis, visualisation) VALUES (?, ?, ?, ?, ?)",
		userID, wf.Name, wf.DataPrep, wf.Analysis, wf.Visualisation,
	)
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return s.GetWorkflow(ctx, id)
}

func (s *workflowStorage) GetWorkflow(ctx context.Context, id int64) (*service.Workflow, error) {
	const op errs.Op = "sqlite.GetWorkflow"

	wf := &service.Workflow{}
	err := s.db.GetDB().QueryRowContext(ctx,
		"SELECT id, name, data_prep, analysis, visualisation FROM workflows WHERE id = ?",
		id,
	).Scan(&wf.ID, &wf.Name, &wf.DataPrep, &wf.Analysis, &wf.Visualisation)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(op, errs.NotExist, errs.Parameter("id"), "Workflow not found")
	}
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return wf, nil
}

func (s *workflowStorage) GetWorkflowsForUser(ctx context.Context, userID int64) ([]*service.Workflow, error) {
	const op errs.Op = "sqlite.GetWorkflowsForUser"

	rows, err := s.db.GetDB().QueryContext(ctx,
		"SELECT id, name, data_prep, analysis, visualisation FROM workflows WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}
	defer rows.Close()

	workflows := []*service.Workflow{}
	for rows.Next() {
		wf := &service.Workflow{}
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.DataPrep, &wf.Analysis, &wf.Visualisation); err != nil {
			return nil, errs.E(errs.Database, op, err)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	return workflows, nil
}

func (s *workflowStorage) UpdateWorkflow(ctx context.Context, id int64, update service.UpdateWorkflowDto) (*service.Workflow, error) {
	const op errs.Op = "sqlite.UpdateWorkflow"

	var (
		sets []string
		args []interface{}
	)
	for col, val := range map[string]*string{
		"name":          update.Name,
		"data_prep":     update.DataPrep,
		"analysis":      update.Analysis,
		"visualisation": update.Visualisation,
	} {
		if val != nil {
			sets = append(sets, fmt.Sprintf("%s = ?", col))
			args = append(args, *val)
		}
	}

	if len(sets) == 0 {
		return s.GetWorkflow(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.GetDB().ExecContext(ctx,
		fmt.Sprintf("UPDATE workflows SET %s WHERE id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errs.E(errs.Database, op, err)
	}
	if affected == 0 {
		return nil, errs.E(op, errs.NotExist, errs.Parameter("id"), "Workflow not found")
	}

	return s.GetWorkflow(ctx, id)
}

func (s *workflowStorage) DeleteWorkflow(ctx context.Context, id int64) error {
	const op errs.Op = "sqlite.DeleteWorkflow"

	res, err := s.db.GetDB().ExecContext(ctx, "DELETE FROM workflows WHERE id = ?", id)
	if err != nil {
		return errs.E(errs.Database, op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errs.E(errs.Database, op, err)
	}
	if affected == 0 {
		return errs.E(op, errs.NotExist, errs.Parameter("id"), "Workflow not found")
	}

	return nil
}
