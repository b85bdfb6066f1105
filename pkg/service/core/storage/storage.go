package storage

import (
	"github.com/sheetflow/sheetflow-backend/pkg/database"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage/fs"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage/sqlite"
)

type Stores struct {
	UserStorage     service.UserStorage
	WorkflowStorage service.WorkflowStorage
	UploadStorage   service.UploadStorage
}

func NewStores(db *database.Repo, uploadDir string) (*Stores, error) {
	uploads, err := fs.NewUploadStorage(uploadDir)
	if err != nil {
		return nil, err
	}

	return &Stores{
		UserStorage:     sqlite.NewUserStorage(db),
		WorkflowStorage: sqlite.NewWorkflowStorage(db),
		UploadStorage:   uploads,
	}, nil
}
