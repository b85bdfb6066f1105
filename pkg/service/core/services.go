package core

import (
	"github.com/rs/zerolog"

	"github.com/sheetflow/sheetflow-backend/pkg/service"
	"github.com/sheetflow/sheetflow-backend/pkg/service/core/storage"
)

type Services struct {
	UserService     service.UserService
	WorkflowService service.WorkflowService
	UploadService   service.UploadService
	QueryService    service.QueryService
	AnalysisService service.AnalysisService
}

func NewServices(stores *storage.Stores, maxScriptStatements int, log zerolog.Logger) *Services {
	return &Services{
		UserService:     NewUserService(stores.UserStorage),
		WorkflowService: NewWorkflowService(stores.WorkflowStorage, stores.UserStorage),
		UploadService:   NewUploadService(stores.UploadStorage),
		QueryService:    NewQueryService(maxScriptStatements, log.With().Str("subsystem", "query").Logger()),
		AnalysisService: NewAnalysisService(
			stores.WorkflowStorage,
			stores.UploadStorage,
			maxScriptStatements,
			log.With().Str("subsystem", "analysis").Logger(),
		),
	}
}
