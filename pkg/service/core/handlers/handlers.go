package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/sheetflow/sheetflow-backend/pkg/service/core"
)

type Handlers struct {
	UserHandler     *userHandler
	WorkflowHandler *workflowHandler
	UploadHandler   *uploadHandler
	QueryHandler    *queryHandler
	AnalysisHandler *analysisHandler
}

func NewHandlers(s *core.Services) *Handlers {
	return &Handlers{
		UserHandler:     NewUserHandler(s.UserService),
		WorkflowHandler: NewWorkflowHandler(s.WorkflowService),
		UploadHandler:   NewUploadHandler(s.UploadService),
		QueryHandler:    NewQueryHandler(s.QueryService),
		AnalysisHandler: NewAnalysisHandler(s.AnalysisService),
	}
}

// fileFromRequest reads the first file part of a multipart upload.
func fileFromRequest(r *http.Request) (string, []byte, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return "", nil, fmt.Errorf("creating multipart reader: %w", err)
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("reading next part: %w", err)
		}

		if part.FileName() == "" {
			continue
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return "", nil, fmt.Errorf("reading part data: %w", err)
		}

		return part.FileName(), data, nil
	}

	return "", nil, fmt.Errorf("no file in request")
}
